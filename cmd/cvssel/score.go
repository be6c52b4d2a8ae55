package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newScoreCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "score <vector>",
		Short:   "Score a single vector",
		Example: "cvssel score CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := outputJSON(v)
			if err != nil {
				return err
			}
			engine, err := newEngine(cmd, v)
			if err != nil {
				return err
			}

			report, err := engine.Score(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			s := report.Scores
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			rows := []struct {
				name  string
				value string
			}{
				{"vector", s.Vector},
				{"version", s.Version.String()},
				{"base", formatScore(s.Base)},
				{"impact", formatScore(s.Impact)},
				{"exploitability", formatScore(s.Exploitability)},
				{"temporal", formatScore(s.Temporal)},
				{"environmental", formatScore(s.Environmental)},
				{"overall", formatScore(s.Overall)},
				{"severity", report.Severity.Name},
			}
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\n", r.name, r.value)
			}
			return tw.Flush()
		},
	}
}
