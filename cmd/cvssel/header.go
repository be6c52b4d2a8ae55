package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zero-day-ai/cvssel/source"
)

type headerOutput struct {
	Version string `json:"version"`
	Host    string `json:"host"`
	Role    string `json:"role,omitempty"`
	Issuer  string `json:"issuer,omitempty"`
	Header  string `json:"header"`
}

func newHeaderCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "header <text>",
		Short:   "Decode a (combined) source column header",
		Example: `cvssel header "CVSS:3.1 NVD + CVSS:3.1 GHSA-CNA-GitHub"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := outputJSON(v)
			if err != nil {
				return err
			}

			srcs, err := source.ParseCombinedHeader(args[0])
			if err != nil {
				return err
			}

			out := make([]headerOutput, len(srcs))
			for i, src := range srcs {
				out[i] = headerOutput{
					Version: src.Version().String(),
					Host:    src.Host(),
					Role:    src.Role(),
					Issuer:  src.Issuer(),
					Header:  source.FormatHeader(src),
				}
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tHOST\tROLE\tISSUER")
			for _, o := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Version, o.Host, o.Role, o.Issuer)
			}
			return tw.Flush()
		},
	}
}
