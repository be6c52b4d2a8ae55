package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zero-day-ai/cvssel"
	"github.com/zero-day-ai/cvssel/resolve"
)

func newAssessCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assess",
		Short:   "Select base and effective vectors for findings",
		Example: "cvssel assess --input findings.yaml --config cvssel.yaml --format json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssess(cmd, v)
		},
	}

	cmd.Flags().StringP("input", "i", "", "Candidates (list) or findings (document) file, JSON or YAML")
	cmd.Flags().String("policy", "", "Version-selection policy override, e.g. V3,LATEST")
	cmd.Flags().Int("workers", 0, "Parallel findings (default GOMAXPROCS)")
	_ = v.BindPFlag("assess.input", cmd.Flags().Lookup("input"))
	_ = v.BindPFlag("assess.policy", cmd.Flags().Lookup("policy"))
	_ = v.BindPFlag("assess.workers", cmd.Flags().Lookup("workers"))
	return cmd
}

// assessOutput is one line of assess output.
type assessOutput struct {
	Finding    string             `json:"finding"`
	Assessment *cvssel.Assessment `json:"assessment,omitempty"`
	Error      string             `json:"error,omitempty"`
}

func runAssess(cmd *cobra.Command, v *viper.Viper) error {
	input := v.GetString("assess.input")
	if input == "" {
		return errors.New("please provide --input pointing to a candidates or findings file")
	}
	asJSON, err := outputJSON(v)
	if err != nil {
		return err
	}

	var opts []cvssel.Option
	if literal := v.GetString("assess.policy"); literal != "" {
		policy, err := resolve.ParsePolicy(literal)
		if err != nil {
			return err
		}
		opts = append(opts, cvssel.WithPolicy(policy))
	}
	if n := v.GetInt("assess.workers"); n > 0 {
		opts = append(opts, cvssel.WithWorkers(n))
	}

	engine, err := newEngine(cmd, v, opts...)
	if err != nil {
		return err
	}

	findings, err := cvssel.LoadFindings(input)
	if err != nil {
		return err
	}

	results, err := engine.AssessBatch(cmd.Context(), findings)
	if err != nil {
		return err
	}

	out := make([]assessOutput, len(results))
	failed := 0
	for i, r := range results {
		out[i] = assessOutput{Finding: r.FindingID, Assessment: r.Assessment}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			failed++
		}
	}

	if asJSON {
		err = writeJSON(cmd.OutOrStdout(), out)
	} else {
		err = writeAssessText(cmd.OutOrStdout(), out)
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d findings failed", failed, len(results))
	}
	return nil
}

func writeAssessText(w io.Writer, out []assessOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FINDING\tSCORE\tSEVERITY\tEFFECTIVE\tSOURCES")
	for _, o := range out {
		switch {
		case o.Error != "":
			fmt.Fprintf(tw, "%s\t-\t-\terror: %s\t\n", o.Finding, o.Error)
		case o.Assessment.Effective == nil:
			fmt.Fprintf(tw, "%s\t-\t%s\t-\t\n", o.Finding, o.Assessment.Severity.Name)
		default:
			e := o.Assessment.Effective
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				o.Finding, formatScore(e.Scores.Overall), o.Assessment.Severity.Name, e.Vector, e.Sources)
		}
	}
	return tw.Flush()
}

func formatScore(score float64) string {
	if math.IsNaN(score) {
		return "-"
	}
	return fmt.Sprintf("%.1f", score)
}
