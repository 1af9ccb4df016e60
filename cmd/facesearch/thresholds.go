package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/facesearch/pkg/vectordb"
)

func newThresholdsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thresholds",
		Short: "Print the calibrated distance thresholds per model and metric",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := vectordb.ValidateThresholds(); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tMETRIC\tTHRESHOLD")
			for _, e := range vectordb.ThresholdTable() {
				fmt.Fprintf(w, "%s\t%s\t%g\n", e.Model, e.Metric, e.Threshold)
			}
			return w.Flush()
		},
	}
}
