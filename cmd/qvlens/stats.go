package main

import (
	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newStatsCmd(logFor func(*cobra.Command) zerolog.Logger) *cobra.Command {
	var (
		amounts  []float64
		labels   []string
		unsorted bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print shares, Lorenz curve and Gini coefficient of a set of amounts",
		Long: `Print shares, Lorenz curve and Gini coefficient of a set of amounts.
Example:
$ qvlens stats --amounts 327,330,337,373,415,430,477`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := inequality.NewAllocationSet(labels, amounts)
			if err != nil {
				return err
			}
			summary, err := inequality.NewService(logFor(cmd)).Analyze(set, !unsorted)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().Float64SliceVar(&amounts, "amounts", nil, "comma separated non-negative amounts")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "optional comma separated labels, one per amount")
	cmd.Flags().BoolVar(&unsorted, "unsorted", false, "build the Lorenz curve in the given order")
	_ = cmd.MarkFlagRequired("amounts")

	return cmd
}
