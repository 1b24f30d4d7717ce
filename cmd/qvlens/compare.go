package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aristath/qvlens/internal/modules/comparison"
	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	defaultBudget    = 250000
	defaultThreshold = 4
)

func newCompareCmd(logFor func(*cobra.Command) zerolog.Logger) *cobra.Command {
	var (
		electionPath   string
		votesPath      string
		candidatesPath string
		budget         float64
		threshold      float64
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Build a QV vs OPOV comparison report from an election export",
		Long: `Build a QV vs OPOV comparison report from an election export.
The election is read from a JSON export (--election, "-" for stdin) or from
a votes/candidates CSV pair. Duplicate voters keep their last ballot.
Example:
$ qvlens compare --election election.json --budget 250000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logFor(cmd)

			e, err := loadElection(cmd.InOrStdin(), electionPath, votesPath, candidatesPath)
			if err != nil {
				return err
			}
			if err := e.Validate(); err != nil {
				return err
			}

			ballots, removed := voting.DeduplicateBallots(e.Ballots)
			e.Ballots = ballots
			log.Debug().
				Int("ballots", len(ballots)).
				Int("duplicates_removed", removed).
				Msg("Loaded election")

			report, err := comparison.BuildReport(e, comparison.Options{
				Budget:          budget,
				StrongThreshold: threshold,
			}, inequality.NewService(log))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&electionPath, "election", "", "election JSON export, - for stdin")
	cmd.Flags().StringVar(&votesPath, "votes", "", "votes CSV (with --candidates)")
	cmd.Flags().StringVar(&candidatesPath, "candidates", "", "candidates CSV (with --votes)")
	cmd.Flags().Float64Var(&budget, "budget", defaultBudget, "budget split between candidates")
	cmd.Flags().Float64Var(&threshold, "threshold", defaultThreshold, "minimum QV vote counted as strong support")
	cmd.MarkFlagsMutuallyExclusive("election", "votes")
	cmd.MarkFlagsRequiredTogether("votes", "candidates")

	return cmd
}

func loadElection(stdin io.Reader, electionPath, votesPath, candidatesPath string) (*voting.Election, error) {
	switch {
	case electionPath == "-":
		return voting.ParseElectionJSON(stdin)
	case electionPath != "":
		f, err := os.Open(electionPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open election: %w", err)
		}
		defer f.Close()
		return voting.ParseElectionJSON(f)
	case votesPath != "":
		votes, err := os.Open(votesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open votes: %w", err)
		}
		defer votes.Close()
		candidates, err := os.Open(candidatesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open candidates: %w", err)
		}
		defer candidates.Close()
		return voting.ParseCSV(votes, candidates)
	default:
		return nil, fmt.Errorf("either --election or --votes/--candidates is required")
	}
}
