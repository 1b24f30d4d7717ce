package main

import (
	"encoding/json"
	"io"

	"github.com/aristath/qvlens/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "qvlens",
		Short:        "Compare quadratic voting with one-person-one-vote allocations",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	logFor := func(cmd *cobra.Command) zerolog.Logger {
		if !verbose {
			return logger.Nop()
		}
		return logger.New(logger.Config{Level: "debug", Pretty: true, Output: cmd.ErrOrStderr()})
	}

	root.AddCommand(
		newStatsCmd(logFor),
		newCompareCmd(logFor),
	)
	return root
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
