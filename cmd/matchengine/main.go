// Command matchengine reads a stream of order submissions and cancels from
// standard input, dispatches each against a single in-process engine, and
// writes trades plus book snapshots to standard output - the reference
// engine's CLI surface, rebuilt on cobra for flag handling.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matchengine/driver"
	"matchengine/internal/logging"
	"matchengine/internal/metrics"
	"matchengine/matching"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		propagateBadID bool
		logLevel       string
		metricsFile    string
	)

	cmd := &cobra.Command{
		Use:   "matchengine",
		Short: "Run the single-instrument matching engine over stdin/stdout",
		Long: "matchengine reads order submissions and cancels, one per line, from " +
			"standard input, and writes resulting trades and book snapshots to " +
			"standard output.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(propagateBadID, logLevel, metricsFile)
		},
	}

	cmd.Flags().BoolVar(&propagateBadID, "propagate-bad-id", false,
		"terminate instead of swallow-and-continue on duplicate-insert or unknown-cancel faults")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "zap log level: debug, info, warn, error")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "file to write a Prometheus text snapshot to on clean EOF")

	return cmd
}

func run(propagateBadID bool, logLevel, metricsFile string) error {
	log, err := logging.New(logLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	reg := metrics.New()
	engine := matching.NewEngine()

	r := driver.New(engine, os.Stdout, log, reg, driver.Options{PropagateBadID: propagateBadID})
	runErr := r.Run(os.Stdin)

	if metricsFile != "" && runErr == nil {
		if err := writeMetrics(reg, metricsFile); err != nil {
			log.Warn("failed to write metrics snapshot", zap.Error(err))
		}
	}

	return runErr
}

func writeMetrics(reg *metrics.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return reg.WriteTo(f)
}
