// ftl-watch is a one-shot CLI for checking live tournament state: pool
// scores, pool results, elimination brackets, and fencer lookups.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Remco28/fencer-schedules/pkg/bulk"
	"github.com/Remco28/fencer-schedules/pkg/client"
	"github.com/Remco28/fencer-schedules/pkg/logging"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNotReady = 2
)

var (
	flagEvent   string
	flagRound   string
	flagDE      bool
	flagFencer  string
	flagForce   bool
	flagFormat  string
	flagBaseURL string
	flagTimeout time.Duration
	flagWorkers int
	flagVerbose bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ftl-watch",
		Short: "Check live fencing tournament state",
		Long: `A CLI tool to fetch the current state of a fencing tournament round:
pool scoresheets and results, elimination brackets, or a single fencer's
placement.`,
		RunE:          runWatch,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagEvent, "event", "", "Event identifier (required)")
	cmd.Flags().StringVar(&flagRound, "round", "", "Round identifier (required)")
	cmd.Flags().BoolVar(&flagDE, "de", false, "Round is a direct-elimination tableau")
	cmd.Flags().StringVar(&flagFencer, "fencer", "", "Search for a fencer by name (pools rounds only)")
	cmd.Flags().BoolVar(&flagForce, "force-refresh", false, "Bypass the cache")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Override the upstream base URL")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 10*time.Second, "Per-request timeout")
	cmd.Flags().IntVar(&flagWorkers, "workers", bulk.DefaultWorkers, "Concurrent pool fetches")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.MarkFlagRequired("event")
	cmd.MarkFlagRequired("round")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	if flagDE && flagFencer != "" {
		return fmt.Errorf("--fencer applies to pools rounds, not --de")
	}

	level := logging.LevelWarn
	if flagVerbose {
		level = logging.LevelDebug
	}
	logging.Setup(logging.Config{Level: level, Pretty: true, Output: os.Stderr})

	c, err := client.New(client.Config{
		BaseURL: flagBaseURL,
		Timeout: flagTimeout,
	})
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	fetcher, err := bulk.New(bulk.Config{Client: c, Workers: flagWorkers})
	if err != nil {
		return fmt.Errorf("creating fetcher: %w", err)
	}

	ctx := context.Background()

	switch {
	case flagDE:
		tableau, err := fetcher.FetchTableau(ctx, flagEvent, flagRound, flagForce)
		if err != nil {
			return fmt.Errorf("fetching tableau: %w", err)
		}
		return WriteTableau(os.Stdout, tableau, format)

	case flagFencer != "":
		result, err := fetcher.SearchFencer(ctx, flagEvent, flagRound, flagFencer, flagForce)
		if err != nil {
			return fmt.Errorf("searching fencer: %w", err)
		}
		return WriteSearch(os.Stdout, result, format)

	default:
		bundle, err := fetcher.PoolsBundle(ctx, flagEvent, flagRound, flagForce)
		if err != nil {
			var notYet *bulk.NotYetAvailableError
			if errors.As(err, &notYet) {
				fmt.Fprintln(os.Stderr, "Pool results are not posted yet; try again after the round closes.")
				os.Exit(ExitNotReady)
			}
			return fmt.Errorf("fetching pools bundle: %w", err)
		}
		return WriteBundle(os.Stdout, bundle, format)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
