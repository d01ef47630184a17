package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyberdeco/bg3kit/internal/convert"
)

var batchCmd = &cobra.Command{
	Use:   "batch <source=target-format> [...]",
	Short: "Convert a list of files concurrently via a bounded worker pool",
	Long:  "Runs each source=target-format pair as an independent conversion request across a bounded worker pool (spec's batch driver), reporting per-file progress and final state.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().Int("workers", convert.DefaultWorkerCount, "bounded worker pool size")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	requests, err := parseBatchRequests(args)
	if err != nil {
		return err
	}

	mon, translator, opts, err := buildMonitor(ctx, cmd)
	if err != nil {
		return err
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if !cmd.Flags().Changed("workers") {
		workers = opts.Batch.ResolvedWorkers()
	}
	driver := convert.NewBatchDriver(mon, translator, workers)

	var cancel convert.CancelFlag
	ctx, stop := signalAwareContext(ctx, &cancel)
	defer stop()

	results := driver.Run(ctx, requests, &cancel, func(p convert.BatchProgress) {
		cmd.Printf("[%d] %3d%% %s: %s\n", p.Index, p.Percent, p.Source, p.Message)
	})

	summary := convert.Summarize(results)
	cmd.Println(summary.String())
	for _, r := range results {
		if !r.Success {
			cmd.Printf(" - %s -> %s: %s (%v)\n", r.Source, r.Target, r.State, r.Err)
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d job(s) failed", summary.Failed)
	}
	return nil
}

// parseBatchRequests parses "source=target-format" arguments into
// BatchRequests, rejecting anything that doesn't split cleanly.
func parseBatchRequests(args []string) ([]convert.BatchRequest, error) {
	requests := make([]convert.BatchRequest, 0, len(args))
	for _, arg := range args {
		source, target, ok := strings.Cut(arg, "=")
		if !ok || source == "" || target == "" {
			return nil, fmt.Errorf("%w: %q must be source=target-format", errInvalidArgs, arg)
		}
		requests = append(requests, convert.BatchRequest{Source: source, TargetFormat: target})
	}
	return requests, nil
}
