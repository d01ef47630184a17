package main

import (
	"context"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Produce a structured preview of a single file",
	Long:  "Dispatches path to the handler registry by extension and prints the resulting preview record. Binary-dialect files are round-tripped through the external converter.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().Int("cache-capacity", 0, "preview cache capacity (0 disables caching)")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mon, translator, opts, err := buildMonitor(ctx, cmd)
	if err != nil {
		return err
	}

	capacity, _ := cmd.Flags().GetInt("cache-capacity")
	if !cmd.Flags().Changed("cache-capacity") {
		capacity = opts.Cache.ResolvedCapacity()
	}
	engine := buildPreviewEngine(mon, translator, capacity)

	rec, err := engine.PreviewWithProgress(ctx, args[0], func(percent int, message string) {
		cmd.Printf("[%3d%%] %s\n", percent, message)
	})
	if err != nil {
		return err
	}

	if rec.Err != "" {
		cmd.Println(rec.Err)
		return nil
	}

	cmd.Printf("%s (%s, %d bytes)\n", rec.Filename, rec.Extension, rec.Size)
	for k, v := range rec.Metadata {
		cmd.Printf("  %s: %s\n", k, v)
	}
	if rec.Content != "" {
		cmd.Println("---")
		cmd.Println(rec.Content)
	}
	if len(rec.Thumbnail) > 0 {
		cmd.Printf("(thumbnail: %d bytes)\n", len(rec.Thumbnail))
	}
	return nil
}
