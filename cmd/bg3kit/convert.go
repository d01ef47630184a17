package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cyberdeco/bg3kit/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert <source-dir>",
	Short: "Stage and convert a workspace's .lsx conversion requests",
	Long:  "Scans a directory for files requesting conversion (*.lsf.lsx etc.), stages a temporary copy, converts each one via the external converter, and (with --output) copies the converted workspace out. The original source directory is never modified.",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().String("output", "", "directory to copy the converted workspace into; omit to only report results")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mon, translator, opts, err := buildMonitor(ctx, cmd)
	if err != nil {
		return err
	}

	orch := convert.NewOrchestrator(mon, translator, opts.Scan.ExcludeGlobs)
	prep, err := orch.PrepareWorkspace(ctx, args[0], func(percent int, message string) {
		cmd.Printf("[%3d%%] %s\n", percent, message)
	})
	if err != nil {
		return err
	}
	defer convert.Cleanup(prep)

	succeeded, failed := 0, 0
	for _, rec := range prep.Conversions {
		if rec.Succeeded {
			succeeded++
		} else {
			failed++
		}
	}
	cmd.Printf("staged at %s: %d converted, %d failed\n", prep.StagingRoot, succeeded, failed)

	if output, _ := cmd.Flags().GetString("output"); output != "" && prep.OwnsStaging {
		if err := copyDir(prep.StagingRoot, output); err != nil {
			return fmt.Errorf("copy converted workspace to %s: %w", output, err)
		}
		cmd.Printf("converted workspace copied to %s\n", output)
	}

	if failed > 0 {
		for _, convErr := range prep.Errors {
			cmd.Println(" -", convErr)
		}
		return fmt.Errorf("%d conversion(s) failed", failed)
	}
	return nil
}

// copyDir recursively copies src onto dst, creating directories as needed.
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
