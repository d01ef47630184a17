package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cyberdeco/bg3kit/internal/convert"
)

var listPackageCmd = &cobra.Command{
	Use:   "list-package <package-file>",
	Short: "List a package archive's contents without extracting it",
	Long:  "Shells out to the converter's list-package verb and prints the per-entry manifest (path, size, compressed size). The archive format itself is never decoded by this tool.",
	Args:  cobra.ExactArgs(1),
	RunE:  runListPackage,
}

func init() {
	rootCmd.AddCommand(listPackageCmd)
}

func runListPackage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mon, translator, _, err := buildMonitor(ctx, cmd)
	if err != nil {
		return err
	}

	entries, err := convert.ListPackage(ctx, mon, translator, args[0])
	if err != nil {
		return err
	}

	for _, e := range entries {
		cmd.Printf("%s\t%d\t%d\n", e.Path, e.Size, e.Compressed)
	}
	cmd.Printf("%d entries\n", len(entries))
	return nil
}
