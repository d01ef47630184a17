package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
)

// errInvalidArgs is returned by subcommands for malformed CLI input, and
// maps to exit code 2 (spec §6).
var errInvalidArgs = errors.New("invalid arguments")

var rootCmd = &cobra.Command{
	Use:   "bg3kit",
	Short: "Cross-format asset toolkit for Baldur's Gate 3 mods",
	Long:  "bg3kit converts, previews, and validates Baldur's Gate 3 mod assets across the game's textual, JSON, and binary dialects.",
}

func init() {
	rootCmd.PersistentFlags().String("converter", "", "path to the external converter executable (overrides config)")
	rootCmd.PersistentFlags().String("drive-letter", "", "emulated drive letter the converter mounts the host root at (overrides config; empty uses config or Z)")
}

// exitCodeFor maps err to the CLI exit codes in spec §6: 0 success, 1
// generic failure, 2 invalid arguments, 3 missing external tool, 4
// cancellation.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errInvalidArgs) {
		return 2
	}
	if bgerr.Is(err, bgerr.KindUnsupported) {
		return 3
	}
	if bgerr.Is(err, bgerr.KindCancelled) || errors.Is(err, context.Canceled) {
		return 4
	}
	return 1
}

func converterPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("converter")
	return path
}
