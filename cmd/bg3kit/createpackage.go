package main

import (
	"context"

	"github.com/spf13/cobra"
)

var createPackageCmd = &cobra.Command{
	Use:   "create-package <source-dir> <package-file>",
	Short: "Pack a directory into an archive via the external converter",
	Long:  "Drives the converter's create-package verb. The archive format itself is never produced by this tool directly.",
	Args:  cobra.ExactArgs(2),
	RunE:  runCreatePackage,
}

func init() {
	rootCmd.AddCommand(createPackageCmd)
}

func runCreatePackage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mon, translator, _, err := buildMonitor(ctx, cmd)
	if err != nil {
		return err
	}

	source, err := translator.ToEmulated(args[0])
	if err != nil {
		return err
	}
	destination, err := translator.ToEmulated(args[1])
	if err != nil {
		return err
	}

	_, err = runConverterVerb(ctx, mon, func(percent int, message string) {
		cmd.Printf("[%3d%%] %s\n", percent, message)
	}, "--action", "create-package", "--game", "bg3", "--source", source, "--destination", destination)
	if err != nil {
		return err
	}
	cmd.Printf("package created at %s\n", args[1])
	return nil
}
