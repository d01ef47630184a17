package main

import (
	"context"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <package-file> <destination-dir>",
	Short: "Extract a package archive via the external converter",
	Long:  "Drives the converter's extract-package verb. Pass --file to extract a single entry with extract-single-file instead of the whole archive.",
	Args:  cobra.ExactArgs(2),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().String("file", "", "extract only this single entry path from the archive")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
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

	verb := "extract-package"
	convArgs := []string{"--action", verb, "--game", "bg3", "--source", source, "--destination", destination}
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		verb = "extract-single-file"
		convArgs = []string{"--action", verb, "--game", "bg3", "--source", source, "--destination", destination, "--file", file}
	}

	_, err = runConverterVerb(ctx, mon, func(percent int, message string) {
		cmd.Printf("[%3d%%] %s\n", percent, message)
	}, convArgs...)
	if err != nil {
		return err
	}
	cmd.Printf("extracted to %s\n", args[1])
	return nil
}
