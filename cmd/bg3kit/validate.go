package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cyberdeco/bg3kit/internal/modvalidate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <mod-dir>",
	Short: "Validate a mod directory's structure",
	Long:  "Checks for a required Mods/ directory, per-mod meta.lsx presence, engine-folder expected children, optional directories, and case-sensitivity issues.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	result := modvalidate.Validate(args[0])

	for _, s := range result.Structure {
		cmd.Println(s)
	}
	for _, w := range result.Warnings {
		cmd.Println("warning:", w)
	}
	for _, e := range result.Errors {
		cmd.Println("error:", e)
	}

	names := make([]string, 0, len(result.Metadata))
	for name := range result.Metadata {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.Printf("%s metadata:\n", name)
		meta := result.Metadata[name]
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("  %s: %s\n", k, meta[k])
		}
	}

	if !result.Valid {
		return fmt.Errorf("mod directory failed validation: %s", args[0])
	}
	return nil
}
