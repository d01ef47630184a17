// Command bg3kit is the CLI front end over the format pipeline: path
// translation, conversion scanning/staging, batch conversion, preview,
// and mod validation.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bg3kit:", err)
		os.Exit(exitCodeFor(err))
	}
}
