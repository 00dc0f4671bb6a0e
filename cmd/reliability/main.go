// Command reliability computes neighborhood reliability profiles from
// disaster-damage reports.
//
// Usage:
//
//	reliability compute --input data/reports.csv [--output snapshot.json]
//	reliability serve
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "reliability",
	Short: "Neighborhood report reliability metrics",
	Long: "reliability scores how trustworthy the damage reports from each\n" +
		"neighborhood are along eight axes and serves the results.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
