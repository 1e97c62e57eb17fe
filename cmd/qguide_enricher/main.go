// Package main provides the qguide_enricher CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "qguide_enricher",
	Short: "Augment Harvard Q CSV exports with instructor first names",
	Long: "qguide_enricher follows the report link in each course-evaluation row, scrapes the " +
		"authenticated Q report page, extracts the instructor's first name next to the known " +
		"last name, and derives a coarse gender label.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
