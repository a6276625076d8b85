// Package main provides the entry point for the Leadz job search agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leadz",
	Short: "Leadz AI job search agent",
	Long:  "Leadz turns a plain-language job request into structured job leads: it expands the request into search queries, searches the web, ranks pages by semantic similarity, and extracts structured job records.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
