package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag  string
	userFlag string
	rootCmd  = &cobra.Command{
		Use:   "deckctl",
		Short: "CLI client for the deck service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Deck service base URL")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")

	// list subcommand
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the user's decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runList(apiFlag, userFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(listCmd)

	// export subcommand
	exportCmd := &cobra.Command{
		Use:   "export <deck-id>",
		Short: "Export a deck to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runExport(apiFlag, userFlag, args[0], format, output, os.Stdout)
		},
	}
	exportCmd.Flags().StringP("format", "f", "document", "Export format (document, package)")
	exportCmd.Flags().StringP("output", "o", "", "Output file (defaults to deck-<id>.<ext>)")
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
