package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"legis-pro/backend/internal/app"
	"legis-pro/backend/internal/extract"
)

var rootCmd = &cobra.Command{
	Use:   "legis-pro",
	Short: "Chat over legal documents",
	Long: `Legis Pro serves a password-protected chat where an uploaded PDF or
spreadsheet is the context of every conversation.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if code := app.Run(); code != 0 {
			return fmt.Errorf("server exited with code %d", code)
		}
		return nil
	},
}

var maxChars int

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text extracted from a PDF, xlsx or xls file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Legis Pro %s\n", app.Version)
	},
}

func init() {
	extractCmd.Flags().IntVar(&maxChars, "max-chars", 0, "Fail when the extracted text is longer than this (0 disables the limit)")

	rootCmd.AddCommand(serveCmd, extractCmd, versionCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	doc, err := extract.New(0, maxChars).Extract(cmd.Context(), path, f)
	if err != nil {
		return fmt.Errorf("could not extract %s: %w", path, err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
	return err
}
