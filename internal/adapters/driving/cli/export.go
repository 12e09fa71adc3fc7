package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pages or the whole workspace",
}

var exportMarkdownCmd = &cobra.Command{
	Use:   "markdown [page-id]",
	Short: "Export a page as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportMarkdown,
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export the workspace as JSON",
	Long: `Export the workspace in its persisted JSON form. The output can be
restored with 'quire import'.`,
	Args: cobra.NoArgs,
	RunE: runExportJSON,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the workspace with an exported JSON file",
	Long: `Replace the whole workspace with a JSON export. Use "-" to read from
standard input. Payloads saved by the browser build are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// exportOutput is the output file for export commands. Empty writes to stdout.
var exportOutput string

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")

	exportCmd.AddCommand(exportMarkdownCmd)
	exportCmd.AddCommand(exportJSONCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExportMarkdown(cmd *cobra.Command, args []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	md, err := exportService.Markdown(args[0])
	if err != nil {
		return fmt.Errorf("failed to export page: %w", err)
	}
	return writeExport(cmd, []byte(md))
}

func runExportJSON(cmd *cobra.Command, _ []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	data, err := exportService.JSON()
	if err != nil {
		return fmt.Errorf("failed to export workspace: %w", err)
	}
	return writeExport(cmd, append(data, '\n'))
}

func writeExport(cmd *cobra.Command, data []byte) error {
	if exportOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	cmd.Printf("Wrote %s\n", exportOutput)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}

	if err := exportService.Import(commandContext(cmd), data); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}
	cmd.Println("Workspace imported")
	return nil
}
