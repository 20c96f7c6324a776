package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/spdoc/internal/config"
)

//go:embed templates/record.yaml templates/config.yaml
var templates embed.FS

// sampleRecordFile is the default file name of the sample record.
const sampleRecordFile = "usp_Customer_Update.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample documentation record",
		Long: `Init writes a sample documentation record that documents every section
spdoc can generate, and optionally a .spdoc configuration file.

Examples:
  # Create usp_Customer_Update.yaml in the current directory
  spdoc init

  # Write the sample record to a specific path
  spdoc init -o records/usp_Customer_Update.yaml

  # Also create a .spdoc configuration file
  spdoc init --config

  # Force overwrite existing files
  spdoc init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", sampleRecordFile,
		"Output file path for the sample record")
	cmd.Flags().Bool("config", false,
		"Also write a "+config.DefaultConfigFile+" configuration file in the current directory")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	withConfig, err := cmd.Flags().GetBool("config")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if err := writeTemplate("templates/record.yaml", outputPath, force); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created sample record: %s\n", outputPath)

	if withConfig {
		if err := writeTemplate("templates/config.yaml", config.DefaultConfigFile, force); err != nil {
			return err
		}
		fmt.Fprintf(out, "Created configuration file: %s\n", config.DefaultConfigFile)
	}

	fmt.Fprintf(out, "\nRun 'spdoc generate %s' to generate its documentation.\n", outputPath)
	return nil
}

// writeTemplate copies an embedded template to path.
func writeTemplate(name, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use -f to overwrite)", path)
		}
	}

	content, err := templates.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
