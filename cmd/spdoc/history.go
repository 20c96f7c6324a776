package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/spdoc/internal/assembler"
	"github.com/nao1215/spdoc/internal/database"
	"github.com/nao1215/spdoc/internal/report"
)

// shortDigestLen is the number of digest characters shown in listings.
const shortDigestLen = 12

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [schema.procedure]",
		Short: "Show the generation history",
		Long: `History lists the generations stored in the history database.

Each generation keeps the record exactly as it was rendered, so a stored
generation can be rendered again with --show in any format.

Examples:
  # List all procedures in the history database
  spdoc history --list-procedures

  # List the generations of a procedure
  spdoc history dbo.usp_Customer_Update

  # Render generation 3 again as plain text
  spdoc history --show 3 -f text`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-procedures", "L", false,
		"List all procedures in the history database")
	cmd.Flags().Int64P("show", "s", 0,
		"Render the stored generation with this ID")
	cmd.Flags().StringP("format", "f", string(report.FormatMarkdown),
		"Output format of --show: text, markdown, html, json")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listProcedures, err := cmd.Flags().GetBool("list-procedures")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	if !listProcedures && showID == 0 && len(args) == 0 {
		return errors.New("procedure name is required (use --list-procedures to see available procedures)")
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	db, err := database.Open(getDBDir(cmd), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case listProcedures:
		return listStoredProcedures(ctx, out, db)
	case showID > 0:
		return showGeneration(ctx, out, setupLogger(cmd), db, showID, format)
	default:
		return listGenerationHistory(ctx, out, db, args[0])
	}
}

// listStoredProcedures lists all procedures that have generations.
func listStoredProcedures(ctx context.Context, w io.Writer, db *database.HistoryDB) error {
	procedures, err := db.ListProcedures(ctx)
	if err != nil {
		return fmt.Errorf("failed to list procedures: %w", err)
	}

	if len(procedures) == 0 {
		fmt.Fprintln(w, "No procedures found in the history database.")
		fmt.Fprintln(w, "\nUse 'spdoc generate <record-file>' to generate documentation.")
		return nil
	}

	fmt.Fprintf(w, "Documented procedures (%d):\n\n", len(procedures))
	for _, procedure := range procedures {
		fmt.Fprintf(w, "  • %s\n", procedure)
	}
	fmt.Fprintln(w, "\nUse 'spdoc history <name>' to see the generations of a procedure.")

	return nil
}

// listGenerationHistory lists all generations of a procedure.
func listGenerationHistory(ctx context.Context, w io.Writer, db *database.HistoryDB, procedure string) error {
	history, err := db.GetHistory(ctx, procedure)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(history) == 0 {
		fmt.Fprintf(w, "No generation history found for %s\n", procedure)
		return nil
	}

	fmt.Fprintf(w, "Generation history for %s (%d generations):\n\n", procedure, len(history))
	fmt.Fprintf(w, "  %-6s  %-20s  %-8s  %-8s  %-8s  %s\n", "ID", "Date", "Version", "Mode", "Sections", "Digest")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 72))

	for _, meta := range history {
		fmt.Fprintf(w, "  %-6d  %-20s  %-8s  %-8s  %-8d  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.Version,
			meta.Mode,
			meta.SectionCount,
			shortDigest(meta.Digest),
		)
	}

	fmt.Fprintln(w, "\nUse 'spdoc history --show <id>' to render a generation again.")
	fmt.Fprintln(w, "Use 'spdoc compare <name>' to compare the latest two generations.")

	return nil
}

// showGeneration renders a stored generation again.
// A digest mismatch means the assembler output changed since the
// generation was stored; the fresh rendering is still written.
func showGeneration(ctx context.Context, w io.Writer, logger *slog.Logger, db *database.HistoryDB, id int64, format report.Format) error {
	g, err := db.GetGenerationByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get generation %d: %w", id, err)
	}
	if g == nil {
		return fmt.Errorf("generation %d not found", id)
	}

	doc, err := assembler.Assemble(g.Record)
	if err != nil {
		return fmt.Errorf("failed to assemble generation %d: %w", id, err)
	}

	digest, err := doc.Digest()
	if err != nil {
		return err
	}
	if digest != g.Digest {
		logger.Warn("stored generation renders differently today",
			"generation", id,
			"procedure", g.Procedure,
			"stored_digest", shortDigest(g.Digest),
			"digest", shortDigest(digest),
		)
	}

	writer, err := report.NewWriter(format, w, nil)
	if err != nil {
		return err
	}
	_, err = writer.Write(doc)
	return err
}

// shortDigest shortens a digest for display.
func shortDigest(digest string) string {
	if len(digest) <= shortDigestLen {
		return digest
	}
	return digest[:shortDigestLen]
}
