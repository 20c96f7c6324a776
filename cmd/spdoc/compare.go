package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/spdoc/internal/database"
	"github.com/nao1215/spdoc/internal/document"
)

// titleBlockSection is the section number of the title block. It carries
// the document title rather than a numbered heading, so comparisons treat
// it through the mode instead of its label.
const titleBlockSection = 1

// NewCompareCmd creates the compare command.
// This command compares the outlines of two stored generations.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <schema.procedure>",
		Short: "Compare the section outline of two generations",
		Long: `Compare shows how the document outline of a procedure changed between two
generations stored in the history database:
- Sections that appeared (for example because the complexity score crossed a
  threshold or "What's New" was filled in)
- Sections that disappeared
- Sections whose number changed

By default the latest two generations are compared. Use --with-id to compare
the latest generation with a specific one.

Examples:
  # Compare the latest two generations
  spdoc compare dbo.usp_Customer_Update

  # Compare with generation 5
  spdoc compare --with-id 5 dbo.usp_Customer_Update

  # Output the comparison as JSON
  spdoc compare --json dbo.usp_Customer_Update`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare with a specific generation by ID (see 'spdoc history <name>')")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	db, err := database.Open(getDBDir(cmd), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	result, err := loadComparison(cmd.Context(), db, args[0], withID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return outputComparisonJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

// loadComparison picks the two generations to compare and compares them.
func loadComparison(ctx context.Context, db *database.HistoryDB, procedure string, withID int64) (*ComparisonResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	gens, err := db.GetRecentGenerations(ctx, procedure, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to get generations: %w", err)
	}
	if len(gens) == 0 {
		return nil, fmt.Errorf("no generation history found for %s", procedure)
	}

	current := gens[0]
	var previous *database.Generation

	if withID > 0 {
		previous, err = db.GetGenerationByID(ctx, withID)
		if err != nil {
			return nil, fmt.Errorf("failed to get generation %d: %w", withID, err)
		}
		if previous == nil {
			return nil, fmt.Errorf("generation %d not found", withID)
		}
		if previous.Procedure != procedure {
			return nil, fmt.Errorf("generation %d belongs to %s, not %s", withID, previous.Procedure, procedure)
		}
	} else {
		if len(gens) < 2 {
			return nil, fmt.Errorf("at least 2 generations are required for comparison (found %d)", len(gens))
		}
		previous = gens[1]
	}

	return compareGenerations(previous, current), nil
}

// ComparisonResult holds the result of comparing two generations.
type ComparisonResult struct {
	// Procedure is the qualified procedure name.
	Procedure string `json:"procedure"`

	// Previous and Current describe the compared generations.
	Previous GenerationSummary `json:"previous"`
	Current  GenerationSummary `json:"current"`

	// Identical reports that both generations have the same digest.
	Identical bool `json:"identical"`

	// AddedSections are sections present only in the current generation.
	AddedSections []document.Heading `json:"added_sections,omitempty"`

	// RemovedSections are sections present only in the previous generation.
	RemovedSections []document.Heading `json:"removed_sections,omitempty"`

	// RenumberedSections are sections whose number changed.
	RenumberedSections []Renumbering `json:"renumbered_sections,omitempty"`
}

// GenerationSummary contains metadata about a generation for display.
type GenerationSummary struct {
	ID           int64     `json:"id"`
	Version      string    `json:"version"`
	Mode         string    `json:"mode"`
	SectionCount int       `json:"section_count"`
	Digest       string    `json:"digest"`
	Timestamp    time.Time `json:"timestamp"`
}

// Renumbering describes a section that kept its name but moved.
type Renumbering struct {
	Name string `json:"name"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// summarize extracts the display metadata of g.
func summarize(g *database.Generation) GenerationSummary {
	return GenerationSummary{
		ID:           g.ID,
		Version:      g.Version,
		Mode:         g.Mode.String(),
		SectionCount: g.SectionCount,
		Digest:       g.Digest,
		Timestamp:    g.Timestamp,
	}
}

// compareGenerations compares the outlines of two generations.
// Sections are matched by name, so a section that moved because an earlier
// gated section appeared is reported as renumbered, not as removed and added.
func compareGenerations(previous, current *database.Generation) *ComparisonResult {
	result := &ComparisonResult{
		Procedure: current.Procedure,
		Previous:  summarize(previous),
		Current:   summarize(current),
		Identical: previous.Digest == current.Digest,
	}

	previousSections := sectionNumbers(previous.Outline)
	currentSections := sectionNumbers(current.Outline)

	for _, h := range current.Outline {
		if h.Section == titleBlockSection {
			continue
		}
		name := sectionName(h.Label)
		from, ok := previousSections[name]
		if !ok {
			result.AddedSections = append(result.AddedSections, h)
			continue
		}
		if from != h.Section {
			result.RenumberedSections = append(result.RenumberedSections, Renumbering{Name: name, From: from, To: h.Section})
		}
	}

	for _, h := range previous.Outline {
		if h.Section == titleBlockSection {
			continue
		}
		if _, ok := currentSections[sectionName(h.Label)]; !ok {
			result.RemovedSections = append(result.RemovedSections, h)
		}
	}

	return result
}

// sectionNumbers maps section names to their numbers, skipping the title block.
func sectionNumbers(outline []document.Heading) map[string]int {
	numbers := make(map[string]int, len(outline))
	for _, h := range outline {
		if h.Section == titleBlockSection {
			continue
		}
		numbers[sectionName(h.Label)] = h.Section
	}
	return numbers
}

// sectionName strips the "N. " prefix of a heading label.
func sectionName(label string) string {
	number, name, ok := strings.Cut(label, ". ")
	if !ok {
		return label
	}
	if _, err := strconv.Atoi(number); err != nil {
		return label
	}
	return name
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(w io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(w io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(w)
	md.H1("Outline Comparison: " + result.Procedure)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current"},
		Rows: [][]string{
			{"Generation", strconv.FormatInt(result.Previous.ID, 10), strconv.FormatInt(result.Current.ID, 10)},
			{"Date", result.Previous.Timestamp.Format("2006-01-02 15:04"), result.Current.Timestamp.Format("2006-01-02 15:04")},
			{"Version", result.Previous.Version, result.Current.Version},
			{"Mode", result.Previous.Mode, result.Current.Mode},
			{"Sections", strconv.Itoa(result.Previous.SectionCount), strconv.Itoa(result.Current.SectionCount)},
		},
	})
	md.PlainText("")

	if result.Identical {
		md.PlainText("*Documents are identical.*")
		return md.Build()
	}

	if len(result.AddedSections) > 0 {
		md.H2(fmt.Sprintf("Added Sections (%d)", len(result.AddedSections)))
		md.PlainText("")
		md.BulletList(headingLabels(result.AddedSections)...)
		md.PlainText("")
	}
	if len(result.RemovedSections) > 0 {
		md.H2(fmt.Sprintf("Removed Sections (%d)", len(result.RemovedSections)))
		md.PlainText("")
		md.BulletList(headingLabels(result.RemovedSections)...)
		md.PlainText("")
	}
	if len(result.RenumberedSections) > 0 {
		md.H2(fmt.Sprintf("Renumbered Sections (%d)", len(result.RenumberedSections)))
		md.PlainText("")
		items := make([]string, 0, len(result.RenumberedSections))
		for _, r := range result.RenumberedSections {
			items = append(items, fmt.Sprintf("%s: %d -> %d", r.Name, r.From, r.To))
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	return md.Build()
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(w io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(w, "Outline Comparison: %s\n", result.Procedure)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "\nPrevious: #%d  v%s  %s  %d sections  %s\n",
		result.Previous.ID, result.Previous.Version, result.Previous.Mode,
		result.Previous.SectionCount, result.Previous.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Current:  #%d  v%s  %s  %d sections  %s\n",
		result.Current.ID, result.Current.Version, result.Current.Mode,
		result.Current.SectionCount, result.Current.Timestamp.Format("2006-01-02 15:04:05"))

	if result.Identical {
		fmt.Fprintln(w, "\nDocuments are identical.")
		return nil
	}

	if len(result.AddedSections) > 0 {
		fmt.Fprintf(w, "\nAdded Sections (%d):\n", len(result.AddedSections))
		for _, h := range result.AddedSections {
			fmt.Fprintf(w, "  [+] %s\n", h.Label)
		}
	}

	if len(result.RemovedSections) > 0 {
		fmt.Fprintf(w, "\nRemoved Sections (%d):\n", len(result.RemovedSections))
		for _, h := range result.RemovedSections {
			fmt.Fprintf(w, "  [-] %s\n", h.Label)
		}
	}

	if len(result.RenumberedSections) > 0 {
		fmt.Fprintf(w, "\nRenumbered Sections (%d):\n", len(result.RenumberedSections))
		for _, r := range result.RenumberedSections {
			fmt.Fprintf(w, "  [~] %s: %d -> %d\n", r.Name, r.From, r.To)
		}
	}

	if len(result.AddedSections) == 0 && len(result.RemovedSections) == 0 && len(result.RenumberedSections) == 0 {
		fmt.Fprintln(w, "\nOutline unchanged; section content differs.")
	}

	return nil
}

// headingLabels returns the labels of headings.
func headingLabels(headings []document.Heading) []string {
	labels := make([]string, len(headings))
	for i, h := range headings {
		labels[i] = h.Label
	}
	return labels
}
