package assembler

import "github.com/nao1215/spdoc/internal/model"

// Complexity thresholds. A gated section is emitted only when the record's
// complexity score is strictly greater than its threshold.
const (
	DependenciesThreshold     = 30
	ErrorHandlingThreshold    = 40
	PerformanceNotesThreshold = 50
)

// SectionID identifies an entry of the canonical section list.
type SectionID int

// Canonical sections, in emission order.
const (
	SectionTitle SectionID = iota
	SectionRecentChanges
	SectionPurpose
	SectionWhatsNew
	SectionParameters
	SectionLogicFlow
	SectionDependencies
	SectionUsageExamples
	SectionPerformanceNotes
	SectionErrorHandling
	SectionVersionHistory
)

// String returns a short name of the section.
func (id SectionID) String() string {
	switch id {
	case SectionTitle:
		return "title"
	case SectionRecentChanges:
		return "recent-changes"
	case SectionPurpose:
		return "purpose"
	case SectionWhatsNew:
		return "whats-new"
	case SectionParameters:
		return "parameters"
	case SectionLogicFlow:
		return "logic-flow"
	case SectionDependencies:
		return "dependencies"
	case SectionUsageExamples:
		return "usage-examples"
	case SectionPerformanceNotes:
		return "performance-notes"
	case SectionErrorHandling:
		return "error-handling"
	case SectionVersionHistory:
		return "version-history"
	default:
		return "unknown"
	}
}

// section is one entry of the canonical list.
// A nil include means the section is always emitted.
type section struct {
	id      SectionID
	include func(rec *model.DocumentationRecord) bool
	render  func(b *builder, rec *model.DocumentationRecord)
}

// canonicalSections is read-only after package initialization.
var canonicalSections = []section{
	{id: SectionTitle, render: renderTitleBlock},
	{id: SectionRecentChanges, render: renderRecentChanges},
	{id: SectionPurpose, render: renderPurpose},
	{id: SectionWhatsNew, include: hasWhatsNew, render: renderWhatsNew},
	{id: SectionParameters, render: renderParameters},
	{id: SectionLogicFlow, render: renderLogicFlow},
	{id: SectionDependencies, include: includeDependencies, render: renderDependencies},
	{id: SectionUsageExamples, render: renderUsageExamples},
	{id: SectionPerformanceNotes, include: includePerformanceNotes, render: renderPerformanceNotes},
	{id: SectionErrorHandling, include: includeErrorHandling, render: renderErrorHandling},
	{id: SectionVersionHistory, render: renderVersionHistory},
}

func hasWhatsNew(rec *model.DocumentationRecord) bool {
	return rec.WhatsNew != ""
}

func includeDependencies(rec *model.DocumentationRecord) bool {
	return rec.ComplexityScore > DependenciesThreshold && !rec.Dependencies.IsEmpty()
}

func includePerformanceNotes(rec *model.DocumentationRecord) bool {
	return rec.ComplexityScore > PerformanceNotesThreshold && rec.PerformanceNotes != ""
}

func includeErrorHandling(rec *model.DocumentationRecord) bool {
	return rec.ComplexityScore > ErrorHandlingThreshold && rec.ErrorHandling != ""
}

// Planned is a section selected for emission together with its number.
type Planned struct {
	Number int
	ID     SectionID
}

// Plan folds the canonical section list into the numbered list of sections
// that will be emitted for rec. Numbers start at 1 and have no gaps.
// Plan does not validate rec.
func Plan(rec *model.DocumentationRecord) []Planned {
	plan := make([]Planned, 0, len(canonicalSections))
	next := 1
	for _, s := range canonicalSections {
		if s.include != nil && !s.include(rec) {
			continue
		}
		plan = append(plan, Planned{Number: next, ID: s.id})
		next++
	}
	return plan
}

// sectionByID returns the canonical entry for id.
func sectionByID(id SectionID) section {
	return canonicalSections[id]
}
