package assembler

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/spdoc/internal/document"
	"github.com/nao1215/spdoc/internal/model"
	"github.com/nao1215/spdoc/internal/style"
)

// Fixed wording.
const (
	TitleStandard       = "STORED PROCEDURE"
	TitleQA             = "QA STORED PROCEDURE"
	Subtitle            = "Technical Documentation"
	TypeStandard        = "Production"
	TypeQA              = "QA Procedure"
	QAPurposeIntro      = "This is a QA validation procedure designed to verify data quality and integrity. "
	NoChangesMessage    = "No changes recorded yet."
	NoParametersMessage = "No parameters"
)

// VersionHistoryColumns are the header cells of the version history table.
var VersionHistoryColumns = []string{"Version", "Date", "Changed By", "Changes"}

// Assemble validates rec and returns its instruction sequence.
// A *model.ValidationError is returned, with no instructions, when a
// required field is missing or out of range.
func Assemble(rec *model.DocumentationRecord) (document.Document, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	b := &builder{upper: cases.Upper(language.English)}
	for _, p := range Plan(rec) {
		b.section = p.Number
		sectionByID(p.ID).render(b, rec)
	}
	return b.doc, nil
}

// builder accumulates instructions for a single Assemble call.
// cases.Caser keeps internal state, so each call owns its own.
type builder struct {
	doc     document.Document
	section int
	upper   cases.Caser
}

func (b *builder) emit(kind document.Kind, text string, tag style.Tag) {
	b.doc = append(b.doc, document.Instruction{
		Kind:    kind,
		Text:    text,
		Style:   tag,
		Section: b.section,
	})
}

func (b *builder) heading(title string) {
	label := strconv.Itoa(b.section) + ". " + b.upper.String(title)
	b.emit(document.KindTitle, label, style.TagSectionHeading)
}

func (b *builder) subheading(text string) {
	b.emit(document.KindSubheading, text, style.TagSubheading)
}

func (b *builder) paragraph(text string, tag style.Tag) {
	b.emit(document.KindParagraph, text, tag)
}

func (b *builder) bullet(text string) {
	b.emit(document.KindBullet, text, style.TagBullet)
}

func (b *builder) row(kind document.Kind, cells []string, tag style.Tag) {
	b.doc = append(b.doc, document.Instruction{
		Kind:    kind,
		Cells:   cells,
		Style:   tag,
		Section: b.section,
	})
}

func (b *builder) divider() {
	b.emit(document.KindDivider, "", style.TagDivider)
}

func renderTitleBlock(b *builder, rec *model.DocumentationRecord) {
	title, typeLabel, typeTag := TitleStandard, TypeStandard, style.TagMetadata
	if rec.IsQA() {
		title, typeLabel, typeTag = TitleQA, TypeQA, style.TagMetadataAccent
	}

	b.emit(document.KindTitle, title, style.TagDocumentTitle)
	b.paragraph(Subtitle, style.TagDocumentSubtitle)
	b.paragraph(rec.QualifiedName(), style.TagQualifiedName)

	b.paragraph("Version: v"+rec.Version, style.TagMetadata)
	b.paragraph("Type: "+typeLabel, typeTag)
	b.paragraph("Created: "+rec.CreatedDate, style.TagMetadata)
	b.paragraph("Created By: "+rec.CreatedBy, style.TagMetadata)
	b.paragraph(fmt.Sprintf("Complexity: %d/100", rec.ComplexityScore), style.TagMetadata)
	b.divider()
}

func renderRecentChanges(b *builder, rec *model.DocumentationRecord) {
	b.heading(fmt.Sprintf("%d Most Recent Changes", model.RecentChangesLimit))

	changes := rec.RecentChanges
	if len(changes) == 0 {
		b.paragraph(NoChangesMessage, style.TagPlaceholder)
	}
	if len(changes) > model.RecentChangesLimit {
		changes = changes[:model.RecentChangesLimit]
	}
	for _, c := range changes {
		// An empty reference still renders "()".
		b.bullet(fmt.Sprintf("%s - %s (%s)", c.Date, c.Summary, c.RefDocID))
	}
	b.divider()
}

func renderPurpose(b *builder, rec *model.DocumentationRecord) {
	b.heading("Purpose")
	text := rec.Purpose
	if rec.IsQA() {
		text = QAPurposeIntro + text
	}
	b.paragraph(text, style.TagBody)
	b.divider()
}

func renderWhatsNew(b *builder, rec *model.DocumentationRecord) {
	b.heading("What's New in Version " + rec.Version)
	b.subheading("Changes in This Version:")
	b.paragraph(rec.WhatsNew, style.TagBody)
	b.divider()
}

func renderParameters(b *builder, rec *model.DocumentationRecord) {
	b.heading("Parameters")
	if len(rec.Parameters) == 0 {
		b.paragraph(NoParametersMessage, style.TagPlaceholder)
	}
	for _, p := range rec.Parameters {
		b.subheading(fmt.Sprintf("%s (%s):", p.Name, p.Type))
		b.paragraph(p.Description, style.TagIndentedBody)
		if p.HasDefault() {
			b.paragraph("Default: "+*p.DefaultValue, style.TagNote)
		}
	}
	b.divider()
}

func renderLogicFlow(b *builder, rec *model.DocumentationRecord) {
	b.heading("Logic Flow")
	rec.LogicFlow.Match(
		func(steps []model.Step) {
			for i, step := range steps {
				b.subheading(fmt.Sprintf("Step %d: %s", i+1, step.Title))
				b.paragraph(step.Description, style.TagIndentedBody)
			}
		},
		func(text string) {
			b.paragraph(text, style.TagBody)
		},
	)
	b.divider()
}

func renderDependencies(b *builder, rec *model.DocumentationRecord) {
	b.heading("Dependencies")
	deps := rec.Dependencies
	if len(deps.Tables) > 0 {
		b.subheading("Tables Accessed:")
		for _, t := range deps.Tables {
			b.bullet(t)
		}
	}
	if len(deps.Procedures) > 0 {
		b.subheading("Stored Procedures Called:")
		for _, p := range deps.Procedures {
			b.bullet(p)
		}
	}
	b.divider()
}

func renderUsageExamples(b *builder, rec *model.DocumentationRecord) {
	b.heading("Usage Examples")
	for i, ex := range rec.UsageExamples {
		b.subheading(fmt.Sprintf("Example %d: %s", i+1, ex.Title))
		b.emit(document.KindCodeBlock, ex.Code, style.TagCodeBlock)
		if ex.Explanation != nil {
			b.paragraph(*ex.Explanation, style.TagIndentedBody)
		}
	}
	b.divider()
}

func renderPerformanceNotes(b *builder, rec *model.DocumentationRecord) {
	b.heading("Performance Notes")
	b.paragraph(rec.PerformanceNotes, style.TagBody)
	b.divider()
}

func renderErrorHandling(b *builder, rec *model.DocumentationRecord) {
	b.heading("Error Handling")
	b.paragraph(rec.ErrorHandling, style.TagBody)
	b.divider()
}

func renderVersionHistory(b *builder, rec *model.DocumentationRecord) {
	b.heading("Full Version History")
	b.row(document.KindTableHeader, append([]string(nil), VersionHistoryColumns...), style.TagTableHeader)
	for _, e := range rec.FullVersionHistory {
		changes := e.Changes
		if e.RefDocID != "" {
			changes += " (Ref: " + e.RefDocID + ")"
		}
		b.row(document.KindTableRow, []string{"v" + e.Version, e.Date, e.ChangedBy, changes}, style.TagTableCell)
	}
}
