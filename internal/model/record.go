package model

import (
	"strings"
)

// MinComplexityScore and MaxComplexityScore bound DocumentationRecord.ComplexityScore.
const (
	MinComplexityScore = 0
	MaxComplexityScore = 100
)

// DocumentationRecord describes one stored procedure.
// A record is built once by the caller and is never mutated by the assembler.
type DocumentationRecord struct {
	// ProcedureName is the bare procedure identifier (e.g. "usp_Customer_Update").
	ProcedureName string `yaml:"procedureName" json:"procedureName"`

	// SchemaName is the owning schema (e.g. "dbo").
	SchemaName string `yaml:"schemaName" json:"schemaName"`

	// Version is a dotted version string such as "1.2".
	Version string `yaml:"version" json:"version"`

	// CreatedDate and CreatedBy are display strings for the metadata panel.
	CreatedDate string `yaml:"createdDate,omitempty" json:"createdDate,omitempty"`
	CreatedBy   string `yaml:"createdBy,omitempty" json:"createdBy,omitempty"`

	// ComplexityScore is in [0,100] and gates the dependencies,
	// performance notes and error handling sections.
	ComplexityScore int `yaml:"complexityScore" json:"complexityScore"`

	// Mode selects standard or QA wording.
	Mode Mode `yaml:"mode,omitempty" json:"mode"`

	// Purpose is required prose describing what the procedure does.
	Purpose string `yaml:"purpose" json:"purpose"`

	// WhatsNew is optional; when empty the "What's New" section is omitted.
	WhatsNew string `yaml:"whatsNew,omitempty" json:"whatsNew,omitempty"`

	// RecentChanges is expected most-recent-first. Only the first
	// RecentChangesLimit entries are ever rendered.
	RecentChanges []Change `yaml:"recentChanges,omitempty" json:"recentChanges,omitempty"`

	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`

	LogicFlow LogicFlow `yaml:"logicFlow,omitempty" json:"logicFlow"`

	// Dependencies is optional as a whole and per key.
	Dependencies *Dependencies `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`

	UsageExamples []UsageExample `yaml:"usageExamples,omitempty" json:"usageExamples,omitempty"`

	PerformanceNotes string `yaml:"performanceNotes,omitempty" json:"performanceNotes,omitempty"`
	ErrorHandling    string `yaml:"errorHandling,omitempty" json:"errorHandling,omitempty"`

	// FullVersionHistory is rendered as a table in the given order.
	FullVersionHistory []VersionEntry `yaml:"fullVersionHistory,omitempty" json:"fullVersionHistory,omitempty"`
}

// RecentChangesLimit is the maximum number of recent changes rendered.
const RecentChangesLimit = 5

// Change is one entry of the recent changes list.
type Change struct {
	Date    string `yaml:"date" json:"date"`
	Summary string `yaml:"summary" json:"summary"`

	// RefDocID may be empty.
	RefDocID string `yaml:"refDoc,omitempty" json:"refDoc"`
}

// Parameter describes one procedure parameter.
type Parameter struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`

	// DefaultValue is nil when the parameter has no default.
	DefaultValue *string `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
}

// HasDefault reports whether a default line should be rendered.
// An explicit empty string is treated the same as an absent default.
func (p Parameter) HasDefault() bool {
	return p.DefaultValue != nil && *p.DefaultValue != ""
}

// Dependencies lists the objects a procedure touches.
type Dependencies struct {
	Tables     []string `yaml:"tables,omitempty" json:"tables,omitempty"`
	Procedures []string `yaml:"procedures,omitempty" json:"procedures,omitempty"`
}

// IsEmpty reports whether neither tables nor procedures are listed.
// A nil receiver is empty.
func (d *Dependencies) IsEmpty() bool {
	return d == nil || (len(d.Tables) == 0 && len(d.Procedures) == 0)
}

// UsageExample is a titled code sample.
type UsageExample struct {
	Title string `yaml:"title" json:"title"`
	Code  string `yaml:"code" json:"code"`

	// Explanation is nil when absent. A present empty explanation
	// still produces a paragraph.
	Explanation *string `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

// VersionEntry is one row of the full version history table.
type VersionEntry struct {
	Version   string `yaml:"version" json:"version"`
	Date      string `yaml:"date" json:"date"`
	ChangedBy string `yaml:"changedBy" json:"changedBy"`
	Changes   string `yaml:"changes" json:"changes"`
	RefDocID  string `yaml:"refDoc,omitempty" json:"refDoc,omitempty"`
}

// QualifiedName returns "schema.procedure".
func (r *DocumentationRecord) QualifiedName() string {
	return r.SchemaName + "." + r.ProcedureName
}

// IsQA reports whether the record is rendered in QA mode.
func (r *DocumentationRecord) IsQA() bool {
	return r.Mode == ModeQA
}

// Validate checks the required fields of the record.
// It returns the first problem found as a *ValidationError.
func (r *DocumentationRecord) Validate() error {
	if r == nil {
		return &ValidationError{Field: "record", Reason: "missing"}
	}

	required := []struct {
		field string
		value string
	}{
		{"procedureName", r.ProcedureName},
		{"schemaName", r.SchemaName},
		{"version", r.Version},
		{"purpose", r.Purpose},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "required field is empty"}
		}
	}

	if r.ComplexityScore < MinComplexityScore || r.ComplexityScore > MaxComplexityScore {
		return &ValidationError{
			Field:  "complexityScore",
			Reason: "must be between 0 and 100",
			Value:  r.ComplexityScore,
		}
	}

	if !r.Mode.IsValid() {
		return &ValidationError{Field: "mode", Reason: "unknown mode", Value: int(r.Mode)}
	}

	return nil
}
