package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *DocumentationRecord {
	return &DocumentationRecord{
		ProcedureName:   "usp_Customer_Update",
		SchemaName:      "dbo",
		Version:         "1.2",
		ComplexityScore: 45,
		Purpose:         "Updates customer information.",
	}
}

func TestDocumentationRecordValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(r *DocumentationRecord)
		field  string
	}{
		{"valid record", func(*DocumentationRecord) {}, ""},
		{"missing procedure name", func(r *DocumentationRecord) { r.ProcedureName = "" }, "procedureName"},
		{"missing schema", func(r *DocumentationRecord) { r.SchemaName = "  " }, "schemaName"},
		{"missing version", func(r *DocumentationRecord) { r.Version = "" }, "version"},
		{"missing purpose", func(r *DocumentationRecord) { r.Purpose = "\n" }, "purpose"},
		{"negative complexity", func(r *DocumentationRecord) { r.ComplexityScore = -1 }, "complexityScore"},
		{"complexity above 100", func(r *DocumentationRecord) { r.ComplexityScore = 101 }, "complexityScore"},
		{"complexity 0 is allowed", func(r *DocumentationRecord) { r.ComplexityScore = 0 }, ""},
		{"complexity 100 is allowed", func(r *DocumentationRecord) { r.ComplexityScore = 100 }, ""},
		{"unknown mode", func(r *DocumentationRecord) { r.Mode = Mode(7) }, "mode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := validRecord()
			tc.mutate(rec)
			err := rec.Validate()

			if tc.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
			assert.Equal(t, tc.field, verr.Field)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestDocumentationRecordValidateNil(t *testing.T) {
	t.Parallel()

	var rec *DocumentationRecord
	assert.ErrorIs(t, rec.Validate(), ErrInvalidRecord)
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Field: "complexityScore", Reason: "must be between 0 and 100", Value: 150}
	assert.Equal(t,
		"invalid documentation record: complexityScore: must be between 0 and 100 (got 150)",
		err.Error())

	err = &ValidationError{Field: "purpose", Reason: "required field is empty"}
	assert.Equal(t, "invalid documentation record: purpose: required field is empty", err.Error())
}

func TestParameterHasDefault(t *testing.T) {
	t.Parallel()

	empty := ""
	null := "NULL"

	assert.False(t, Parameter{Name: "@A"}.HasDefault())
	assert.False(t, Parameter{Name: "@A", DefaultValue: &empty}.HasDefault())
	assert.True(t, Parameter{Name: "@A", DefaultValue: &null}.HasDefault())
}

func TestDependenciesIsEmpty(t *testing.T) {
	t.Parallel()

	var nilDeps *Dependencies
	assert.True(t, nilDeps.IsEmpty())
	assert.True(t, (&Dependencies{}).IsEmpty())
	assert.True(t, (&Dependencies{Tables: []string{}, Procedures: nil}).IsEmpty())
	assert.False(t, (&Dependencies{Tables: []string{"dbo.Customers"}}).IsEmpty())
	assert.False(t, (&Dependencies{Procedures: []string{"dbo.usp_Log"}}).IsEmpty())
}

func TestQualifiedName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dbo.usp_Customer_Update", validRecord().QualifiedName())
}
