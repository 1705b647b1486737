package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-records-api/internal/models"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
)

func statementForExport() *models.TuitionStatement {
	return &models.TuitionStatement{
		StudentMatricula: "20240112345",
		StudentName:      "Ada Lovelace",
		Lines: []models.TuitionLine{
			{DisciplineCode: 101, DisciplineName: "Calculus", CourseCode: 10, BaseAmount: 500},
			{DisciplineCode: 102, DisciplineName: "Algorithms", CourseCode: 20, BaseAmount: 300},
		},
		BaseAmount:     800,
		ScholarshipPct: 20,
		FinalAmount:    640,
	}
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := NewExportService()

	payload, contentType, filename, err := svc.RenderStatement(statementForExport(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, "tuition-20240112345.csv", filename)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "Discipline Code,Discipline,Course Code,Amount"))
	assert.Contains(t, body, "101,Calculus,10,500.00")
	assert.Contains(t, body, "102,Algorithms,20,300.00")
	assert.Contains(t, body, "Total (scholarship 20.0%)")
	assert.Contains(t, body, "640.00")
}

func TestExportServiceRenderCSVDefaultFormat(t *testing.T) {
	svc := NewExportService()

	_, contentType, _, err := svc.RenderStatement(statementForExport(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc := NewExportService()

	payload, contentType, filename, err := svc.RenderStatement(statementForExport(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, "tuition-20240112345.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportServiceRenderUnsupportedFormat(t *testing.T) {
	svc := NewExportService()

	_, _, _, err := svc.RenderStatement(statementForExport(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
