package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/univ-records-api/internal/models"
	appErrors "github.com/noah-isme/univ-records-api/pkg/errors"
	"github.com/noah-isme/univ-records-api/pkg/export"
)

// Supported statement export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportService renders tuition statements into downloadable documents.
type ExportService struct {
	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewExportService constructs ExportService.
func NewExportService() *ExportService {
	return &ExportService{csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

// RenderStatement produces the statement in the requested format and
// returns the bytes, content type and suggested file name.
func (s *ExportService) RenderStatement(statement *models.TuitionStatement, format string) ([]byte, string, string, error) {
	dataset := statementDataset(statement)
	switch strings.ToLower(format) {
	case FormatCSV, "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv statement")
		}
		return payload, "text/csv", fmt.Sprintf("tuition-%s.csv", statement.StudentMatricula), nil
	case FormatPDF:
		title := fmt.Sprintf("Tuition Statement - %s", statement.StudentName)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf statement")
		}
		return payload, "application/pdf", fmt.Sprintf("tuition-%s.pdf", statement.StudentMatricula), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
}

func statementDataset(statement *models.TuitionStatement) export.Dataset {
	headers := []string{"Discipline Code", "Discipline", "Course Code", "Amount"}
	rows := make([]map[string]string, 0, len(statement.Lines))
	for _, line := range statement.Lines {
		rows = append(rows, map[string]string{
			"Discipline Code": fmt.Sprintf("%d", line.DisciplineCode),
			"Discipline":      line.DisciplineName,
			"Course Code":     fmt.Sprintf("%d", line.CourseCode),
			"Amount":          fmt.Sprintf("%.2f", line.BaseAmount),
		})
	}
	footer := map[string]string{
		"Discipline": fmt.Sprintf("Total (scholarship %.1f%%)", statement.ScholarshipPct),
		"Amount":     fmt.Sprintf("%.2f", statement.FinalAmount),
	}
	return export.Dataset{Headers: headers, Rows: rows, Footer: footer}
}
