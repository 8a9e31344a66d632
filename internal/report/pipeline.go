package report

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/edusight/reportgen/internal/model"
)

// Result is a finished report artifact plus its identity. Token is a fresh
// generation token, so two concurrent generations for the same student
// never share an artifact key.
type Result struct {
	StudentID string
	Token     string
	Filename  string
	PDF       []byte
}

// Generate runs the full report pipeline: derive metrics, build and render
// the three charts, assemble the content blocks, compose the PDF. It either
// returns a complete artifact or an error, never a partial document.
func Generate(req model.ReportRequest) (*Result, error) {
	metrics := DeriveMetrics(req.Exams)
	specs := BuildChartSpecs(req.Exams, metrics)

	var charts [3][]byte
	for i, spec := range specs {
		img, err := RenderChart(spec)
		if err != nil {
			return nil, err
		}
		charts[i] = img
	}

	blocks := Assemble(req.StudentProfile, charts)
	pdf, err := ComposePDF(blocks)
	if err != nil {
		return nil, err
	}

	return &Result{
		StudentID: req.ID,
		Token:     uuid.NewString(),
		Filename:  fmt.Sprintf("%s-report.pdf", req.ID),
		PDF:       pdf,
	}, nil
}
