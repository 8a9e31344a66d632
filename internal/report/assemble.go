package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/edusight/reportgen/internal/model"
)

// BlockKind distinguishes report content block types.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockImage
)

// ContentBlock is one atomic unit placed into the report document.
type ContentBlock struct {
	Kind   BlockKind
	Text   string
	Image  []byte
	Width  float64 // display size in points, images only
	Height float64
}

// Chart display size on the page, in points.
const (
	imageWidth  = 400
	imageHeight = 300
)

// Assemble produces the report content in fixed order: a title, the student
// profile, then the three charts. The result is always exactly 5 blocks,
// even for an empty exam history.
func Assemble(profile model.StudentProfile, charts [3][]byte) []ContentBlock {
	blocks := []ContentBlock{
		{Kind: BlockHeading, Text: "Student Report"},
		{Kind: BlockParagraph, Text: profileText(profile)},
	}
	for _, img := range charts {
		blocks = append(blocks, ContentBlock{
			Kind:   BlockImage,
			Image:  img,
			Width:  imageWidth,
			Height: imageHeight,
		})
	}
	return blocks
}

func profileText(p model.StudentProfile) string {
	return fmt.Sprintf("Name: %s\nNumber: %s\nEmail: %s\nSchool: %s",
		p.Name, p.PhoneNumber, p.Email, p.School)
}

// ComposePDF lays the content blocks onto A4 pages in order and returns
// the finished document.
func ComposePDF(blocks []ContentBlock) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(56, 56, 56)
	pdf.SetAutoPageBreak(true, 56)
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()

	for i, b := range blocks {
		switch b.Kind {
		case BlockHeading:
			pdf.SetFont("Helvetica", "B", 18)
			pdf.MultiCell(0, 24, b.Text, "", "L", false)
			pdf.Ln(12)
		case BlockParagraph:
			pdf.SetFont("Helvetica", "", 12)
			pdf.MultiCell(0, 16, b.Text, "", "L", false)
			pdf.Ln(12)
		case BlockImage:
			opts := fpdf.ImageOptions{ImageType: "PNG"}
			name := fmt.Sprintf("chart-%d", i)
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(b.Image))
			if pdf.GetY()+b.Height > pageHeight-56 {
				pdf.AddPage()
			}
			x := (pageWidth - b.Width) / 2
			pdf.ImageOptions(name, x, pdf.GetY(), b.Width, b.Height, true, opts, 0, "")
			pdf.Ln(12)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("compose PDF: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("compose PDF: %w", err)
	}
	return buf.Bytes(), nil
}
