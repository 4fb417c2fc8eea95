package export

import (
	"bytes"
	"fmt"
	"io"

	"fwowebserver/internal/models"

	"github.com/go-pdf/fpdf"
)

// FileName is the download name of the weekly plan document
const FileName = "weekly_menu_plan.pdf"

// ChartImages holds the PNG charts embedded on the final page. Nil images
// are skipped.
type ChartImages struct {
	Pieces []byte
	Waste  []byte
	CO2    []byte
}

func (c ChartImages) byName() map[string][]byte {
	out := make(map[string][]byte)
	if len(c.Pieces) > 0 {
		out[ImagePieces] = c.Pieces
	}
	if len(c.Waste) > 0 {
		out[ImageWaste] = c.Waste
	}
	if len(c.CO2) > 0 {
		out[ImageCO2] = c.CO2
	}
	return out
}

// Exporter turns weekly plans into PDF documents
type Exporter struct {
	opts Options
}

// NewExporter creates an exporter with the given geometry
func NewExporter(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// pdfMeasurer measures text with the same core fonts the document uses
type pdfMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFMeasurer() *pdfMeasurer {
	pdf := fpdf.New("P", "mm", "A4", "")
	return &pdfMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *pdfMeasurer) TextWidth(f Font, text string) float64 {
	m.pdf.SetFont(f.Family, f.Style, f.Size)
	return m.pdf.GetStringWidth(m.tr(text))
}

// ExportWeeklyPlanDocument renders plan and images into a PDF and writes it
// to w. Nothing is written unless the whole document rendered.
func (e *Exporter) ExportWeeklyPlanDocument(w io.Writer, plan *models.WeeklyPlan, images ChartImages) error {
	if plan == nil || len(plan.Weeks) == 0 {
		return models.NewValidationError("plan", "plan has no weeks")
	}

	named := images.byName()
	available := make(map[string]bool, len(named))
	for name := range named {
		available[name] = true
	}

	pages := Layout(plan, newPDFMeasurer(), e.opts, available)

	doc, err := e.render(pages, named)
	if err != nil {
		return err
	}
	if _, err := w.Write(doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func (e *Exporter) render(pages []Page, images map[string][]byte) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Weekly Menu Plan", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for name, data := range images {
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to register chart image: %w", err)
	}

	for _, page := range pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			switch op.Kind {
			case OpText:
				pdf.SetFont(op.Font.Family, op.Font.Style, op.Font.Size)
				pdf.Text(op.X, op.Y, tr(op.Text))
			case OpImage:
				pdf.ImageOptions(op.Image, op.X, op.Y, op.Width, op.Height, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}
