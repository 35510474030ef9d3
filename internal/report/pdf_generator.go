package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/user/fourier_plot_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// ReportImage is a rendered PNG placed on its own page of the report.
type ReportImage struct {
	Key     string // unique name used to register the image
	Title   string
	Caption string
	PNG     []byte
}

// ReportInput is everything BuildPDFReport needs.
type ReportInput struct {
	InputPath    string
	NumLines     int
	NumRecords   int
	Summaries    []analysis.Summary
	SkippedLines []string
	Images       []ReportImage
}

// pdfStyler holds reusable styling and the flowing Y position of the document.
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["warning"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(img ReportImage, width, height float64) {
	s.pdf.RegisterImageOptionsReader(img.Key, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img.PNG))

	captionHeight := 0.0
	if img.Caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.ImageOptions(img.Key, x, s.currentY, width, height, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	s.currentY += height

	if img.Caption != "" {
		s.addSpacer(1)
		s.writeParagraph(img.Caption, "normal", "C")
	}
	s.addSpacer(2)
}

func (s *pdfStyler) table(headers []string, widthsRel []float64, rows [][]string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	header := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, h := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	header()
	for _, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			header()
		}
		s.applyStyle("tableCell")
		x := pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}
}

func formatFloat(v float64, format string) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

// BuildPDFReport writes a landscape Letter PDF with the run summary, the
// per-category table and every image in input.Images.
func BuildPDFReport(filepath string, input ReportInput) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	// core fonts are cp1252; the plot labels use × and other symbols
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	styler := newPDFStyler(pdf)
	styler.newPage()

	styler.writeParagraph("Estimator Convergence Report", "h1", "C")
	styler.addSpacer(5)
	styler.writeParagraph(fmt.Sprintf("Input: %s", input.InputPath), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Lines read: %d, records: %d, categories: %d",
		input.NumLines, input.NumRecords, len(input.Summaries)), "normal", "L")
	styler.addSpacer(5)

	styler.writeParagraph("Per-Category Summary", "h2", "L")
	if len(input.Summaries) == 0 {
		styler.writeParagraph("No categories were ingested.", "normal", "L")
	} else {
		headers := []string{"Category", "Records", "Reference Samples", "Reference Value", "Max Error x1e10", "Min Error x1e10", "Order", "R²"}
		widths := []float64{0.14, 0.08, 0.14, 0.16, 0.14, 0.14, 0.1, 0.1}
		rows := make([][]string, 0, len(input.Summaries))
		for _, sum := range input.Summaries {
			rows = append(rows, []string{
				tr(sum.Label),
				strconv.Itoa(sum.NumRecords),
				strconv.Itoa(sum.Reference.SampleCount),
				strconv.FormatFloat(sum.Reference.Value, 'g', 14, 64),
				formatFloat(sum.MaxError, "%.4g"),
				formatFloat(sum.MinError, "%.4g"),
				formatFloat(sum.Order, "%.3f"),
				formatFloat(sum.RSquared, "%.3f"),
			})
		}
		for i := range headers {
			headers[i] = tr(headers[i])
		}
		styler.table(headers, widths, rows)
	}
	styler.addSpacer(5)

	if len(input.SkippedLines) > 0 {
		styler.writeParagraph(fmt.Sprintf("Skipped Lines (%d)", len(input.SkippedLines)), "h2", "L")
		for _, line := range input.SkippedLines {
			styler.writeParagraph(tr(line), "warning", "L")
		}
	}

	imgWidth := pdfContentWidth * 0.8
	imgHeight := imgWidth * 0.75
	if maxHeight := styler.pageHeight - styler.contentTopY - 3*styler.lineHeight; imgHeight > maxHeight {
		imgHeight = maxHeight
		imgWidth = imgHeight / 0.75
	}
	for _, img := range input.Images {
		if len(img.PNG) == 0 {
			continue
		}
		styler.newPage()
		styler.writeParagraph(tr(img.Title), "h2", "L")
		styler.addImage(ReportImage{Key: img.Key, Caption: tr(img.Caption), PNG: img.PNG}, imgWidth, imgHeight)
	}

	if err := pdf.OutputFileAndClose(filepath); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}
