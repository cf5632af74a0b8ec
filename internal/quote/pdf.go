package quote

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

// Renderer produces the quote PDF handed out on the download endpoint.
type Renderer struct {
	companyName  string
	companyPhone string
	logoPath     string
}

// NewRenderer builds a PDF renderer. logoPath may point at a missing file;
// the header then falls back to the company name.
func NewRenderer(companyName, companyPhone, logoPath string) *Renderer {
	return &Renderer{
		companyName:  companyName,
		companyPhone: companyPhone,
		logoPath:     logoPath,
	}
}

// Render lays out the quote document and returns it as bytes.
func (r *Renderer) Render(lines []LineItem, clientName string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Orçamento"), false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	// Header band with logo or company name.
	pdf.SetFillColor(230, 230, 230)
	pdf.Rect(left, 10, usable, 22, "F")
	if _, err := os.Stat(r.logoPath); err == nil {
		pdf.ImageOptions(r.logoPath, left+2, 12, 0, 18, false, fpdf.ImageOptions{}, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(left+2, 16)
		pdf.CellFormat(usable/2, 10, tr(r.companyName), "", 0, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(left, 16)
	pdf.CellFormat(usable, 10, tr("Orçamento"), "", 0, "C", false, 0, "")

	pdf.SetY(38)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(usable, 6, tr("Cliente: "+clientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(usable, 6, "Data: "+time.Now().Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Item table.
	widths := []float64{15, usable - 15 - 35 - 28 - 28, 35, 28, 28}
	headers := []string{"Qtd", "Produto", "Dimensões", "Vl. Unit.", "Vl. Total"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(210, 210, 210)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range lines {
		dims := "-"
		if line.Dimensions != nil && *line.Dimensions != "" {
			dims = *line.Dimensions
		}
		cells := []struct {
			text  string
			align string
		}{
			{fmt.Sprintf("%d", line.Quantity), "C"},
			{truncate(line.Name, 40), "L"},
			{truncate(dims, 18), "C"},
			{line.FormatUnitPrice(), "R"},
			{FormatMoney(line.Subtotal()), "R"},
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, tr(c.text), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	totalLabelW := widths[0] + widths[1] + widths[2] + widths[3]
	pdf.CellFormat(totalLabelW, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 8, FormatMoney(Total(lines)), "1", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(usable, 5, tr(r.companyName+" - "+r.companyPhone), "", 1, "L", false, 0, "")
	pdf.CellFormat(usable, 5, tr("Orçamento válido por 7 dias."), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}
