// Package report renders the daily news report as a PDF with a category chart.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"news_hub/internal/domain"
)

const coreFont = "Helvetica"

// latinLocales can be typeset with the core PDF fonts.
var latinLocales = map[string]bool{"en": true, "de": true}

type Config struct {
	// FontDir holds <FontFamily>.ttf. Without it the core fonts are used
	// and non-Latin locales fall back to English inside the PDF.
	FontDir    string
	FontFamily string
}

type Renderer struct {
	fontDir    string
	fontFamily string
}

func NewRenderer(cfg Config) *Renderer {
	return &Renderer{
		fontDir:    cfg.FontDir,
		fontFamily: cfg.FontFamily,
	}
}

func (r *Renderer) unicode() bool {
	return r.fontDir != "" && r.fontFamily != ""
}

// Render produces the PDF attachment and the localized email text for rep.
func (r *Renderer) Render(rep *domain.Report) (*domain.ReportDocument, error) {
	date := rep.Date.Format(domain.DateLayout)
	mail := Localize(rep.Locale)

	content, err := r.renderPDF(rep, date)
	if err != nil {
		return nil, err
	}

	return &domain.ReportDocument{
		Subject:  mail.Subject,
		Body:     fmt.Sprintf(mail.Body, date),
		FileName: "report_" + date + ".pdf",
		Content:  content,
	}, nil
}

func (r *Renderer) renderPDF(rep *domain.Report, date string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", r.fontDir)

	family := coreFont
	translate := func(s string) string { return s }
	locale := rep.Locale

	if r.unicode() {
		pdf.AddUTF8Font(r.fontFamily, "", r.fontFamily+".ttf")
		family = r.fontFamily
	} else {
		translate = pdf.UnicodeTranslatorFromDescriptor("")
		if !latinLocales[locale] {
			locale = "en"
		}
	}
	m := Localize(locale)

	png, err := Chart(m.ChartTitle, rep.Counts)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf(m.Title, date)
	pdf.SetTitle(title, true)
	pdf.SetCreator("news_hub", false)
	pdf.AddPage()

	pdf.SetFont(family, "", 20)
	pdf.CellFormat(0, 12, translate(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "", 14)
	pdf.CellFormat(0, 10, translate(m.ChartTitle), "", 1, "L", false, 0, "")

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(png))
	pdf.ImageOptions("chart", pdf.GetX(), pdf.GetY(), 170, 0, true, opts, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 14)
	pdf.CellFormat(0, 10, translate(m.NewsList), "", 1, "L", false, 0, "")

	pdf.SetFont(family, "", 11)
	pdf.SetTextColor(0, 0, 160)
	for _, a := range rep.Articles {
		pdf.WriteLinkString(6, translate("- "+a.Title), a.URL)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
