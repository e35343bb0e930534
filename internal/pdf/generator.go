// Package pdf renders articles into downloadable PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/inkpress/inkpress/internal/domain"
)

type Generator struct {
	siteName string
}

func NewGenerator(siteName string) *Generator {
	return &Generator{siteName: siteName}
}

// Render lays out the article with its citation list and returns the PDF
// bytes.
func (g *Generator) Render(article *domain.Article, citations []domain.Citation) ([]byte, error) {
	author := ""
	if article.Author != nil {
		author = article.Author.Name
	}

	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(article.Title, true)
	doc.SetAuthor(author, true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.MultiCell(0, 9, tr(article.Title), "", "L", false)
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(110, 110, 110)
	byline := author
	if article.PublishedAt != nil {
		if byline != "" {
			byline += " · "
		}
		byline += article.PublishedAt.Format("January 2, 2006")
	}
	doc.MultiCell(0, 5, tr(byline), "", "L", false)
	doc.Ln(4)
	doc.SetTextColor(0, 0, 0)

	if article.Abstract != "" {
		doc.SetFont("Helvetica", "I", 11)
		doc.MultiCell(0, 6, tr(article.Abstract), "", "L", false)
		doc.Ln(4)
	}

	paragraphs, err := StripHTML(article.Content)
	if err != nil {
		return nil, err
	}
	doc.SetFont("Helvetica", "", 11)
	for _, p := range paragraphs {
		doc.MultiCell(0, 6, tr(p), "", "L", false)
		doc.Ln(2)
	}

	if len(citations) > 0 {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 13)
		doc.MultiCell(0, 7, "References", "", "L", false)
		doc.Ln(1)
		doc.SetFont("Helvetica", "", 10)
		for i, c := range citations {
			line := fmt.Sprintf("[%d] %s. %s.", i+1, c.Authors, c.Title)
			if c.Journal != "" {
				line += " " + c.Journal + "."
			}
			if c.Year > 0 {
				line += fmt.Sprintf(" %d.", c.Year)
			}
			if c.DOI != "" {
				line += " doi:" + c.DOI
			}
			doc.MultiCell(0, 5, tr(line), "", "L", false)
			doc.Ln(1)
		}
	}

	doc.SetY(-20)
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(150, 150, 150)
	footer := fmt.Sprintf("%s · generated %s", g.siteName, time.Now().UTC().Format("2006-01-02"))
	doc.CellFormat(0, 5, tr(footer), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
