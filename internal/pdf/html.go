package pdf

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML flattens article HTML into plain paragraphs for PDF layout.
// Block elements become separate paragraphs; script and style bodies are
// dropped.
func StripHTML(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse article html: %w", err)
	}
	doc.Find("script, style").Remove()

	var paragraphs []string
	blocks := doc.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, pre")
	if blocks.Length() == 0 {
		if text := collapse(doc.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		return paragraphs, nil
	}

	blocks.Each(func(_ int, sel *goquery.Selection) {
		if text := collapse(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
