// Package citation formats article reference lists for export.
package citation

import (
	"fmt"
	"strings"

	"github.com/inkpress/inkpress/internal/domain"
)

type Format string

const (
	FormatBibTeX Format = "bibtex"
	FormatRIS    Format = "ris"
)

// ContentType returns the response MIME type for an export format.
func (f Format) ContentType() string {
	switch f {
	case FormatRIS:
		return "application/x-research-info-systems"
	default:
		return "application/x-bibtex"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "bibtex":
		return FormatBibTeX, nil
	case "ris":
		return FormatRIS, nil
	}
	return "", fmt.Errorf("unsupported citation format: %s", s)
}

// Export renders the citation list in the requested format.
func Export(format Format, citations []domain.Citation) string {
	if format == FormatRIS {
		return exportRIS(citations)
	}
	return exportBibTeX(citations)
}

func exportBibTeX(citations []domain.Citation) string {
	var b strings.Builder
	for i, c := range citations {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "@article{ref%d,\n", i+1)
		writeBibField(&b, "author", c.Authors)
		writeBibField(&b, "title", c.Title)
		writeBibField(&b, "journal", c.Journal)
		writeBibField(&b, "volume", c.Volume)
		writeBibField(&b, "pages", c.Pages)
		if c.Year > 0 {
			fmt.Fprintf(&b, "  year = {%d},\n", c.Year)
		}
		writeBibField(&b, "doi", c.DOI)
		writeBibField(&b, "url", c.URL)
		b.WriteString("}\n")
	}
	return b.String()
}

func writeBibField(b *strings.Builder, name, value string) {
	if value != "" {
		fmt.Fprintf(b, "  %s = {%s},\n", name, value)
	}
}

func exportRIS(citations []domain.Citation) string {
	var b strings.Builder
	for _, c := range citations {
		b.WriteString("TY  - JOUR\n")
		// RIS wants one AU line per author
		for _, author := range strings.Split(c.Authors, ";") {
			if author = strings.TrimSpace(author); author != "" {
				fmt.Fprintf(&b, "AU  - %s\n", author)
			}
		}
		writeRISField(&b, "TI", c.Title)
		writeRISField(&b, "JO", c.Journal)
		writeRISField(&b, "VL", c.Volume)
		writeRISField(&b, "SP", c.Pages)
		if c.Year > 0 {
			fmt.Fprintf(&b, "PY  - %d\n", c.Year)
		}
		writeRISField(&b, "DO", c.DOI)
		writeRISField(&b, "UR", c.URL)
		b.WriteString("ER  - \n\n")
	}
	return b.String()
}

func writeRISField(b *strings.Builder, tag, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s  - %s\n", tag, value)
	}
}
