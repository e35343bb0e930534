package pdf_test

import (
	"testing"
	"time"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	html := `<h2>Intro</h2><p>First  paragraph.</p><script>alert(1)</script><p>Second <b>bold</b> one.</p>`

	paragraphs, err := pdf.StripHTML(html)

	require.NoError(t, err)
	assert.Equal(t, []string{"Intro", "First paragraph.", "Second bold one."}, paragraphs)
}

func TestStripHTML_PlainText(t *testing.T) {
	paragraphs, err := pdf.StripHTML("just plain   text")

	require.NoError(t, err)
	assert.Equal(t, []string{"just plain text"}, paragraphs)
}

func TestRender_ProducesPDF(t *testing.T) {
	published := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	article := &domain.Article{
		Title:       "Testing in Go",
		Author:      &domain.UserSummary{Name: "Ada Writer"},
		Abstract:    "A short abstract.",
		Content:     "<p>Body text goes here.</p>",
		PublishedAt: &published,
	}
	citations := []domain.Citation{
		{Authors: "Doe, J.", Title: "Prior work", Journal: "Go Journal", Year: 2020, DOI: "10.1/abc"},
	}

	out, err := pdf.NewGenerator("inkpress").Render(article, citations)

	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
