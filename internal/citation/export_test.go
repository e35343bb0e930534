package citation_test

import (
	"testing"

	"github.com/inkpress/inkpress/internal/citation"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []domain.Citation{
	{
		Authors: "Doe, Jane; Smith, John",
		Title:   "Readable Concurrency",
		Journal: "Go Journal",
		Volume:  "12",
		Pages:   "33-41",
		Year:    2021,
		DOI:     "10.1000/xyz",
	},
	{
		Authors: "Lee, Kim",
		Title:   "Paywalls Considered",
		URL:     "https://example.com/paywalls",
	},
}

func TestExportBibTeX(t *testing.T) {
	out := citation.Export(citation.FormatBibTeX, sample)

	assert.Contains(t, out, "@article{ref1,")
	assert.Contains(t, out, "author = {Doe, Jane; Smith, John},")
	assert.Contains(t, out, "title = {Readable Concurrency},")
	assert.Contains(t, out, "year = {2021},")
	assert.Contains(t, out, "@article{ref2,")
	assert.Contains(t, out, "url = {https://example.com/paywalls},")
	assert.NotContains(t, out, "journal = {},")
}

func TestExportRIS_SplitsAuthors(t *testing.T) {
	out := citation.Export(citation.FormatRIS, sample)

	assert.Contains(t, out, "TY  - JOUR\n")
	assert.Contains(t, out, "AU  - Doe, Jane\n")
	assert.Contains(t, out, "AU  - Smith, John\n")
	assert.Contains(t, out, "TI  - Readable Concurrency\n")
	assert.Contains(t, out, "PY  - 2021\n")
	assert.Contains(t, out, "ER  - \n")
}

func TestParseFormat(t *testing.T) {
	f, err := citation.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, citation.FormatBibTeX, f)

	f, err = citation.ParseFormat("RIS")
	require.NoError(t, err)
	assert.Equal(t, citation.FormatRIS, f)

	_, err = citation.ParseFormat("endnote")
	assert.Error(t, err)
}
