package related

import (
	"sort"
	"strings"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/pkg/stringsutil"
)

// Weights for the relatedness signals. Shared tags dominate, then shared
// keywords, then title-word overlap, then same author.
const (
	tagWeight       = 3.0
	keywordWeight   = 2.0
	titleWordWeight = 1.5
	authorWeight    = 1.0

	// MaxRelated caps how many suggestions are cached per article.
	MaxRelated = 5

	// minTitleWordLen filters stopword-length tokens out of title overlap.
	minTitleWordLen = 3
)

// Score computes the relatedness of candidate to source. Zero means no
// shared signal.
func Score(source, candidate domain.Article) float64 {
	var score float64

	sourceTags := tagSet(source)
	for tag := range tagSet(candidate) {
		if sourceTags[tag] {
			score += tagWeight
		}
	}

	sourceKeywords := keywordSet(source.Keywords)
	for kw := range keywordSet(candidate.Keywords) {
		if sourceKeywords[kw] {
			score += keywordWeight
		}
	}

	if source.AuthorID == candidate.AuthorID {
		score += authorWeight
	}

	sourceWords := titleWordSet(source.Title)
	for w := range titleWordSet(candidate.Title) {
		if sourceWords[w] {
			score += titleWordWeight
		}
	}

	return score
}

// Rank scores every candidate against the source and returns the top
// suggestions, best first. The source itself and zero-score candidates are
// dropped.
func Rank(source domain.Article, candidates []domain.Article) []domain.RelatedArticle {
	var scored []domain.RelatedArticle
	for _, c := range candidates {
		if c.ID == source.ID {
			continue
		}
		s := Score(source, c)
		if s <= 0 {
			continue
		}
		scored = append(scored, domain.RelatedArticle{
			ArticleID:        source.ID,
			RelatedArticleID: c.ID,
			Score:            s,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxRelated {
		scored = scored[:MaxRelated]
	}
	return scored
}

func tagSet(a domain.Article) map[string]bool {
	set := make(map[string]bool, len(a.Tags))
	for _, t := range a.Tags {
		set[strings.ToLower(t.Slug)] = true
	}
	return set
}

func keywordSet(keywords string) map[string]bool {
	set := make(map[string]bool)
	for _, kw := range stringsutil.SplitCSV(keywords) {
		set[strings.ToLower(kw)] = true
	}
	return set
}

func titleWordSet(title string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, ".,:;!?\"'()[]")
		if len(w) > minTitleWordLen {
			set[w] = true
		}
	}
	return set
}
