package paperwork

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Scorer rates the similarity of two strings. Higher is more similar;
// zero means no similarity at all and never produces a match.
type Scorer func(a, b string) int

// DefaultScorer is the Levenshtein-based ratio used when no scorer is
// injected, bounded to 0..100.
var DefaultScorer Scorer = fuzzy.Ratio

// fuzzyFind returns the choice whose title scores highest against the
// query. Choices must arrive in a deterministic order; only a strictly
// higher score displaces the current best, so the first of equally scored
// choices wins. With no choices, or nothing scoring above zero, the zero
// value is returned.
func fuzzyFind[E any](title string, choices []E, titleOf func(E) string, score Scorer) E {
	var best E
	bestScore := 0
	for _, choice := range choices {
		if v := score(titleOf(choice), title); v > bestScore {
			bestScore = v
			best = choice
		}
	}
	return best
}

// FuzzyFindNotebook returns the notebook whose title best matches the
// query, or nil if nothing matches at all.
func (pw *Paperwork) FuzzyFindNotebook(title string) *Notebook {
	return fuzzyFind(title, pw.Notebooks(), func(nb *Notebook) string { return nb.Title }, pw.scorer)
}

// FuzzyFindNote returns the note whose title best matches the query
// across all notebooks, or nil if nothing matches at all.
func (pw *Paperwork) FuzzyFindNote(title string) *Note {
	return fuzzyFind(title, pw.Notes(), func(n *Note) string { return n.Title }, pw.scorer)
}

// FuzzyFindTag returns the tag whose title best matches the query, or nil
// if nothing matches at all.
func (pw *Paperwork) FuzzyFindTag(title string) *Tag {
	return fuzzyFind(title, pw.Tags(), func(t *Tag) string { return t.Title }, pw.scorer)
}
