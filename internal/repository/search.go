package repository

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// Fold normalises text for case-insensitive substring search. Indic scripts
// can encode the same syllable with different code point sequences, so the
// text is brought to NFC before case folding.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// SearchKey is the folded text a stotra is searched by.
func SearchKey(s *entities.Stotra) string {
	return Fold(s.Title) + "\n" + Fold(s.NativeTitle) + "\n" + Fold(s.Description)
}

// Matches reports whether query is a substring of the title, native title or
// description. An empty query matches everything.
func Matches(s *entities.Stotra, query string) bool {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(Fold(s.Title), q) ||
		strings.Contains(Fold(s.NativeTitle), q) ||
		strings.Contains(Fold(s.Description), q)
}

// Filter returns the stotras matching query, keeping order.
func Filter(stotras []entities.Stotra, query string) []entities.Stotra {
	out := make([]entities.Stotra, 0, len(stotras))
	for i := range stotras {
		if Matches(&stotras[i], query) {
			out = append(out, stotras[i])
		}
	}
	return out
}
