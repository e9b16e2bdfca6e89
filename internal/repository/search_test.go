package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("Caf\u00e9"), Fold("CAFE\u0301"))
	assert.True(t, Matches(&entities.Stotra{Title: "Śiva Tāṇḍava"}, "śiva"))
}

func TestMatches_NormalizationForms(t *testing.T) {
	tests := []struct {
		name   string
		stored entities.Stotra
		query  string
	}{
		{
			// ೀ (U+0CC0) stored precomposed, queried as ಿ + ೕ
			name:   "kannada decomposed query",
			stored: entities.Stotra{NativeTitle: norm.NFC.String("ಕೀರ್ತನೆ")},
			query:  norm.NFD.String("ಕೀರ್ತನೆ"),
		},
		{
			name:   "kannada decomposed title",
			stored: entities.Stotra{NativeTitle: norm.NFD.String("ಶ್ರೀ ಗಣೇಶ ಪಂಚರತ್ನಂ")},
			query:  norm.NFC.String("ಶ್ರೀ ಗಣೇಶ"),
		},
		{
			// क़ (U+0958) against क + nukta
			name:   "devanagari nukta",
			stored: entities.Stotra{Description: "\u0958\u0930\u093e\u0930"},
			query:  "\u0915\u093c\u0930\u093e\u0930",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := tt.stored.NativeTitle + tt.stored.Description
			assert.NotContains(t, text, tt.query, "query must differ in encoding from the stored text")
			assert.True(t, Matches(&tt.stored, tt.query))
		})
	}
}
