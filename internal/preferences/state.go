// Package preferences holds the reader's application state: content and
// interface language, reader layout and accessibility settings. State lives
// in a Store; persistence is attached as a change subscriber.
package preferences

import (
	"errors"
	"fmt"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

var ErrInvalid = errors.New("invalid preferences")

type Layout string

const (
	LayoutParagraph  Layout = "paragraph"
	LayoutLineByLine Layout = "line-by-line"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeSepia Theme = "sepia"
)

// Font sizes in points, keyed by the size names the reader offers.
var FontSizes = map[string]int{
	"xs": 12, "sm": 14, "md": 16, "lg": 18, "xl": 20,
	"2xl": 24, "3xl": 28, "4xl": 32, "5xl": 36,
}

var LineHeights = map[string]float64{
	"tight": 1.2, "normal": 1.5, "relaxed": 1.75, "loose": 2.0,
}

var LetterSpacings = map[string]float64{
	"tight": -0.5, "normal": 0, "wide": 0.5, "wider": 1, "widest": 2,
}

type ReaderSettings struct {
	FontSize        string `json:"font_size"`
	LineHeight      string `json:"line_height"`
	LetterSpacing   string `json:"letter_spacing"`
	Layout          Layout `json:"layout"`
	Theme           Theme  `json:"theme"`
	JustifyText     bool   `json:"justify_text"`
	ShowLineNumbers bool   `json:"show_line_numbers"`
}

type AccessibilitySettings struct {
	HighContrast      bool    `json:"high_contrast"`
	LargeText         bool    `json:"large_text"`
	IncreasedPadding  bool    `json:"increased_padding"`
	SystemFontScaling bool    `json:"system_font_scaling"`
	ReduceMotion      bool    `json:"reduce_motion"`
	ScreenReaderHints bool    `json:"screen_reader_hints"`
	FontScale         float64 `json:"font_scale"`
	PaddingScale      float64 `json:"padding_scale"`
}

const (
	MinScale = 0.5
	MaxScale = 3.0
)

type State struct {
	ContentLanguage entities.ContentLanguage `json:"content_language"`
	UILanguage      entities.UILanguage      `json:"ui_language"`
	Reader          ReaderSettings           `json:"reader"`
	Accessibility   AccessibilitySettings    `json:"accessibility"`
}

// Defaults returns the state of a fresh install.
func Defaults() State {
	return State{
		ContentLanguage: entities.LanguageKannada,
		UILanguage:      entities.UILanguageEnglish,
		Reader: ReaderSettings{
			FontSize:      "lg",
			LineHeight:    "relaxed",
			LetterSpacing: "normal",
			Layout:        LayoutParagraph,
			Theme:         ThemeSepia,
			JustifyText:   true,
		},
		Accessibility: AccessibilitySettings{
			SystemFontScaling: true,
			FontScale:         1.0,
			PaddingScale:      1.0,
		},
	}
}

// Validate reports every invalid field, wrapped in ErrInvalid.
func (s State) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !s.ContentLanguage.Valid() {
		add("content_language %q is not supported", s.ContentLanguage)
	}
	if !s.UILanguage.Valid() {
		add("ui_language %q is not supported", s.UILanguage)
	}
	if _, ok := FontSizes[s.Reader.FontSize]; !ok {
		add("reader.font_size %q is not supported", s.Reader.FontSize)
	}
	if _, ok := LineHeights[s.Reader.LineHeight]; !ok {
		add("reader.line_height %q is not supported", s.Reader.LineHeight)
	}
	if _, ok := LetterSpacings[s.Reader.LetterSpacing]; !ok {
		add("reader.letter_spacing %q is not supported", s.Reader.LetterSpacing)
	}
	switch s.Reader.Layout {
	case LayoutParagraph, LayoutLineByLine:
	default:
		add("reader.layout %q is not supported", s.Reader.Layout)
	}
	switch s.Reader.Theme {
	case ThemeLight, ThemeDark, ThemeSepia:
	default:
		add("reader.theme %q is not supported", s.Reader.Theme)
	}
	if s.Accessibility.FontScale < MinScale || s.Accessibility.FontScale > MaxScale {
		add("accessibility.font_scale %.2f out of range [%.1f, %.1f]", s.Accessibility.FontScale, MinScale, MaxScale)
	}
	if s.Accessibility.PaddingScale < MinScale || s.Accessibility.PaddingScale > MaxScale {
		add("accessibility.padding_scale %.2f out of range [%.1f, %.1f]", s.Accessibility.PaddingScale, MinScale, MaxScale)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// ScaledFontSize returns the reader font size in points after accessibility scaling.
func (s State) ScaledFontSize() float64 {
	base := float64(FontSizes[s.Reader.FontSize])
	if s.Accessibility.LargeText {
		base *= 1.25
	}
	return base * s.Accessibility.FontScale
}
