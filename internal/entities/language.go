package entities

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownLanguage = errors.New("unknown language")

// ContentLanguage is the language of stotra bodies. It is distinct from UILanguage.
type ContentLanguage string

const (
	LanguageKannada  ContentLanguage = "kannada"
	LanguageSanskrit ContentLanguage = "sanskrit"
	LanguageTelugu   ContentLanguage = "telugu"
)

// UILanguage is the language of the application interface.
type UILanguage string

const (
	UILanguageEnglish  UILanguage = "english"
	UILanguageKannada  UILanguage = "kannada"
	UILanguageSanskrit UILanguage = "sanskrit"
	UILanguageTelugu   UILanguage = "telugu"
)

type Language struct {
	ID         ContentLanguage `json:"id"`
	Name       string          `json:"name"`
	NativeName string          `json:"native_name"`
	Code       string          `json:"code"` // ISO 639-1
}

type UILanguageInfo struct {
	ID         UILanguage `json:"id"`
	Name       string     `json:"name"`
	NativeName string     `json:"native_name"`
	Code       string     `json:"code"`
}

var ContentLanguages = []Language{
	{ID: LanguageKannada, Name: "Kannada", NativeName: "ಕನ್ನಡ", Code: "kn"},
	{ID: LanguageSanskrit, Name: "Sanskrit", NativeName: "संस्कृतम्", Code: "sa"},
	{ID: LanguageTelugu, Name: "Telugu", NativeName: "తెలుగు", Code: "te"},
}

var UILanguages = []UILanguageInfo{
	{ID: UILanguageEnglish, Name: "English", NativeName: "English", Code: "en"},
	{ID: UILanguageKannada, Name: "Kannada", NativeName: "ಕನ್ನಡ", Code: "kn"},
	{ID: UILanguageSanskrit, Name: "Sanskrit", NativeName: "संस्कृतम्", Code: "sa"},
	{ID: UILanguageTelugu, Name: "Telugu", NativeName: "తెలుగు", Code: "te"},
}

// Valid reports whether l is one of the supported content languages.
func (l ContentLanguage) Valid() bool {
	_, err := LanguageByID(l)
	return err == nil
}

func (l UILanguage) Valid() bool {
	for _, ui := range UILanguages {
		if ui.ID == l {
			return true
		}
	}
	return false
}

func LanguageByID(id ContentLanguage) (Language, error) {
	for _, lang := range ContentLanguages {
		if lang.ID == id {
			return lang, nil
		}
	}
	return Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, id)
}

func LanguageByCode(code string) (Language, error) {
	for _, lang := range ContentLanguages {
		if lang.Code == code {
			return lang, nil
		}
	}
	return Language{}, fmt.Errorf("%w: code %q", ErrUnknownLanguage, code)
}

// ParseContentLanguage accepts either a language id ("telugu") or its ISO code ("te"), case-insensitively.
func ParseContentLanguage(s string) (ContentLanguage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if lang, err := LanguageByID(ContentLanguage(s)); err == nil {
		return lang.ID, nil
	}
	lang, err := LanguageByCode(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
	return lang.ID, nil
}
