package extractor

import (
	"fmt"
	"os"
	"strings"
)

// Extractor orchestrates extraction using a language-specific extractor.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "lean":
		langExt = NewLeanExtractor()
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Extractor{langExtractor: langExt, langName: lang}, nil
}

func (e *Extractor) Language() string { return e.langName }

// Handles reports whether the file name carries one of the language's suffixes.
func (e *Extractor) Handles(name string) bool {
	for _, ext := range e.langExtractor.Extensions() {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// ExtractFromSource returns the API names referenced in source code.
func (e *Extractor) ExtractFromSource(code string) []string {
	return e.langExtractor.ExtractNames(code)
}

// ExtractFromFile reads a single source file and extracts its API names.
func (e *Extractor) ExtractFromFile(filepath string) ([]string, error) {
	sourceCode, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}
	return e.ExtractFromSource(string(sourceCode)), nil
}
