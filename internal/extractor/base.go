package extractor

// LanguageExtractor is implemented per source language. Implementations are
// lexical: they read source text and report referenced library names.
type LanguageExtractor interface {
	// Extensions lists the file suffixes the extractor handles, e.g. ".lean".
	Extensions() []string
	// ExtractNames returns the sorted, de-duplicated API names referenced in source.
	ExtractNames(source string) []string
}
