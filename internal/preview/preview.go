package preview

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns canonical proof Markdown into HTML for display. It holds a
// single immutable goldmark engine and is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a renderer with GFM enabled. Raw HTML in the source is
// escaped unless unsafe is set.
func NewRenderer(unsafe bool) *Renderer {
	rendererOptions := []goldmark.Option{}
	if unsafe {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	options := append([]goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}, rendererOptions...)

	return &Renderer{engine: goldmark.New(options...)}
}

func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown preview: %w", err)
	}
	return buf.String(), nil
}
