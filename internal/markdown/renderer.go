package markdown

import (
	"context"
	"fmt"
	"html/template"
	"strings"
)

const (
	EngineGoMarkdown = "gomarkdown"
	EngineGoldmark   = "goldmark"
)

// Renderer turns stored markdown into markup that is safe to embed in a page.
type Renderer interface {
	Render(ctx context.Context, source string) (template.HTML, error)
}

func NewRenderer(engine string, opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineGoMarkdown:
		return NewGoMarkdownRenderer(opts), nil
	case EngineGoldmark:
		return NewGoldmarkRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown markdown engine %q", engine)
	}
}
