package markdown

import (
	"bytes"
	"html/template"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

var (
	chromaCSSOnce sync.Once
	chromaCSS     template.CSS
)

// ChromaCSS is the highlight stylesheet matching the classes emitted for
// fenced code blocks, switching palette with the reader's colour scheme.
func ChromaCSS() template.CSS {
	chromaCSSOnce.Do(func() {
		chromaCSS = template.CSS(HighlightCSS("github", "monokai"))
	})

	return chromaCSS
}

func HighlightCSS(lightStyle string, darkStyle string) string {
	var out bytes.Buffer
	for _, scheme := range []struct {
		media string
		style string
	}{
		{media: "light", style: lightStyle},
		{media: "dark", style: darkStyle},
	} {
		css := styleCSS(scheme.style)
		if css == "" {
			continue
		}
		out.WriteString("@media (prefers-color-scheme: " + scheme.media + ") {\n")
		out.WriteString(css)
		out.WriteString("}\n")
	}

	return out.String()
}

func styleCSS(name string) string {
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}

	var buffer bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buffer, style); err != nil {
		return ""
	}

	return buffer.String()
}
