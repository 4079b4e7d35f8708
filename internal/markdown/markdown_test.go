package markdown

import (
	"context"
	"strings"
	"testing"
)

func TestToHTML_MarksExternalLinks(t *testing.T) {
	html := string(ToHTML("[docs](https://go.dev/doc)", Options{
		RootURL: "https://learn.example.com",
	}))

	if !strings.Contains(html, `href="https://go.dev/doc"`) {
		t.Fatalf("expected external href untouched, got %s", html)
	}
	if !strings.Contains(html, `target="_blank"`) {
		t.Fatalf("expected target blank, got %s", html)
	}
	if !strings.Contains(html, `rel="noopener noreferrer"`) {
		t.Fatalf("expected external rel attrs, got %s", html)
	}
}

func TestToHTML_NormalizesSameDomainAbsoluteLinks(t *testing.T) {
	html := string(ToHTML("[next](https://learn.example.com/go/s2?x=1#k)", Options{
		RootURL: "https://learn.example.com",
	}))

	if !strings.Contains(html, `href="/go/s2?x=1#k"`) {
		t.Fatalf("expected normalized same-domain href, got %s", html)
	}
	if strings.Contains(html, `rel="noopener noreferrer"`) {
		t.Fatalf("did not expect rel attrs for same-domain absolute links, got %s", html)
	}
}

func TestToHTML_HighlightsCodeBlocks(t *testing.T) {
	source := "```go\nfmt.Println(\"hello\")\n```"
	html := string(ToHTML(source, Options{}))

	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma class for fenced code block, got %s", html)
	}
	if !strings.Contains(html, "Println") {
		t.Fatalf("expected code content in rendered block, got %s", html)
	}
}

func TestToHTML_RendersInlineCodeClass(t *testing.T) {
	html := string(ToHTML("Use `go test ./...` now.", Options{}))

	if !strings.Contains(html, `<code class="inline-code">go test ./...</code>`) {
		t.Fatalf("expected inline code class, got %s", html)
	}
}

func TestToHTML_SkipsRawHTML(t *testing.T) {
	html := string(ToHTML("hello <script>alert(1)</script>", Options{}))

	if strings.Contains(html, "<script>") {
		t.Fatalf("expected raw html to be dropped, got %s", html)
	}
}

func TestRenderers_DropUnsafeDestinations(t *testing.T) {
	source := "[click](javascript:alert(document.cookie)) " +
		"![pic](data:text/html;base64,PHNjcmlwdD4=) [docs](../s2) [mail](mailto:a@example.com)"

	for _, engine := range []string{EngineGoMarkdown, EngineGoldmark} {
		t.Run(engine, func(t *testing.T) {
			renderer, err := NewRenderer(engine, Options{})
			if err != nil {
				t.Fatalf("new renderer: %v", err)
			}

			html, err := renderer.Render(context.Background(), source)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			lower := strings.ToLower(string(html))
			if strings.Contains(lower, "javascript:") || strings.Contains(lower, "data:text/html") {
				t.Fatalf("expected unsafe destinations removed, got %s", html)
			}
			if !strings.Contains(string(html), "click</a>") {
				t.Fatalf("expected link text kept, got %s", html)
			}
			if !strings.Contains(string(html), `href="../s2"`) || !strings.Contains(string(html), `href="mailto:a@example.com"`) {
				t.Fatalf("expected safe destinations kept, got %s", html)
			}
		})
	}
}

func TestToHTML_DropsMixedCaseScriptLinks(t *testing.T) {
	html := string(ToHTML("[up](JavaScript:void(0)) [old](vbscript:msgbox)", Options{}))

	lower := strings.ToLower(html)
	if strings.Contains(lower, "javascript:") || strings.Contains(lower, "vbscript:") {
		t.Fatalf("expected script links dropped, got %s", html)
	}
	if strings.Contains(html, `target="_blank"`) {
		t.Fatalf("did not expect link attributes on dropped links, got %s", html)
	}
}

func TestToHTML_EmptyInput(t *testing.T) {
	if html := ToHTML("  \n", Options{}); html != "" {
		t.Fatalf("expected empty output, got %q", html)
	}
}

func TestRenderers_RenderHeading(t *testing.T) {
	for _, engine := range []string{EngineGoMarkdown, EngineGoldmark} {
		t.Run(engine, func(t *testing.T) {
			renderer, err := NewRenderer(engine, Options{})
			if err != nil {
				t.Fatalf("new renderer: %v", err)
			}

			html, err := renderer.Render(context.Background(), "# Hi")
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(string(html), "<h1") || !strings.Contains(string(html), "Hi</h1>") {
				t.Fatalf("expected h1 heading, got %s", html)
			}
		})
	}
}

func TestRenderers_HonorCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, renderer := range []Renderer{NewGoMarkdownRenderer(Options{}), NewGoldmarkRenderer()} {
		if _, err := renderer.Render(ctx, "# Hi"); err == nil {
			t.Fatalf("expected canceled context error from %T", renderer)
		}
	}
}

func TestNewRenderer_UnknownEngine(t *testing.T) {
	if _, err := NewRenderer("marked", Options{}); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestGoldmarkRenderer_DropsRawHTML(t *testing.T) {
	html, err := NewGoldmarkRenderer().Render(context.Background(), "<div>raw</div>\n\ntext")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(html), "<div>raw</div>") {
		t.Fatalf("expected raw html to be omitted, got %s", html)
	}
}

func TestExcerpt_StripsMarkdownSyntax(t *testing.T) {
	input := "# Setup\n\nInstall **Go** and read [the docs](https://go.dev).\n\n```sh\ngo version\n```\n\n![logo](logo.png)"
	got := Excerpt(input, 300)

	if got != "Setup Install Go and read the docs." {
		t.Fatalf("unexpected excerpt %q", got)
	}
}

func TestExcerpt_TruncatesOnWordBoundary(t *testing.T) {
	got := Excerpt("alpha beta gamma delta", 12)
	if got != "alpha beta..." {
		t.Fatalf("expected graceful word truncation, got %q", got)
	}
}

func TestChromaCSS_CoversBothSchemes(t *testing.T) {
	css := string(ChromaCSS())
	if !strings.Contains(css, "prefers-color-scheme: light") || !strings.Contains(css, "prefers-color-scheme: dark") {
		t.Fatalf("expected light and dark blocks, got %s", css)
	}
}
