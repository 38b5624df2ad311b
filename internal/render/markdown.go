package render

import (
	"bytes"
	"html/template"
	"io"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

// Markdown converts post and comment bodies to HTML.
type Markdown struct {
	md    goldmark.Markdown
	style string
}

// MarkdownOption configures the converter.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	style     string
	hardWraps bool
}

// WithHighlightStyle selects the chroma style name used for code blocks.
func WithHighlightStyle(style string) MarkdownOption {
	return func(c *markdownConfig) { c.style = style }
}

// WithHardWraps renders single newlines as <br>.
func WithHardWraps() MarkdownOption {
	return func(c *markdownConfig) { c.hardWraps = true }
}

// NewMarkdown creates a GFM converter with class-based syntax highlighting.
// Issue bodies may carry inline HTML, which is passed through.
func NewMarkdown(opts ...MarkdownOption) *Markdown {
	cfg := markdownConfig{style: "github"}
	for _, opt := range opts {
		opt(&cfg)
	}
	rendererOpts := []renderer.Option{html.WithUnsafe()}
	if cfg.hardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(cfg.style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Markdown{md: md, style: cfg.style}
}

// Render converts a markdown body. An empty body yields an empty fragment.
func (m *Markdown) Render(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "convert markdown").Fatal().Build()
	}
	// #nosec G203 -- goldmark output is the post body as authored.
	return template.HTML(buf.String()), nil
}

// WriteCSS writes the stylesheet matching the highlight classes.
func (m *Markdown) WriteCSS(w io.Writer) error {
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, styles.Get(m.style)); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "write highlight stylesheet").Fatal().Build()
	}
	return nil
}
