package render

import (
	"bytes"
	"html/template"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

func layouts() fstest.MapFS {
	return fstest.MapFS{
		ShellLayout: {Data: []byte(`<html><head><title>{{ .Title }}</title></head><body>{{ .Content }}</body></html>`)},
		"posts/index.html": {Data: []byte(`<h1>{{ .Title }}</h1>{{ .Body }}{{ template "partials/footer.html" . }}`)},
		"partials/footer.html": {Data: []byte(`<footer>{{ .Title }}</footer>`)},
		"broken.html":          {Data: []byte(`{{ if }}`)},
		"exec.html":            {Data: []byte(`{{ .Missing.Field }}`)},
		"dates.html":           {Data: []byte(`{{ date .When "2006-01-02 15:04" }}|{{ range seq 3 }}{{ . }}{{ end }}|{{ add 1 2 }}`)},
	}
}

type postData struct {
	Title string
	Body  template.HTML
}

func TestRenderPageInjectsFragmentOnce(t *testing.T) {
	r := New(layouts())
	out, err := r.RenderPage("posts/index.html", postData{Title: "A & B", Body: "<p>hi</p>"}, Shell{Title: "A & B"})
	require.NoError(t, err)
	assert.Equal(t,
		`<html><head><title>A &amp; B</title></head><body><h1>A &amp; B</h1><p>hi</p><footer>A &amp; B</footer></body></html>`,
		out)
	assert.NotContains(t, out, "&amp;amp;")
	assert.NotContains(t, out, "&lt;p&gt;")
}

func TestRenderFragmentEscapesUntrustedText(t *testing.T) {
	r := New(layouts())
	frag, err := r.RenderFragment("posts/index.html", postData{Title: "<script>x</script>"})
	require.NoError(t, err)
	assert.Contains(t, string(frag), "&lt;script&gt;")
}

func TestRenderErrors(t *testing.T) {
	r := New(layouts())
	tests := []struct {
		name   string
		layout string
	}{
		{"missing", "nope/index.html"},
		{"parse", "broken.html"},
		{"execute", "exec.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.RenderFragment(tt.layout, struct{ Missing *struct{ Field string } }{})
			require.Error(t, err)
			ce, ok := errors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, errors.CategoryRender, ce.Category())
			assert.True(t, ce.IsFatal())
		})
	}
}

func TestPreload(t *testing.T) {
	r := New(layouts())
	require.NoError(t, r.Preload(ShellLayout, "posts/index.html"))
	require.Error(t, r.Preload("about/index.html"))
}

func TestRenderFuncs(t *testing.T) {
	r := New(layouts(), WithLocation(time.FixedZone("CST", 8*3600)))
	frag, err := r.RenderFragment("dates.html", map[string]any{"When": time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01 04:00|123|3", string(frag))
}

func TestRendererConcurrentUse(t *testing.T) {
	r := New(layouts())
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.RenderPage("posts/index.html", postData{Title: strings.Repeat("x", i)}, Shell{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestMarkdown(t *testing.T) {
	md := NewMarkdown()

	out, err := md.Render("# Title\n\nsome *text* and ~~old~~\n\n```go\nfunc main() {}\n```\n")
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `<h1 id="title">Title</h1>`)
	assert.Contains(t, s, "<em>text</em>")
	assert.Contains(t, s, "<del>old</del>")
	assert.Contains(t, s, `class="chroma"`)

	empty, err := md.Render("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	raw, err := md.Render("<details>x</details>")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<details>")
}

func TestMarkdownHardWraps(t *testing.T) {
	out, err := NewMarkdown(WithHardWraps()).Render("a\nb")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<br")
}

func TestMarkdownCSS(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdown(WithHighlightStyle("monokai")).WriteCSS(&buf))
	assert.Contains(t, buf.String(), ".chroma")
}
