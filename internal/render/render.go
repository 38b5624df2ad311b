// Package render turns theme layouts into HTML. A page is rendered in two
// passes: an inner layout produces a fragment, and the shell layout wraps that
// fragment as trusted markup.
package render

import (
	"bytes"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

// ShellLayout is the outer page layout every page is wrapped in.
const ShellLayout = "html-container.html"

// partialsGlob matches layouts shared by every template.
const partialsGlob = "partials/*.html"

// Shell is the data of the outer page layout.
type Shell struct {
	Title   string
	Content template.HTML
	Site    any
	// URL is the canonical page URL, root relative.
	URL string
}

// Renderer renders layouts from a theme's layout directory. Parsed templates
// are cached; a Renderer is safe for concurrent use.
type Renderer struct {
	layouts fs.FS
	funcs   template.FuncMap

	mu    sync.Mutex
	cache map[string]*template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFuncs adds template functions.
func WithFuncs(funcs template.FuncMap) Option {
	return func(r *Renderer) {
		for k, v := range funcs {
			r.funcs[k] = v
		}
	}
}

// WithLocation sets the zone used by the date helper.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		r.funcs["date"] = dateFunc(loc)
	}
}

// New creates a renderer reading layouts from the given file system.
func New(layouts fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		layouts: layouts,
		funcs:   defaultFuncs(),
		cache:   make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"date": dateFunc(time.Local),
		"add":  func(a, b int) int { return a + b },
		"sub":  func(a, b int) int { return a - b },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"join": strings.Join,
	}
}

func dateFunc(loc *time.Location) func(t time.Time, layout string) string {
	return func(t time.Time, layout string) string {
		if t.IsZero() {
			return ""
		}
		return t.In(loc).Format(layout)
	}
}

// RenderFragment renders an inner layout to an HTML fragment.
func (r *Renderer) RenderFragment(name string, data any) (template.HTML, error) {
	s, err := r.execute(name, data)
	if err != nil {
		return "", err
	}
	// #nosec G203 -- output of a parsed html/template, already escaped.
	return template.HTML(s), nil
}

// RenderShell renders the outer page layout.
func (r *Renderer) RenderShell(shell Shell) (string, error) {
	return r.execute(ShellLayout, shell)
}

// RenderPage renders inner with data and wraps the result in the shell.
func (r *Renderer) RenderPage(inner string, data any, shell Shell) (string, error) {
	frag, err := r.RenderFragment(inner, data)
	if err != nil {
		return "", err
	}
	shell.Content = frag
	return r.RenderShell(shell)
}

// Preload parses the named layouts so missing files fail before any page is written.
func (r *Renderer) Preload(names ...string) error {
	for _, name := range names {
		if _, err := r.lookup(name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) execute(name string, data any) (string, error) {
	tpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "execute layout").
			Fatal().WithContext("layout", name).Build()
	}
	return buf.String(), nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[name]; ok {
		return tpl, nil
	}
	tpl, err := r.parse(name)
	if err != nil {
		return nil, err
	}
	r.cache[name] = tpl
	return tpl, nil
}

func (r *Renderer) parse(name string) (*template.Template, error) {
	name = path.Clean(name)
	src, err := fs.ReadFile(r.layouts, name)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "layout not found").
			Fatal().WithContext("layout", name).Build()
	}
	tpl, err := template.New(name).Funcs(r.funcs).Parse(string(src))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "parse layout").
			Fatal().WithContext("layout", name).Build()
	}

	partials, err := fs.Glob(r.layouts, partialsGlob)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "list partial layouts").Fatal().Build()
	}
	for _, p := range partials {
		if p == name {
			continue
		}
		b, err := fs.ReadFile(r.layouts, p)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryRender, "read partial layout").
				Fatal().WithContext("layout", p).Build()
		}
		if _, err := tpl.New(p).Parse(string(b)); err != nil {
			return nil, errors.WrapError(err, errors.CategoryRender, "parse partial layout").
				Fatal().WithContext("layout", p).Build()
		}
	}
	return tpl, nil
}
