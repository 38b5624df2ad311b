// Package theme locates a theme's layout and static asset trees.
package theme

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
)

// Directory names inside a theme root.
const (
	LayoutDir = "layout"
	SourceDir = "source"
)

// DefaultName is the name of the theme built into the binary.
const DefaultName = "classic"

//go:embed all:classic
var embedded embed.FS

// Theme is a resolved theme. Source is nil when the theme ships no static assets.
type Theme struct {
	Name string
	// Dir is the on-disk root, empty for the embedded theme.
	Dir    string
	Layout fs.FS
	Source fs.FS
}

// Embedded reports whether the theme is compiled into the binary.
func (t *Theme) Embedded() bool { return t.Dir == "" }

// WatchPaths lists directories to watch for changes.
func (t *Theme) WatchPaths() []string {
	if t.Embedded() {
		return nil
	}
	out := []string{filepath.Join(t.Dir, LayoutDir)}
	if t.Source != nil {
		out = append(out, filepath.Join(t.Dir, SourceDir))
	}
	return out
}

// Builtin returns the embedded classic theme.
func Builtin() *Theme {
	layout, _ := fs.Sub(embedded, DefaultName+"/"+LayoutDir)
	source, _ := fs.Sub(embedded, DefaultName+"/"+SourceDir)
	return &Theme{Name: DefaultName, Layout: layout, Source: source}
}

// Resolve returns the theme rooted at dir, or the embedded theme when dir is empty.
// The root must contain a layout directory; source is optional.
func Resolve(dir string) (*Theme, error) {
	if dir == "" {
		return Builtin(), nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "resolve theme directory").
			Fatal().WithContext("theme_dir", dir).Build()
	}
	layoutPath := filepath.Join(abs, LayoutDir)
	if !isDir(layoutPath) {
		return nil, errors.ConfigError("theme directory has no layout directory").
			WithContext("theme_dir", dir).WithContext("expected", layoutPath).Build()
	}
	t := &Theme{Name: filepath.Base(abs), Dir: abs, Layout: os.DirFS(layoutPath)}
	if sourcePath := filepath.Join(abs, SourceDir); isDir(sourcePath) {
		t.Source = os.DirFS(sourcePath)
	}
	return t, nil
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
