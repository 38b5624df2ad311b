package site

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/paths"
)

// Published files are served as a static site and must be world readable.
const (
	dirPerm  = 0o755
	filePerm = 0o644 // #nosec G306
)

// outputWriter writes generated pages under the output root. Every page target
// is claimed before rendering starts so two pages can never race for one file.
type outputWriter struct {
	root string

	mu      sync.Mutex
	claimed map[string]paths.Family
	pages   map[paths.Family]int
	files   map[string]string // file -> fingerprint
}

func newOutputWriter(root string) *outputWriter {
	return &outputWriter{
		root:    root,
		claimed: make(map[string]paths.Family),
		pages:   make(map[paths.Family]int),
		files:   make(map[string]string),
	}
}

// claim reserves target for a page of family. A second claim on the same file
// is an output path collision.
func (w *outputWriter) claim(family paths.Family, entity string, target paths.Target) error {
	if family.PerEntity() && !paths.ValidEntityID(entity) {
		return errors.NewError(errors.CategoryData, "invalid entity id").Fatal().
			WithContext("family", string(family)).
			WithContext("entity", entity).
			Build()
	}
	if !filepath.IsLocal(filepath.FromSlash(target.File)) {
		return errors.NewError(errors.CategoryData, "output path escapes output root").Fatal().
			WithContext("file", target.File).
			WithContext("family", string(family)).
			Build()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if prev, ok := w.claimed[target.File]; ok {
		return errors.NewError(errors.CategoryData, "output path collision").Fatal().
			WithContext("file", target.File).
			WithContext("family", string(family)).
			WithContext("entity", entity).
			WithContext("claimed_by", string(prev)).
			Build()
	}
	w.claimed[target.File] = family
	return nil
}

// write stores a rendered page and records its fingerprint.
func (w *outputWriter) write(family paths.Family, target paths.Target, html string) error {
	full := filepath.Join(w.root, filepath.FromSlash(target.File))
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			Fatal().WithContext("path", filepath.Dir(full)).Build()
	}
	data := []byte(html)
	if err := os.WriteFile(full, data, filePerm); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write page").
			Fatal().WithContext("path", full).Build()
	}
	fp := fileFingerprint(target.File, data)

	w.mu.Lock()
	w.pages[family]++
	w.files[target.File] = fp
	w.mu.Unlock()
	return nil
}

// recordAsset tracks a published asset. Assets replace generated pages of the same path.
func (w *outputWriter) recordAsset(file string, data []byte) {
	fp := fileFingerprint(file, data)
	w.mu.Lock()
	w.files[file] = fp
	w.mu.Unlock()
}

func (w *outputWriter) pageCounts() map[string]int {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]int, len(w.pages))
	for f, n := range w.pages {
		out[string(f)] = n
	}
	return out
}

func (w *outputWriter) fingerprint() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return outputFingerprint(w.files)
}
