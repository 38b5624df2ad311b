package site

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/logfields"
)

// HighlightStylesheet is the generated code highlighting stylesheet, relative
// to the output root. A theme asset of the same name replaces it.
const HighlightStylesheet = "css/highlight.css"

// stagePublishAssets copies the theme's source tree verbatim onto the output
// root. Assets overwrite generated files of the same path.
func stagePublishAssets(ctx context.Context, bs *BuildState) error {
	var css bytes.Buffer
	if err := bs.Markdown.WriteCSS(&css); err != nil {
		return err
	}
	if err := bs.writeAsset(HighlightStylesheet, css.Bytes()); err != nil {
		return err
	}

	src := bs.Theme.Source
	if src == nil {
		slog.Debug("Theme has no static assets", logfields.BuildID(bs.ID))
		return nil
	}
	return fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "walk theme assets").
				Fatal().WithContext("path", p).Build()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "read theme asset").
				Fatal().WithContext("path", p).Build()
		}
		if err := bs.writeAsset(p, data); err != nil {
			return err
		}
		bs.Report.AssetsCopied++
		return nil
	})
}

func (bs *BuildState) writeAsset(rel string, data []byte) error {
	rel = path.Clean(rel)
	full := filepath.Join(bs.out.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create asset directory").
			Fatal().WithContext("path", filepath.Dir(full)).Build()
	}
	if err := os.WriteFile(full, data, filePerm); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "copy asset").
			Fatal().WithContext("path", full).Build()
	}
	bs.out.recordAsset(rel, data)
	return nil
}
