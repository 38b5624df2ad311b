package site

import (
	"context"
	"log/slog"
	"os"

	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/logfields"
)

// stagePrepareOutput creates the output root (emptying it first when
// output.clean is set) and parses every layout so a broken theme fails before
// any page is written.
func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	root := bs.out.root
	if bs.Config.Output.Clean {
		if err := os.RemoveAll(root); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "clean output directory").
				Fatal().WithContext("path", root).Build()
		}
		slog.Info("Cleaned output directory", logfields.BuildID(bs.ID), logfields.Path(root))
	}
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			Fatal().WithContext("path", root).Build()
	}
	return bs.Renderer.Preload(Layouts()...)
}
