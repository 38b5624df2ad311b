package logfields

import "log/slog"

// Canonical log field names shared by every package.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyFamily     = "family"
	KeyPath       = "path"
	KeyLayout     = "layout"
	KeyEntity     = "entity"
	KeyPage       = "page"
	KeyPages      = "pages"
	KeyPosts      = "posts"
	KeyDurationMS = "duration_ms"
	KeyTopic      = "topic"
	KeyOutcome    = "outcome"
	KeyURL        = "url"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Family(f string) slog.Attr       { return slog.String(KeyFamily, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Layout(name string) slog.Attr    { return slog.String(KeyLayout, name) }
func Entity(id string) slog.Attr      { return slog.String(KeyEntity, id) }
func Page(n int) slog.Attr            { return slog.Int(KeyPage, n) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Posts(n int) slog.Attr           { return slog.Int(KeyPosts, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Topic(t string) slog.Attr        { return slog.String(KeyTopic, t) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }

// Error renders err as a string attribute; nil yields an empty value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
