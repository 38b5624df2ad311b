package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter maps errors to exit codes and user-facing messages.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates an adapter writing to stderr; logger defaults to slog.Default().
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor determines the process exit code for err.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	ce, ok := AsClassified(err)
	if !ok {
		return 1
	}
	switch ce.Category() {
	case CategoryValidation:
		return 2
	case CategoryConfig:
		return 7
	case CategoryContent, CategoryData:
		return 9
	case CategoryRender, CategoryBuild, CategoryFileSystem:
		return 11
	case CategoryPreview, CategoryRuntime:
		return 12
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError renders err for the terminal. Non-verbose mode hides wrapped causes.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	ce, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return "Error: " + err.Error()
	}
	msg := fmt.Sprintf("Error (%s): %s", ce.Category(), ce.Message())
	if ce.RetryStrategy() == RetryUserAction {
		msg += " (check fluxpress.yaml)"
	}
	return msg
}

// HandleError logs err, prints it and exits with the mapped code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.logError(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) logError(err error) {
	ce, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(ce.Category()))}
	for k, v := range ce.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if ce.Cause() != nil {
		attrs = append(attrs, slog.String("cause", ce.Cause().Error()))
	}
	a.logger.LogAttrs(context.Background(), levelFor(ce.Severity()), ce.Message(), attrs...)
}

func levelFor(s ErrorSeverity) slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
