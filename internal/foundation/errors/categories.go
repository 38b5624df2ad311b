package errors

import "maps"

// ErrorCategory is the broad classification used for routing and exit codes.
type ErrorCategory string

const (
	// CategoryConfig covers theme configuration problems detected before generation starts.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryData covers problems in the content snapshot itself.
	CategoryData    ErrorCategory = "data"
	CategoryContent ErrorCategory = "content"

	// CategoryRender covers template lookup, parse and execution failures.
	CategoryRender     ErrorCategory = "render"
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Side channels that never decide a build outcome on their own.
	CategoryEventStore ErrorCategory = "eventstore"
	CategoryNotify     ErrorCategory = "notify"
	CategoryPreview    ErrorCategory = "preview"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the build
	SeverityError   ErrorSeverity = "error"   // fails the current operation
	SeverityWarning ErrorSeverity = "warning" // degraded output, build continues
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy tells callers whether repeating the operation can help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryImmediate  RetryStrategy = "immediate"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// ErrorContext carries structured key/value details attached to an error.
type ErrorContext map[string]any

// Set adds or updates a value, allocating the map if needed.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c[key]
	return v, ok
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// Merge returns a new context holding both maps; other wins on key clashes.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	out := make(ErrorContext, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}
