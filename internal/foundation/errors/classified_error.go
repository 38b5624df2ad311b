package errors

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError is a structured error with category, severity, retry hint and context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory      { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity      { return e.severity }
func (e *ClassifiedError) RetryStrategy() RetryStrategy { return e.retry }
func (e *ClassifiedError) Message() string              { return e.message }
func (e *ClassifiedError) Cause() error                 { return e.cause }
func (e *ClassifiedError) Context() ErrorContext        { return e.context }

// WithContext returns a copy of the error with one more context value.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.context = ErrorContext{}.Merge(e.context).Set(key, value)
	return &cp
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// IsFatal reports whether the error must abort the build.
func (e *ClassifiedError) IsFatal() bool { return e.severity == SeverityFatal }

// CanRetry reports whether repeating the operation may succeed.
func (e *ClassifiedError) CanRetry() bool {
	return e.retry != RetryNever && e.retry != RetryUserAction
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsClassified reports whether err's chain contains a ClassifiedError.
func IsClassified(err error) bool {
	_, ok := AsClassified(err)
	return ok
}

// HasCategory reports whether the first ClassifiedError in the chain has the category.
func HasCategory(err error, category ErrorCategory) bool {
	if ce, ok := AsClassified(err); ok {
		return ce.category == category
	}
	return false
}

// GetCategory extracts the category, defaulting to CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if ce, ok := AsClassified(err); ok {
		return ce.category
	}
	return CategoryInternal
}

// GetSeverity extracts the severity, defaulting to SeverityError.
func GetSeverity(err error) ErrorSeverity {
	if ce, ok := AsClassified(err); ok {
		return ce.severity
	}
	return SeverityError
}
