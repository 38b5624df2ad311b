package errors

// ErrorBuilder is the fluent constructor for ClassifiedError values.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a builder with error severity and no retry.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		context:  make(ErrorContext),
	}}
}

// WrapError starts a builder around an existing cause.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(cause)
}

func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	b.err.cause = cause
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) WithRetry(strategy RetryStrategy) *ErrorBuilder {
	b.err.retry = strategy
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	return b.WithRetry(RetryUserAction)
}

// Build returns the finished error.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	return &out
}

// ConfigError is fatal and needs the user to fix the theme configuration.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

// ValidationError reports bad CLI input.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal().UserAction()
}

// DataError is a snapshot problem; callers usually degrade and log it.
func DataError(message string) *ErrorBuilder {
	return NewError(CategoryData, message).Warning()
}

// ContentError reports a snapshot that could not be loaded at all.
func ContentError(message string) *ErrorBuilder {
	return NewError(CategoryContent, message).Fatal()
}

// RenderError is fatal for the page and therefore for the build.
func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message).Fatal()
}

// BuildError reports an orchestration failure.
func BuildError(message string) *ErrorBuilder {
	return NewError(CategoryBuild, message).Fatal()
}

// FileSystemError reports an I/O failure; there is no automatic retry.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Fatal()
}

func EventStoreError(message string) *ErrorBuilder {
	return NewError(CategoryEventStore, message).WithRetry(RetryBackoff)
}

func NotifyError(message string) *ErrorBuilder {
	return NewError(CategoryNotify, message).WithRetry(RetryBackoff)
}

func PreviewError(message string) *ErrorBuilder {
	return NewError(CategoryPreview, message)
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
