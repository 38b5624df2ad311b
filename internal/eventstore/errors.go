package eventstore

import "github.com/fluxpress/theme-classic/internal/foundation/errors"

// Sentinel errors of the history store. Wrapped errors match them with errors.Is.
var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.EventStoreError("could not open build history database").Build()

	// ErrInitializeSchemaFailed indicates the schema could not be created.
	ErrInitializeSchemaFailed = errors.EventStoreError("failed to initialize build history schema").Build()

	// ErrEventAppendFailed indicates appending an event failed.
	ErrEventAppendFailed = errors.EventStoreError("failed to append build event").Build()

	// ErrEventQueryFailed indicates querying or scanning events failed.
	ErrEventQueryFailed = errors.EventStoreError("failed to query build events").Build()
)

func wrapStoreError(sentinel *errors.ClassifiedError, cause error) error {
	return errors.WrapError(cause, errors.CategoryEventStore, sentinel.Message()).Build()
}
