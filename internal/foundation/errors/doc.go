// Package errors provides the classified error primitives used across the build pipeline.
//
// Every failure that crosses a package boundary is expected to be a ClassifiedError so that
// the orchestrator can decide whether to abort the build (config, render, filesystem) or
// degrade gracefully (data), and so that the CLI can pick an exit code.
//
// Example usage:
//
//	err := errors.RenderError("layout not found").
//		WithContext("layout", "posts/index.html").
//		WithCause(fsErr).
//		Build()
package errors
