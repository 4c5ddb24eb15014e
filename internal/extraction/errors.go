package extraction

import "errors"

// Fatal pipeline errors. These propagate to the caller as returned errors,
// unlike the non-fatal response-repair conditions which come back inside a
// ParseResult. Match with errors.Is.
var (
	// ErrDocumentRead means the document could not be opened or decoded.
	ErrDocumentRead = errors.New("error reading PDF")

	// ErrMissingCredential means no model service credential was configured.
	// It is raised at construction, before any network attempt.
	ErrMissingCredential = errors.New("model api key not configured")

	// ErrUpstreamService wraps a transport or service failure from the model
	// call, carrying the upstream message.
	ErrUpstreamService = errors.New("model service error")

	// ErrNoJSONObject means the model response contained no brace-delimited
	// JSON object at all.
	ErrNoJSONObject = errors.New("no JSON object found in AI response")
)
