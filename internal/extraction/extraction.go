package extraction

import "context"

// NotFound is the sentinel value the model uses for a field it could not locate.
const NotFound = "Not found"

// Fields holds the six extraction targets from a credit card statement.
// Every field is always populated after normalization; a field the model
// could not locate carries the NotFound sentinel.
type Fields struct {
	Issuer         string `json:"issuer"`
	CardLast4      string `json:"card_last4"`
	StatementDate  string `json:"statement_date"`
	DueDate        string `json:"due_date"`
	TotalBalance   string `json:"total_balance"`
	MinimumPayment string `json:"minimum_payment"`
}

// ParseResult is the outcome of a single parse request.
//
// Success=false with a populated Error is a normal return value, not a
// pipeline failure: callers must branch on the flag. RawResponse carries the
// model output when a JSON payload was present but undecodable.
type ParseResult struct {
	Success         bool    `json:"success"`
	Data            *Fields `json:"data,omitempty"`
	ExtractedFields int     `json:"extracted_fields"`
	TotalFields     int     `json:"total_fields"`
	SuccessRate     float64 `json:"success_rate"`
	Method          string  `json:"method,omitempty"`
	Error           string  `json:"error,omitempty"`
	RawResponse     string  `json:"raw_response,omitempty"`
}

// Completer sends a prompt to a generative model service and returns the raw
// completion text. One call is one attempt; there is no retry.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the backing model, e.g. "groq/llama-3.1-8b-instant".
	Name() string
	// Close releases client resources.
	Close() error
}

// Recognizer turns a rendered page image (PNG bytes) into text.
type Recognizer interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}
