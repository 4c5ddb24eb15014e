package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Parser runs the full statement extraction pipeline: text acquisition,
// prompt construction, model invocation, response repair, normalization and
// scoring.
//
// Non-fatal conditions (unparseable model output, a statement with no usable
// text) come back as ParseResult{Success: false}. Fatal conditions (document
// read failure, model service failure) come back as errors matching the
// sentinel taxonomy in errors.go.
type Parser struct {
	source    TextSource
	completer Completer
}

// TextSource acquires page-ordered text from a statement document.
type TextSource interface {
	ExtractText(ctx context.Context, pdfData []byte) (string, error)
}

// NewParser wires a Parser from its two collaborators.
func NewParser(source TextSource, completer Completer) *Parser {
	return &Parser{source: source, completer: completer}
}

// Parse extracts structured fields from a PDF credit card statement.
func (p *Parser) Parse(ctx context.Context, pdfData []byte) (*ParseResult, error) {
	text, err := p.source.ExtractText(ctx, pdfData)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return &ParseResult{
			Success: false,
			Error:   "Could not extract text from PDF",
		}, nil
	}

	prompt := BuildPrompt(text)

	slog.Debug("Querying model", "model", p.completer.Name(), "prompt_len", len(prompt))
	response, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("querying model: %w", err)
	}

	fields, err := RecoverFields(response)
	if err != nil {
		result := &ParseResult{
			Success: false,
			Error:   err.Error(),
		}
		// Keep the raw response for diagnostics when a JSON payload was
		// present but undecodable.
		if !errors.Is(err, ErrNoJSONObject) {
			result.RawResponse = response
		}
		return result, nil
	}

	Normalize(fields, text)
	extracted, rate := Score(fields)

	return &ParseResult{
		Success:         true,
		Data:            fields,
		ExtractedFields: extracted,
		TotalFields:     requiredFieldCount,
		SuccessRate:     rate,
		Method:          p.completer.Name(),
	}, nil
}
