package extraction

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RecoverFields locates a JSON object embedded in possibly-noisy model
// output and parses it into Fields.
//
// The object is taken to be the substring from the first opening brace to
// the last closing brace. No brace pair at all yields ErrNoJSONObject; a
// brace-delimited substring that fails to decode yields a decode error.
// Both are non-fatal conditions the caller turns into a failed ParseResult.
func RecoverFields(response string) (*Fields, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSONObject
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(response[start:end+1]), &m); err != nil {
		return nil, fmt.Errorf("AI returned invalid JSON: %w", err)
	}

	return &Fields{
		Issuer:         fieldValue(m, "issuer"),
		CardLast4:      fieldValue(m, "card_last4"),
		StatementDate:  fieldValue(m, "statement_date"),
		DueDate:        fieldValue(m, "due_date"),
		TotalBalance:   fieldValue(m, "total_balance"),
		MinimumPayment: fieldValue(m, "minimum_payment"),
	}, nil
}

// fieldValue coerces one extracted value to a string. Missing or null keys
// resolve to the sentinel so Fields always carries all six keys.
func fieldValue(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return NotFound
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return NotFound
		}
		return string(b)
	}
}
