package statement

import (
	"time"

	"github.com/cardsight/cardsight/internal/extraction"
	"github.com/cardsight/cardsight/internal/insight"
)

// Record is one entry in the bounded parse history.
type Record struct {
	ID        string                  `json:"id"`
	Filename  string                  `json:"filename"`
	Timestamp time.Time               `json:"timestamp"`
	Result    *extraction.ParseResult `json:"result"`
	Insights  []insight.Insight       `json:"insights,omitempty"`
}

// ParseResponse is the payload returned for a parse request: the core
// ParseResult with financial insights attached.
type ParseResponse struct {
	*extraction.ParseResult
	Insights []insight.Insight `json:"insights,omitempty"`
}

// Stats aggregates the parse history.
type Stats struct {
	TotalParsed        int            `json:"total_parsed"`
	IssuersBreakdown   map[string]int `json:"issuers_breakdown"`
	TotalBalanceParsed float64        `json:"total_balance_parsed"`
	AverageSuccessRate float64        `json:"average_success_rate"`
}
