package statement

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/cardsight/cardsight/internal/extraction"
	"github.com/cardsight/cardsight/internal/insight"
)

// Parser is the single operation the core extraction pipeline exposes.
type Parser interface {
	Parse(ctx context.Context, pdfData []byte) (*extraction.ParseResult, error)
}

// IDGenerator generates unique IDs for history records.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamps.
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time.
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles statement parsing requests and the surrounding history
// and stats concerns.
type Service struct {
	db          DB
	parser      Parser
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with default ID generator and time source.
func NewService(db DB, parser Parser) *Service {
	return &Service{
		db:          db,
		parser:      parser,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a Service with custom dependencies for testing.
func NewServiceWithDeps(db DB, parser Parser, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		parser:      parser,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProcessStatement parses an uploaded statement, attaches insights, and
// records successful parses in history. A failed parse (Success=false) is a
// normal response, not an error; fatal pipeline errors propagate.
func (s *Service) ProcessStatement(ctx context.Context, filename string, data []byte) (*ParseResponse, error) {
	result, err := s.parser.Parse(ctx, data)
	if err != nil {
		slog.Error("Failed to parse statement",
			"filename", filename,
			"file_size", len(data),
			"error", err,
		)
		return nil, err
	}

	response := &ParseResponse{ParseResult: result}
	if !result.Success {
		slog.Warn("Statement parse unsuccessful", "filename", filename, "reason", result.Error)
		return response, nil
	}

	response.Insights = insight.Generate(result.Data.TotalBalance, result.Data.MinimumPayment)

	record := &Record{
		ID:        s.idGenerator.Generate(),
		Filename:  filename,
		Timestamp: s.timeSource.Now(),
		Result:    result,
		Insights:  response.Insights,
	}
	if err := s.db.SaveRecord(record); err != nil {
		return nil, fmt.Errorf("saving history record: %w", err)
	}

	return response, nil
}

// History returns retained parse records, newest first.
func (s *Service) History() ([]*Record, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return records, nil
}

// ClearHistory removes all retained parse records.
func (s *Service) ClearHistory() error {
	if err := s.db.ClearRecords(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Stats aggregates the retained history: issuer breakdown, summed balances
// and average success rate over all retained records.
func (s *Service) Stats() (*Stats, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	stats := &Stats{
		TotalParsed:      len(records),
		IssuersBreakdown: make(map[string]int),
	}
	if len(records) == 0 {
		return stats, nil
	}

	var rateSum float64
	for _, record := range records {
		result := record.Result
		if result == nil || !result.Success || result.Data == nil {
			continue
		}
		issuer := result.Data.Issuer
		if issuer == "" {
			issuer = "Unknown"
		}
		stats.IssuersBreakdown[issuer]++

		if balance, err := parseAmount(result.Data.TotalBalance); err == nil {
			stats.TotalBalanceParsed += balance
		}
		rateSum += result.SuccessRate
	}
	stats.TotalBalanceParsed = roundTwoDecimals(stats.TotalBalanceParsed)
	stats.AverageSuccessRate = roundOneDecimal(rateSum / float64(len(records)))

	return stats, nil
}

// SupportedIssuers returns the issuers the keyword heuristics know, plus the
// catch-all entry for model-driven extraction.
func (s *Service) SupportedIssuers() []string {
	return append(extraction.SupportedIssuers(), "Any Bank (AI-Powered)")
}

func parseAmount(value string) (float64, error) {
	return strconv.ParseFloat(extraction.CleanAmount(value), 64)
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundTwoDecimals(v float64) float64 {
	return math.Round(v*100) / 100
}
