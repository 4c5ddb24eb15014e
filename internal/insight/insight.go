// Package insight derives simple financial guidance from an extracted
// statement's balance and minimum-payment fields.
package insight

import (
	"fmt"
	"strconv"
	"strings"
)

// Insight types.
const (
	TypeWarning  = "warning"
	TypeCritical = "critical"
	TypeInfo     = "info"
)

// Insight priorities.
const (
	PriorityHigh     = "high"
	PriorityCritical = "critical"
	PriorityMedium   = "medium"
)

// Insight is one piece of financial guidance derived from a parsed statement.
type Insight struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

const (
	// annualInterestRate is a fixed 18% nominal rate used for the
	// simple-interest cost approximation. Not compounding.
	annualInterestRate = 0.18

	highBalanceThreshold = 5000
	longPayoffMonths     = 24
)

// Generate evaluates the insight rules in fixed order: high-balance alert,
// payoff-period check, savings tip. The normalized inputs may still carry
// residual symbols, so they are re-parsed defensively; a value that fails to
// parse or is non-positive produces zero insights and never an error.
func Generate(totalBalance, minimumPayment string) []Insight {
	balance, err := parseAmount(totalBalance)
	if err != nil {
		return nil
	}
	minPayment, err := parseAmount(minimumPayment)
	if err != nil {
		return nil
	}
	if balance <= 0 || minPayment <= 0 {
		return nil
	}

	var insights []Insight

	if balance > highBalanceThreshold {
		insights = append(insights, Insight{
			Type:     TypeWarning,
			Title:    "High Balance Alert",
			Message:  fmt.Sprintf("Balance of %.2f is significant. Consider paying more than the minimum.", balance),
			Priority: PriorityHigh,
		})
	}

	monthsToPayoff := balance / minPayment
	estimatedInterest := balance * annualInterestRate * (monthsToPayoff / 12)

	if monthsToPayoff > longPayoffMonths {
		insights = append(insights, Insight{
			Type:     TypeCritical,
			Title:    "Long Payoff Period",
			Message:  fmt.Sprintf("Paying the minimum only will take %d months. Estimated interest: %.2f", int(monthsToPayoff), estimatedInterest),
			Priority: PriorityCritical,
		})
	}

	recommendedPayment := balance / 12
	if recommendedPayment > minPayment {
		// One year of interest is the paid-in-twelve-months baseline.
		savings := estimatedInterest - balance*annualInterestRate
		if savings > 0 {
			insights = append(insights, Insight{
				Type:     TypeInfo,
				Title:    "Smart Payment Tip",
				Message:  fmt.Sprintf("Pay %.2f/month to save ~%.2f in interest", recommendedPayment, savings),
				Priority: PriorityMedium,
			})
		}
	}

	return insights
}

var amountNoise = strings.NewReplacer("$", "", "₹", "", ",", "")

func parseAmount(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(amountNoise.Replace(value)), 64)
}
