package extraction

import "strings"

// issuerRule pairs an issuer name with the keywords that identify it in
// statement text.
type issuerRule struct {
	name     string
	keywords []string
}

// issuerRules is evaluated in order, first match wins. The order is a
// deliberate tie-break when keywords for several issuers co-occur.
var issuerRules = []issuerRule{
	{name: "HSBC", keywords: []string{"hsbc"}},
	{name: "Chase", keywords: []string{"chase"}},
	{name: "American Express", keywords: []string{"amex", "american express"}},
	{name: "Citi", keywords: []string{"citi"}},
	{name: "Discover", keywords: []string{"discover"}},
	{name: "Capital One", keywords: []string{"capital one"}},
}

// SupportedIssuers returns the issuer names the keyword rules can infer, in
// evaluation order.
func SupportedIssuers() []string {
	names := make([]string, 0, len(issuerRules))
	for _, rule := range issuerRules {
		names = append(names, rule.name)
	}
	return names
}

// InferIssuer scans the full statement text for known issuer keywords.
// Returns "Unknown" when nothing matches.
func InferIssuer(statementText string) string {
	text := strings.ToLower(statementText)
	for _, rule := range issuerRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.name
			}
		}
	}
	return "Unknown"
}

// amountNoise strips currency symbols and thousands separators from
// numeric-looking values.
var amountNoise = strings.NewReplacer("$", "", "₹", "", ",", "")

// CleanAmount removes currency and formatting noise from a money field.
// The result is not validated as numeric; consumers must re-validate before
// arithmetic.
func CleanAmount(value string) string {
	return strings.TrimSpace(amountNoise.Replace(value))
}

// Normalize repairs a missing issuer from the statement text and strips
// formatting noise from the money fields. Fields is modified in place.
func Normalize(f *Fields, statementText string) {
	if f.Issuer == "" || f.Issuer == NotFound {
		f.Issuer = InferIssuer(statementText)
	}
	if f.TotalBalance != NotFound {
		f.TotalBalance = CleanAmount(f.TotalBalance)
	}
	if f.MinimumPayment != NotFound {
		f.MinimumPayment = CleanAmount(f.MinimumPayment)
	}
}
