package extraction

// promptTextLimit bounds how much of the statement text is sent to the model.
// Content beyond the first 7000 characters is invisible to it.
const promptTextLimit = 7000

const promptHeader = `You are an expert financial document parser.
Extract the following fields from this credit card statement:

1. issuer (bank name)
2. card_last4 (last 4 digits of card number)
3. statement_date (billing cycle or statement period)
4. due_date (payment due date)
5. total_balance (total amount due or outstanding balance)
6. minimum_payment (minimum payment amount)

Return ONLY a valid JSON object with these exact keys. No extra text.
If a field is missing, use "` + NotFound + `" as its value.

Statement text:
`

// BuildPrompt composes the extraction instruction for the given statement
// text, truncated to the first promptTextLimit characters.
func BuildPrompt(statementText string) string {
	if len(statementText) > promptTextLimit {
		statementText = statementText[:promptTextLimit]
	}
	return promptHeader + statementText
}
