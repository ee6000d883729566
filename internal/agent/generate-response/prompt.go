// internal/agent/generate-response/prompt.go
package generateresponse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

const systemPrompt = `You are a personal finance assistant answering questions about a user's own transaction data.

Rules:
- Answer only from the financial data supplied in the prompt. Never invent numbers, accounts, or transactions.
- Cite the concrete figures that support your answer, formatted as dollar amounts like $1,234.56.
- When the data is empty, say so plainly and suggest what the user could do next.
- Close with one practical, actionable suggestion when it fits naturally.
- Write plain conversational prose. Do not use markdown emphasis, headings, or code blocks.`

// buildPrompt embeds the question, the classified intent, and the
// retrieved data so the answer stays grounded in what was actually read.
func buildPrompt(userQuery string, analysis *models.IntentAnalysis, result models.QueryResult, userContext string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "User question: %s\n\n", userQuery)
	fmt.Fprintf(&sb, "Detected intent: %s (confidence %.2f)\n", analysis.Intent, analysis.Confidence)

	if userContext != "" {
		fmt.Fprintf(&sb, "\nAbout this user: %s\n", userContext)
	}

	if result != nil {
		data, err := json.MarshalIndent(result, "", "  ")
		if err == nil {
			fmt.Fprintf(&sb, "\nRetrieved financial data:\n%s\n", data)
		} else {
			sb.WriteString("\nRetrieved financial data could not be serialized; treat this as no data.\n")
		}
	} else {
		sb.WriteString("\nNo financial data was retrieved for this question. Answer conversationally and, if relevant, mention that you can report on income, spending, cashflow, spending trends, and account balances.\n")
	}

	sb.WriteString("\nAnswer the user's question now.")
	return sb.String()
}

// stripMarkdownEmphasis removes emphasis markers the model sometimes
// emits despite the instructions. Word-internal asterisks in real data
// descriptions are rare enough that a global strip is acceptable.
func stripMarkdownEmphasis(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return s
}
