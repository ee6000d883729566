// internal/agent/parse-intent/schema.go
package parseintent

// intentSchema is the contract the model's JSON reply must satisfy before
// it is decoded. Out-of-range confidence or an unknown intent fails
// validation and is handled as a parse failure.
var intentSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"intent", "confidence", "reasoning"},
	"properties": map[string]interface{}{
		"intent": map[string]interface{}{
			"type": "string",
			"enum": []string{
				"get_income",
				"get_expenses",
				"get_cashflow",
				"get_account_summary",
				"get_spending_trends",
				"general_chat",
			},
		},
		"parameters": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"dateRange": map[string]interface{}{
					"type":     "object",
					"required": []string{"start", "end"},
					"properties": map[string]interface{}{
						"start": map[string]interface{}{
							"type":    "string",
							"pattern": `^\d{4}-\d{2}-\d{2}$`,
						},
						"end": map[string]interface{}{
							"type":    "string",
							"pattern": `^\d{4}-\d{2}-\d{2}$`,
						},
					},
				},
				"accountIds": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
				"categories": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
				"periodType": map[string]interface{}{
					"type": "string",
					"enum": []string{"monthly", "weekly"},
				},
			},
		},
		"confidence": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
			"maximum": 1,
		},
		"reasoning": map[string]interface{}{
			"type": "string",
		},
	},
}
