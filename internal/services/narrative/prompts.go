package narrative

import (
	"fmt"
	"strings"

	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/utils"
)

// Operation names, used for logging, metrics and cache keys.
const (
	OpUnderstanding = "query_understanding"
	OpExplanation   = "personalized_explanation"
	OpComparison    = "comparative_analysis"
	OpConnection    = "connection_test"
)

const understandingSystemPrompt = `You are an expert insurance advisor. Analyze the user's query and extract structured information.

Extract the following information from the user query:
- Age (if mentioned)
- Gender (if mentioned or implied)
- Marital status (if mentioned)
- Specific insurance needs (health, accident, critical illness, maternity)
- Budget preferences (low premium, high coverage)
- Any specific conditions or requirements

Return the analysis in a structured format.`

const explanationSystemPrompt = `You are a friendly and knowledgeable insurance advisor. Based on the user's query and the recommended products,
provide a personalized explanation in a conversational tone.

- Explain why these products were selected
- Highlight key benefits relevant to the user
- Provide practical advice
- Keep it concise but informative
- Use Indian Rupees (₹) for currency`

const comparisonSystemPrompt = `You are an insurance expert. Compare the given insurance products and provide insights on:
- Which product offers best value for money
- Trade-offs between premium and coverage
- Suitable scenarios for each product
Keep it concise and practical.`

func understandingRequest(query string) ChatRequest {
	return ChatRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: understandingSystemPrompt},
			{Role: "user", Content: "Analyze this insurance query: " + query},
		},
		Temperature: 0.3,
		MaxTokens:   200,
	}
}

func explanationRequest(recs []models.Recommendation, query string) ChatRequest {
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, fmt.Sprintf("- %s: ₹%d/month, Coverage: %s, Critical Illness: %s, Maternity: %s, Accident: %s, Co-pay: %d%%",
			r.Name, r.MonthlyPremium, utils.FormatRupees(r.Coverage),
			models.FlagLiteral(r.CriticalIllness), models.FlagLiteral(r.Maternity), models.FlagLiteral(r.Accident),
			r.CoPay))
	}

	user := fmt.Sprintf("User Query: %s\n\nRecommended Products:\n%s\n\nPlease provide a personalized explanation for these recommendations.",
		query, strings.Join(lines, "\n"))

	return ChatRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: explanationSystemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	}
}

func comparisonRequest(recs []models.Recommendation) ChatRequest {
	lines := make([]string, 0, len(recs))
	for i, r := range recs {
		lines = append(lines, fmt.Sprintf("%d. %s: Premium ₹%d, Coverage %s, Co-pay %d%%",
			i+1, r.Name, r.MonthlyPremium, utils.FormatRupees(r.Coverage), r.CoPay))
	}

	return ChatRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: comparisonSystemPrompt},
			{Role: "user", Content: "Compare these insurance products:\n" + strings.Join(lines, "\n")},
		},
		Temperature: 0.5,
		MaxTokens:   300,
	}
}

func connectionRequest() ChatRequest {
	return ChatRequest{
		Messages:    []ChatMessage{{Role: "user", Content: "Test"}},
		Temperature: 0,
		MaxTokens:   1,
	}
}
