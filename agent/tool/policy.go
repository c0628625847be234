package tool

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
)

const defaultPolicyResults = 3

// PolicyOutput carries retrieved policy passages back to the model.
type PolicyOutput struct {
	Query         string   `json:"query"`
	Results       []string `json:"results"`
	Sources       []string `json:"sources"`
	Found         bool     `json:"found"`
	LowConfidence bool     `json:"low_confidence,omitempty"`
}

func executePolicySearch(ctx context.Context, deps Deps, tool string, args map[string]any, docType string) (contractx.ToolResult, error) {
	query, ok := stringArg(args, "query")
	if !ok {
		return contractx.ToolResult{Tool: tool, Error: "query is required"}, nil
	}

	if deps.Policies == nil {
		return contractx.ToolResult{
			Tool:   tool,
			Result: "Sorry, policy information is unavailable right now. " + supportSuggestion,
		}, nil
	}

	k := defaultPolicyResults
	if docType == "" {
		// The general search spans every document type, so allow more hits.
		k = 5
	}

	hits, err := deps.Policies.Search(ctx, query, k, docType)
	if err != nil {
		log.Error().Err(err).Str("tool", tool).Msg("policy search failed")
		return contractx.ToolResult{
			Tool:   tool,
			Result: "Sorry, I couldn't look that up right now. " + supportSuggestion,
		}, nil
	}

	if len(hits) == 0 {
		return contractx.ToolResult{
			Tool: tool,
			Result: PolicyOutput{
				Query:   query,
				Results: []string{"No policy information found for your query. " + supportSuggestion},
			},
		}, nil
	}

	out := PolicyOutput{Query: query, Found: true}
	for _, hit := range hits {
		out.Results = append(out.Results, hit.Text)
		out.Sources = append(out.Sources, hit.Source)
		if hit.Fallback {
			out.LowConfidence = true
		}
	}

	return contractx.ToolResult{Tool: tool, Result: out}, nil
}
