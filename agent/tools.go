package agent

import (
	"context"
	"fmt"
	"strings"
)

// Tool is one capability the agent can invoke for a query. Run receives the
// raw query text and returns the tool's observation.
type Tool struct {
	Name         string
	Description  string
	ReturnDirect bool
	Run          func(ctx context.Context, input string) (any, error)
}

// Tool names.
const (
	ToolFindLoans      = "find_loans"
	ToolAggregateLoans = "aggregate_loans"
	ToolGetRawData     = "get_raw_data"
	ToolGreeting       = "greeting"
)

var greetings = []string{"hi", "hello", "hey", "greetings", "howdy"}

// buildTools wires the agent's tool set to the query engine.
func (a *QueryAgent) buildTools() []Tool {
	return []Tool{
		{
			Name:        ToolFindLoans,
			Description: "Find specific loans or filter loans based on criteria.",
			Run: func(ctx context.Context, input string) (any, error) {
				return a.engine.TranslateAndFind(input), nil
			},
		},
		{
			Name:        ToolAggregateLoans,
			Description: "Group, sum, average or otherwise aggregate loan data.",
			Run: func(ctx context.Context, input string) (any, error) {
				return a.engine.TranslateAndAggregate(input)
			},
		},
		{
			Name:        ToolGetRawData,
			Description: "Return all loan data for direct inspection.",
			Run: func(ctx context.Context, input string) (any, error) {
				return a.engine.TranslateAndFind(""), nil
			},
		},
		{
			Name:         ToolGreeting,
			Description:  "Respond to greetings like hello/hi. Stops further processing.",
			ReturnDirect: true,
			Run: func(ctx context.Context, input string) (any, error) {
				return greetingReply(input), nil
			},
		},
	}
}

// isGreeting reports whether the whole query is a known greeting.
func isGreeting(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), "!.?")))
	for _, g := range greetings {
		if normalized == g {
			return true
		}
	}
	return false
}

func greetingReply(text string) string {
	if isGreeting(text) {
		return "Hello! How can I help you with loan data today?"
	}
	return fmt.Sprintf("I didn't recognize %q as a greeting.", strings.TrimSpace(text))
}

// aggregationKeywords route a query to the aggregate tool when present.
var aggregationKeywords = []string{
	"average", "avg", "total", "sum", "group", "count", "how many",
}

// routeTool picks the tool for a query: greetings return directly,
// aggregation vocabulary goes to the aggregate tool, raw-data requests to
// the raw tool, everything else to find.
func routeTool(text string) string {
	if isGreeting(text) {
		return ToolGreeting
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "raw data") || strings.Contains(lower, "all data") {
		return ToolGetRawData
	}
	for _, kw := range aggregationKeywords {
		if strings.Contains(lower, kw) {
			return ToolAggregateLoans
		}
	}
	return ToolFindLoans
}
