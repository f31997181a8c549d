// Package agent provides the conversational layer over the query engine:
// a small rule-routed tool set, per-session conversation memory, and query
// lifecycle events on a typed event bus.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/mkombe/loanlens/core/dataset"
	"github.com/mkombe/loanlens/core/query"
	"go.uber.org/zap"
)

// Response is the envelope returned to the caller, mirroring the API's
// result/explanation shape.
type Response struct {
	Result      any    `json:"result"`
	Explanation string `json:"explanation,omitempty"`
}

// QueryAgent routes natural-language loan questions to the right tool and
// keeps the dialogue history.
type QueryAgent struct {
	engine *query.Engine
	memory *ConversationMemory
	tools  map[string]Tool
	bus    *events.TypedEventBus[QueryEvent]
	logger *zap.Logger
}

// New creates a QueryAgent over the given engine.
func New(engine *query.Engine, logger *zap.Logger) (*QueryAgent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bus, err := events.NewTypedEventBus[QueryEvent](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}

	a := &QueryAgent{
		engine: engine,
		memory: NewConversationMemory(),
		bus:    bus,
		logger: logger,
	}
	a.tools = make(map[string]Tool)
	for _, tool := range a.buildTools() {
		a.tools[tool.Name] = tool
	}
	return a, nil
}

// Subscribe registers a callback for a query event type and returns its
// unsubscribe function.
func (a *QueryAgent) Subscribe(eventType QueryEventType, callback EventCallback) func() {
	return a.bus.Subscribe(string(eventType), callback)
}

// Memory exposes the conversation memory for the API layer.
func (a *QueryAgent) Memory() *ConversationMemory {
	return a.memory
}

// ProcessQuery routes the query to a tool, records the exchange in memory,
// and returns the tool's observation wrapped in a Response. Structural
// pipeline failures propagate to the caller after a failure event.
func (a *QueryAgent) ProcessQuery(ctx context.Context, text string) (*Response, error) {
	a.memory.Add("user", text)

	toolName := routeTool(text)
	tool, ok := a.tools[toolName]
	if !ok {
		return nil, fmt.Errorf("no tool registered for %q", toolName)
	}

	a.logger.Info("routing query",
		zap.String("tool", toolName),
		zap.String("session", a.memory.SessionID()))

	result, err := a.invoke(ctx, tool, text)
	if err != nil {
		a.memory.Add("assistant", err.Error())
		return nil, err
	}

	response := &Response{
		Result:      result,
		Explanation: explanationFor(toolName),
	}
	a.memory.Add("assistant", fmt.Sprintf("%v", result))
	return response, nil
}

// invoke runs a tool wrapped with start, success, and failure events.
func (a *QueryAgent) invoke(ctx context.Context, tool Tool, text string) (any, error) {
	startTime := time.Now()
	a.emit(newQueryEvent(QueryStart, tool.Name, text, 0, nil, startTime))

	result, err := tool.Run(ctx, text)
	if err != nil {
		errStr := err.Error()
		a.emit(newQueryEvent(QueryFailed, tool.Name, text, 0, &errStr, startTime))
		return nil, err
	}

	a.emit(newQueryEvent(QuerySuccess, tool.Name, text, resultCount(result), nil, startTime))
	return result, nil
}

func (a *QueryAgent) emit(event QueryEvent) {
	if a.bus != nil {
		a.bus.Emit(string(event.Type), event)
	}
}

func resultCount(result any) int {
	if records, ok := result.([]dataset.Record); ok {
		return len(records)
	}
	return 0
}

func explanationFor(toolName string) string {
	switch toolName {
	case ToolGreeting:
		return "This is a friendly greeting response."
	case ToolAggregateLoans:
		return "Aggregated loan data matching the query."
	case ToolGetRawData:
		return "The full loan dataset."
	default:
		return "Loans matching the query."
	}
}
