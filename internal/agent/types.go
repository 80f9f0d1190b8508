// Package agent contains the tool-calling orchestration loop: it sends a
// user's question to the model, executes whichever analysis tools the model
// requests, feeds the results back, and bounds the exchange to a terminating
// conversation with full tool provenance.
package agent

import "context"

// Turn is one prior conversation turn supplied by the caller. History is
// session-scoped; the agent never persists it.
type Turn struct {
	Role    string `json:"role"` // "user" or "model"
	Content string `json:"content"`
}

// ToolCall is one function invocation requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResponse carries one tool's result back to the model.
type ToolResponse struct {
	Name   string
	Result map[string]any
}

// ModelTurn is what the model produced in one round: free text, tool-call
// requests, or both.
type ModelTurn struct {
	Text      string
	ToolCalls []ToolCall
}

// ChatSession is one in-flight conversation with the model.
type ChatSession interface {
	Send(ctx context.Context, text string) (*ModelTurn, error)
	// SendToolResults returns the whole batch of tool results in a single
	// message, one round-trip per model decision point.
	SendToolResults(ctx context.Context, responses []ToolResponse) (*ModelTurn, error)
}

// LLM opens tool-equipped chat sessions. Constructed once per process and
// injected, so tests can script the model.
type LLM interface {
	StartChat(systemInstruction string, history []Turn) ChatSession
}

// Source is one cited research reference.
type Source struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Response is the caller-facing result of a query. It is well-formed under
// all circumstances; failures surface in Answer and Error, never as a fault.
type Response struct {
	Answer      string                    `json:"answer"`
	ToolsUsed   []string                  `json:"tools_used"`
	ToolResults map[string]map[string]any `json:"tool_results"`
	Sources     []Source                  `json:"sources"`
	Error       string                    `json:"error,omitempty"`
}

// Insight is one entry of the proactive insight feed.
type Insight struct {
	Type        string   `json:"type"` // "summary" or "error"
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Timestamp   string   `json:"timestamp"`
	ToolsUsed   []string `json:"tools_used,omitempty"`
}
