package contract

import "context"

// Assistant answers a single user message, running whatever tools it needs.
type Assistant interface {
	Answer(ctx context.Context, req AssistantRequest) (AssistantResponse, error)
}

// ToolCaller is the blocking call surface over the MCP session. Failures are
// reported inside the returned mapping under an "error" key, never as an
// error value.
type ToolCaller interface {
	Call(ctx context.Context, tool string, args map[string]any) map[string]any
}

type AssistantRequest struct {
	UserMessage string `json:"user_message"`
	History     []Turn `json:"history,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

type AssistantResponse struct {
	Message     string       `json:"message"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
