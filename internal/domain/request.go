package domain

import "encoding/json"

// SubmissionRequest is a validated debate submission.
// Content and TargetAgentID are nil when the caller omitted them.
type SubmissionRequest struct {
	AgentID         string  `json:"agentId"`
	Round           int     `json:"round"`
	Action          Action  `json:"action"`
	Content         *string `json:"content,omitempty"`
	TargetAgentID   *string `json:"targetAgentId,omitempty"`
	NeedsMoreRounds bool    `json:"needsMoreRounds"`
}

// ErrorResponse is the body returned to callers when a submission fails.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ContentItem is a single piece of a tool result.
type ContentItem struct {
	Type ContentType `json:"type"`
	Text string      `json:"text"`
}

// ToolResult is the outcome of a tool call.
type ToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// TextResult builds a single-item text tool result.
func TextResult(text string, isError bool) *ToolResult {
	return &ToolResult{
		Content: []ContentItem{{Type: ContentTypeText, Text: text}},
		IsError: isError,
	}
}

// ToolDescriptor describes a registered tool to callers.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResponse represents the response for listing tools.
type ListToolsResponse struct {
	Tools []ToolDescriptor `json:"tools"`
}

// ToolInvokeRequest represents the request to invoke a tool over HTTP.
type ToolInvokeRequest struct {
	Args json.RawMessage `json:"args"`
}

// HistoryResponse lists accepted history records.
type HistoryResponse struct {
	Records []HistoryRecord `json:"records"`
	Total   int             `json:"total"`
}

// AgentsResponse lists registered agents.
type AgentsResponse struct {
	Agents []string `json:"agents"`
}
