package tools

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/xiaot623/debate/internal/debate"
	"github.com/xiaot623/debate/internal/domain"
)

// DebateToolName is the name the debate tool is registered under.
const DebateToolName = "multiagentdebate"

// DebateToolDescription documents the call sequence for tool-using clients.
const DebateToolDescription = `Structured multi-persona debate tool.

Call sequence (typical):
1. Each persona registers once with action:"register".
2. Personas alternate action:"argue" (fresh point) or "rebut" (counter a targetAgentId).
3. A special persona (or either side) issues action:"judge" with a verdict text
   (first line should be "pro", "con", or "inconclusive").
4. Set needsMoreRounds:false only when the debate is finished and a verdict stands.

Parameters:
- agentId (string)            : "pro", "con", "judge", or any custom ID
- round (int >=1)             : Debate round number
- action (string)             : "register" | "argue" | "rebut" | "judge"
- content (string, optional)  : Argument text or verdict
- targetAgentId (string opt.) : Agent being rebutted (only for action:"rebut")
- needsMoreRounds (boolean)   : True if additional debate rounds desired`

// DebateInputSchema is the declared parameter contract of the debate tool.
var DebateInputSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "agentId": {"type": "string", "minLength": 1},
    "round": {"type": "integer", "minimum": 1},
    "action": {"type": "string", "enum": ["register", "argue", "rebut", "judge"]},
    "content": {"type": ["string", "null"]},
    "targetAgentId": {"type": ["string", "null"]},
    "needsMoreRounds": {"type": "boolean"}
  },
  "required": ["agentId", "round", "action", "needsMoreRounds"]
}`)

// SubmitFunc forwards a decoded debate payload to the engine.
type SubmitFunc func(ctx context.Context, input map[string]any) (*domain.Snapshot, error)

// NewDebateTool builds the debate tool around submit. The result is the
// snapshot rendered as indented JSON.
func NewDebateTool(submit SubmitFunc) Tool {
	return Tool{
		Name:        DebateToolName,
		Description: DebateToolDescription,
		InputSchema: DebateInputSchema,
		Check:       checkDebateArgs,
		Executor: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			input, err := DecodeArgs(args)
			if err != nil {
				return nil, err
			}
			snapshot, err := submit(ctx, input)
			if err != nil {
				return nil, err
			}
			return json.MarshalIndent(snapshot, "", "  ")
		},
	}
}

// checkDebateArgs applies the engine's field rules so tool callers see the
// same messages as direct submitters.
func checkDebateArgs(args json.RawMessage) error {
	input, err := DecodeArgs(args)
	if err != nil {
		return err
	}
	_, err = debate.ParseRequest(input)
	return err
}

// DecodeArgs decodes a JSON object keeping numbers as json.Number.
func DecodeArgs(args json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.UseNumber()
	var input map[string]any
	if err := dec.Decode(&input); err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "arguments must be a JSON object: %v", err)
	}
	return input, nil
}
