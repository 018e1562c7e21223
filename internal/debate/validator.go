package debate

import (
	"encoding/json"
	"math"

	"github.com/xiaot623/debate/internal/domain"
)

// ParseRequest converts an untyped payload into a SubmissionRequest.
// It fails with domain.ErrInvalidInput when a required field is absent or has
// the wrong shape. Content and targetAgentId are optional and not shape
// checked: a value that is not a string is treated as absent, leaving the
// engine to decide whether the action needs it.
func ParseRequest(input map[string]any) (domain.SubmissionRequest, error) {
	var req domain.SubmissionRequest

	agentID, ok := input["agentId"].(string)
	if !ok || agentID == "" {
		return req, domain.Errorf(domain.ErrInvalidInput, "agentId must be a string")
	}

	round, ok := parseRound(input["round"])
	if !ok {
		return req, domain.Errorf(domain.ErrInvalidInput, "round must be a positive integer")
	}

	rawAction, ok := input["action"].(string)
	if !ok || rawAction == "" {
		return req, domain.Errorf(domain.ErrInvalidInput, "action missing")
	}
	action := domain.Action(rawAction)
	if !action.Valid() {
		return req, domain.Errorf(domain.ErrInvalidInput, "unknown action: %s", rawAction)
	}

	needsMoreRounds, ok := input["needsMoreRounds"].(bool)
	if !ok {
		return req, domain.Errorf(domain.ErrInvalidInput, "needsMoreRounds must be boolean")
	}

	return domain.SubmissionRequest{
		AgentID:         agentID,
		Round:           round,
		Action:          action,
		Content:         optionalString(input, "content"),
		TargetAgentID:   optionalString(input, "targetAgentId"),
		NeedsMoreRounds: needsMoreRounds,
	}, nil
}

// parseRound accepts any integral number >= 1. JSON decoders hand us
// float64 or json.Number depending on configuration.
func parseRound(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func optionalString(input map[string]any, key string) *string {
	s, ok := input[key].(string)
	if !ok {
		return nil
	}
	return &s
}
