package helpers

import (
	"context"
	"testing"

	"github.com/xiaot623/debate/internal/service"
)

// NewTestService builds a service, failing the test on error.
func NewTestService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()

	svc, err := service.New(opts...)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

// Submit sends a debate payload and fails the test if it is rejected.
func Submit(t *testing.T, svc *service.Service, payload map[string]any) {
	t.Helper()

	if _, err := svc.Submit(context.Background(), payload); err != nil {
		t.Fatalf("submit %v failed: %v", payload, err)
	}
}

// Payload builds a debate submission. An empty content is omitted.
func Payload(agentID string, round int, action, content string) map[string]any {
	p := map[string]any{
		"agentId":         agentID,
		"round":           round,
		"action":          action,
		"needsMoreRounds": true,
	}
	if content != "" {
		p["content"] = content
	}
	return p
}
