// Package service binds the debate engine to its tool registry, policy gate
// and record sinks. Every request boundary goes through a Service.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xiaot623/debate/internal/debate"
	"github.com/xiaot623/debate/internal/domain"
	"github.com/xiaot623/debate/internal/tools"
	"github.com/xiaot623/debate/policy"
)

// Archive is a record sink that can also list what it stored.
type Archive interface {
	RecordSink
	ListRecords(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
}

// Service is the single owner of a debate.
type Service struct {
	engine   *debate.Engine
	registry *tools.Registry
	policy   *policy.Engine
	logger   *slog.Logger
	sinks    []namedSink
	archive  Archive
}

// Option configures a Service.
type Option func(*Service)

// WithEngine replaces the default engine.
func WithEngine(e *debate.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithPolicy gates every tool call through p. A nil policy allows everything.
func WithPolicy(p *policy.Engine) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithLogger sets the logger used for sink failures and policy decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSink adds a record sink. Sinks are invoked in the order they were added.
func WithSink(name string, sink RecordSink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sinks = append(s.sinks, namedSink{name: name, sink: sink})
		}
	}
}

// WithArchive mirrors accepted records into a and serves Transcript from it.
func WithArchive(a Archive) Option {
	return func(s *Service) {
		if a == nil {
			return
		}
		s.archive = a
		s.sinks = append(s.sinks, namedSink{name: "archive", sink: a})
	}
}

// New creates a Service with the debate tool registered.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		engine:   debate.NewEngine(),
		registry: tools.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.registry.Register(tools.NewDebateTool(s.submitSnapshot)); err != nil {
		return nil, fmt.Errorf("register debate tool: %w", err)
	}
	return s, nil
}

// Submit runs a raw debate payload through the policy gate and the engine,
// then publishes the accepted record to the sinks.
func (s *Service) Submit(ctx context.Context, raw map[string]any) (*debate.Outcome, error) {
	if err := s.checkPolicy(ctx, tools.DebateToolName, raw); err != nil {
		return nil, err
	}
	return s.submit(ctx, raw)
}

func (s *Service) submit(ctx context.Context, raw map[string]any) (*debate.Outcome, error) {
	outcome, err := s.engine.SubmitRaw(raw)
	if err != nil {
		s.logger.Debug("submission rejected", "error", err)
		return nil, err
	}
	if outcome.Record != nil {
		s.publish(ctx, *outcome.Record)
	}
	return outcome, nil
}

// submitSnapshot is the executor behind the debate tool. The policy gate
// already ran in CallTool.
func (s *Service) submitSnapshot(ctx context.Context, raw map[string]any) (*domain.Snapshot, error) {
	outcome, err := s.submit(ctx, raw)
	if err != nil {
		return nil, err
	}
	return &outcome.Snapshot, nil
}

// CallTool invokes a registered tool and always returns a result; failures
// are reported through IsError with an {"error": ...} body.
func (s *Service) CallTool(ctx context.Context, name string, args json.RawMessage) *domain.ToolResult {
	if !s.registry.Has(name) {
		return domain.TextResult(fmt.Sprintf("Unknown tool: %s", name), true)
	}

	var input map[string]any
	if len(args) > 0 {
		// Undecodable args are left to schema validation.
		_ = json.Unmarshal(args, &input)
	}
	if err := s.checkPolicy(ctx, name, input); err != nil {
		return ErrorResult(err)
	}

	out, err := s.registry.Execute(ctx, name, args)
	if err != nil {
		return ErrorResult(err)
	}
	return domain.TextResult(string(out), false)
}

// ListTools describes the registered tools.
func (s *Service) ListTools() []domain.ToolDescriptor {
	return s.registry.List()
}

// History returns a copy of the accepted records.
func (s *Service) History() []domain.HistoryRecord {
	return s.engine.History()
}

// Agents returns the registered agents in sorted order.
func (s *Service) Agents() []string {
	return s.engine.Agents()
}

// Verdict returns the current verdict, or nil.
func (s *Service) Verdict() *domain.Verdict {
	return s.engine.Verdict()
}

// ErrNoArchive is returned by Transcript when no archive is configured.
var ErrNoArchive = errors.New("transcript archive is disabled")

// Transcript returns up to limit of the most recent archived records.
func (s *Service) Transcript(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return s.archive.ListRecords(ctx, limit)
}

func (s *Service) checkPolicy(ctx context.Context, toolName string, args map[string]any) error {
	if s.policy == nil {
		return nil
	}
	decision, reason, err := s.policy.Evaluate(ctx, policy.Input{ToolName: toolName, Args: args})
	if err != nil {
		return fmt.Errorf("policy evaluation failed: %w", err)
	}
	if decision == policy.DecisionBlock {
		s.logger.Info("tool call blocked", "tool_name", toolName, "reason", reason)
		if reason == "" {
			return domain.Errorf(domain.ErrPolicyBlocked, "%s blocked by policy", toolName)
		}
		return domain.Errorf(domain.ErrPolicyBlocked, "%s blocked by policy: %s", toolName, reason)
	}
	return nil
}

// ErrorResult renders err as an MCP-style failed tool result.
func ErrorResult(err error) *domain.ToolResult {
	body, mErr := json.MarshalIndent(domain.ErrorResponse{Error: err.Error()}, "", "  ")
	if mErr != nil {
		return domain.TextResult(err.Error(), true)
	}
	return domain.TextResult(string(body), true)
}
