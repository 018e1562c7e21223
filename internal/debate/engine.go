package debate

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xiaot623/debate/internal/domain"
)

// Engine owns the debate state: registered agents, history and verdict.
type Engine struct {
	mu      sync.Mutex
	agents  map[string]struct{}
	history []domain.HistoryRecord
	verdict *domain.Verdict

	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to timestamp history records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides how history record IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// NewEngine creates an engine with no agents, no history and no verdict.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		agents: make(map[string]struct{}),
		now:    time.Now,
		newID: func() string {
			return "rec_" + uuid.New().String()
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Outcome is the result of an accepted submission. Record is nil for register.
type Outcome struct {
	Snapshot domain.Snapshot
	Record   *domain.HistoryRecord
}

// SubmitRaw validates an untyped payload and submits it.
func (e *Engine) SubmitRaw(input map[string]any) (*Outcome, error) {
	req, err := ParseRequest(input)
	if err != nil {
		return nil, err
	}
	return e.Submit(req)
}

// Submit applies a validated request. On error no state has changed.
func (e *Engine) Submit(req domain.SubmissionRequest) (*Outcome, error) {
	if !req.Action.Valid() {
		return nil, domain.Errorf(domain.ErrInvalidInput, "unknown action: %s", req.Action)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var accepted *domain.HistoryRecord
	if !req.Action.BearsContent() {
		e.agents[req.AgentID] = struct{}{}
	} else {
		if _, ok := e.agents[req.AgentID]; !ok {
			return nil, domain.Errorf(domain.ErrUnregisteredAgent,
				"agent %s is not registered - call action:\"register\" first", req.AgentID)
		}
		if req.Content == nil || strings.TrimSpace(*req.Content) == "" {
			return nil, domain.Errorf(domain.ErrMissingContent, "content required for this action")
		}

		rec := domain.HistoryRecord{
			RecordID: e.newID(),
			Seq:      len(e.history) + 1,
			AgentID:  req.AgentID,
			Round:    req.Round,
			Action:   req.Action,
			Content:  *req.Content,
			Ts:       e.now().UnixMilli(),
		}
		if req.TargetAgentID != nil {
			rec.TargetAgentID = *req.TargetAgentID
		}
		e.history = append(e.history, rec)

		if req.Action == domain.ActionJudge {
			v := ExtractVerdict(rec.Content, req.Round)
			e.verdict = &v
		}
		accepted = &rec
	}

	return &Outcome{
		Snapshot: domain.Snapshot{
			Agents:          e.agentsLocked(),
			TotalArguments:  len(e.history),
			LastAction:      req.Action,
			Verdict:         e.verdictLocked(),
			NeedsMoreRounds: req.NeedsMoreRounds,
		},
		Record: accepted,
	}, nil
}

// Agents returns the registered agent IDs in sorted order.
func (e *Engine) Agents() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.agentsLocked()
}

// History returns a copy of the accepted records in append order.
func (e *Engine) History() []domain.HistoryRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.HistoryRecord, len(e.history))
	copy(out, e.history)
	return out
}

// Verdict returns the current verdict, or nil if no judge has spoken.
func (e *Engine) Verdict() *domain.Verdict {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.verdictLocked()
}

func (e *Engine) agentsLocked() []string {
	agents := make([]string, 0, len(e.agents))
	for id := range e.agents {
		agents = append(agents, id)
	}
	sort.Strings(agents)
	return agents
}

func (e *Engine) verdictLocked() *domain.Verdict {
	if e.verdict == nil {
		return nil
	}
	v := *e.verdict
	return &v
}
