package domain

// HistoryRecord is an accepted argue, rebut or judge submission.
// Records are immutable once appended to the debate history.
type HistoryRecord struct {
	RecordID      string `json:"id"`
	Seq           int    `json:"seq"` // 1-based position in the debate history
	AgentID       string `json:"agentId"`
	Round         int    `json:"round"`
	Action        Action `json:"action"`
	Content       string `json:"content"`
	TargetAgentID string `json:"targetAgentId,omitempty"`
	Ts            int64  `json:"ts"` // Unix milliseconds
}

// Verdict is derived from the most recent accepted judge submission.
type Verdict struct {
	For       string `json:"for"`
	Rationale string `json:"rationale"`
	Round     int    `json:"round"`
}

// Snapshot is the aggregated status reported after every submission.
type Snapshot struct {
	Agents          []string `json:"agents"`
	TotalArguments  int      `json:"totalArguments"`
	LastAction      Action   `json:"lastAction"`
	Verdict         *Verdict `json:"verdict"`
	NeedsMoreRounds bool     `json:"needsMoreRounds"`
}
