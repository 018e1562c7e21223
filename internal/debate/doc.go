// Package debate implements the debate-state engine.
//
// An Engine tracks three pieces of state for the life of the process: the set
// of registered agents, the append-only history of accepted submissions, and
// the current verdict. Every change goes through Submit, which validates the
// request against that state and either applies it in full or rejects it
// without touching anything.
//
// # Submission rules
//
//   - register adds the agent to the registered set; repeating it is a no-op.
//   - argue, rebut and judge require a registered agent and non-blank content,
//     and append exactly one HistoryRecord.
//   - judge additionally replaces the verdict; the first line of the content
//     names the winner and the full content is kept as the rationale.
//
// Round numbers and rebuttal targets are stored as given. The engine does not
// check rounds for ordering and does not require a target to be registered.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Each Submit call holds a single mutex
// for its whole read-modify-append sequence.
package debate
