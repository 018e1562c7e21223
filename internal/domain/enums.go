// Package domain defines the core domain models for the debate server.
package domain

// Action represents the kind of a debate submission.
type Action string

const (
	ActionRegister Action = "register"
	ActionArgue    Action = "argue"
	ActionRebut    Action = "rebut"
	ActionJudge    Action = "judge"
)

// Actions lists every recognized action in declaration order.
var Actions = []Action{ActionRegister, ActionArgue, ActionRebut, ActionJudge}

// Valid reports whether a is one of the recognized actions.
func (a Action) Valid() bool {
	switch a {
	case ActionRegister, ActionArgue, ActionRebut, ActionJudge:
		return true
	default:
		return false
	}
}

// BearsContent reports whether the action produces a history record.
func (a Action) BearsContent() bool {
	return a == ActionArgue || a == ActionRebut || a == ActionJudge
}

// ContentType is the type of an item in a tool result.
type ContentType string

const (
	ContentTypeText ContentType = "text"
)
