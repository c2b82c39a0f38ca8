// Package feature derives each feature's lifecycle state from the artifacts
// on disk and picks what to work on next.
//
// State is never stored. Every call re-reads the filesystem, so two
// snapshots with the same relevant files always resolve to the same state.
package feature

// State is a feature's position in the lifecycle.
type State string

// Lifecycle states, in roughly the order a feature moves through them.
const (
	StateDraft          State = "draft"
	StateApproved       State = "approved"
	StateImplementation State = "implementation"
	StateDeliverPending State = "deliver_pending"
	StateBlocked        State = "blocked"
	StateDelivered      State = "delivered"
	StateUnknown        State = "unknown"
)

// AllStates lists every state. NextCommand is defined for each entry.
var AllStates = []State{
	StateDraft,
	StateApproved,
	StateImplementation,
	StateDeliverPending,
	StateBlocked,
	StateDelivered,
	StateUnknown,
}

// IsValid reports whether s is one of the known states.
func (s State) IsValid() bool {
	switch s {
	case StateDraft, StateApproved, StateImplementation, StateDeliverPending,
		StateBlocked, StateDelivered, StateUnknown:
		return true
	}
	return false
}

// IsPending reports whether the feature still has work left.
func (s State) IsPending() bool {
	return s != StateDelivered
}

// nextCommands is the canonical state → command table. An empty value
// means there is no next step.
var nextCommands = map[State]string{
	StateDraft:          "approve",
	StateApproved:       "plan",
	StateImplementation: "build",
	StateDeliverPending: "deliver",
	StateBlocked:        "go",
	StateDelivered:      "",
	StateUnknown:        "status",
}

// NextCommand returns the command that moves a feature out of state s.
// Delivered features return "". Unrecognized states are treated as unknown.
func NextCommand(s State) string {
	cmd, ok := nextCommands[s]
	if !ok {
		return nextCommands[StateUnknown]
	}
	return cmd
}

// Decision is the outcome recorded by a delivery.
type Decision string

const (
	DecisionShip Decision = "SHIP"
	DecisionHold Decision = "HOLD"
	// DecisionNone means the record exists but no decision was made yet.
	DecisionNone Decision = ""
)

// Feature is one named unit of work with its derived state.
type Feature struct {
	Name        string `json:"name"`
	State       State  `json:"state"`
	SpecFile    string `json:"specFile"`
	DeliveredAt string `json:"deliveredAt,omitempty"`
}

// Summary counts features by coarse lifecycle bucket.
type Summary struct {
	Total      int `json:"total"`
	Delivered  int `json:"delivered"`
	InProgress int `json:"inProgress"`
	Draft      int `json:"draft"`
}

// QueueEntry biases next-feature selection. Lower Priority wins.
type QueueEntry struct {
	Feature  string `json:"feature" yaml:"feature" toml:"feature"`
	Priority int    `json:"priority" yaml:"priority" toml:"priority"`
}
