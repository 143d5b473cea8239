package entity

// AssemblyState tracks one resolution attempt.
type AssemblyState int

const (
	StateUnassembled AssemblyState = iota
	StateValidating
	StateResolved
	StateRejected
)

func (s AssemblyState) String() string {
	switch s {
	case StateUnassembled:
		return "unassembled"
	case StateValidating:
		return "validating"
	case StateResolved:
		return "resolved"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s AssemblyState) Terminal() bool {
	return s == StateResolved || s == StateRejected
}

// ResolutionResult is the outcome of resolving one named network.
// Exactly one of Network and Err is set once State is terminal.
type ResolutionResult struct {
	Name    string           `json:"name"`
	State   AssemblyState    `json:"-"`
	Network *ResolvedNetwork `json:"network,omitempty"`
	Err     error            `json:"-"`
}

// ResolveRequest names a network to resolve plus an optional endpoint override.
type ResolveRequest struct {
	Name             string
	EndpointOverride string
}
