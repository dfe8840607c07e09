package dynamo

import "fmt"

// DefaultPrime is the modulus used by every preset.
const DefaultPrime int64 = 1_000_000_007

// MaxPrime bounds p so that 3w+1+carry and every 128-bit product stay exact.
const MaxPrime int64 = 1 << 62

type State struct {
	Base  uint64
	Fiber uint64
}

// NewState places a fiber at the start of the base cycle.
func NewState(fiber uint64) State {
	return State{Base: 1, Fiber: fiber}
}

// Alive reports whether the base is still inside {1, 2, 4}.
func (s State) Alive() bool {
	switch s.Base {
	case 1, 2, 4:
		return true
	}
	return false
}

func (s State) String() string {
	return fmt.Sprintf("(w=%d, n=%d)", s.Base, s.Fiber)
}

type StepKind int

const (
	EvenStep StepKind = iota
	OddStep
)

func (k StepKind) String() string {
	if k == OddStep {
		return "odd"
	}
	return "even"
}

// Outcome is the result of simulating one trajectory.
// Lifetime counts the steps applied up to and including the one that
// produced extinction, or the full step budget for survivors.
type Outcome struct {
	Survived bool
	Lifetime int
	Final    State
}

// TracePoint records the state after Step steps. Carry and Kind describe the
// step that produced it and are zero for the initial point.
type TracePoint struct {
	Step     int
	State    State
	Carry    uint64
	Kind     StepKind
	InWindow bool
}
