package dynamo

import "math/bits"

// System is a validated (K, p) pair. Construct with NewSystem.
type System struct {
	k     uint64
	p     uint64
	inv2  uint64
	inv4  uint64
	limit uint64
}

// NewSystem validates K and p and precomputes the inverse of 2 and the
// safe window limit floor((p-1)/K).
func NewSystem(k, p int64) (*System, error) {
	if k <= 0 {
		return nil, paramErr("K", k, "must be positive")
	}
	if p >= MaxPrime {
		return nil, paramErr("p", p, "must be below 2^62")
	}
	if !IsOddPrime(p) {
		return nil, &ParamError{Name: "p", Value: p, Reason: "must be an odd prime", Wrapped: ErrNotPrime}
	}
	if p <= k {
		return nil, paramErr("p", p, "must be greater than K")
	}

	up := uint64(p)
	return &System{
		k:     uint64(k),
		p:     up,
		inv2:  ModInverse(2, up),
		inv4:  ModInverse(4, up),
		limit: (up - 1) / uint64(k),
	}, nil
}

func (sys *System) K() uint64     { return sys.k }
func (sys *System) Prime() uint64 { return sys.p }
func (sys *System) Inv2() uint64  { return sys.inv2 }

// WindowLimit is floor((p-1)/K): the largest fiber with K·n < p.
func (sys *System) WindowLimit() uint64 { return sys.limit }

// InWindow reports whether n lies in [0, WindowLimit].
func (sys *System) InWindow(n uint64) bool { return n <= sys.limit }

// Step advances s by one step. Dead states are returned unchanged.
func (sys *System) Step(s State) State {
	next, _, _ := sys.step(s)
	return next
}

func (sys *System) step(s State) (State, uint64, StepKind) {
	if !s.Alive() {
		return s, 0, EvenStep
	}
	if s.Base%2 == 0 {
		return State{Base: s.Base / 2, Fiber: MulMod(s.Fiber, sys.inv2, sys.p)}, 0, EvenStep
	}
	carry, fiber := sys.lift(s.Fiber)
	return State{Base: 3*s.Base + 1 + carry, Fiber: fiber}, carry, OddStep
}

// lift returns floor(K·n/p) and K·n mod p from the unreduced 128-bit product.
// The high word of K·n is below K < p, as Div64 requires.
func (sys *System) lift(n uint64) (carry, rem uint64) {
	hi, lo := bits.Mul64(sys.k, n)
	return bits.Div64(hi, lo, sys.p)
}

// Carry returns floor(K·n/p) without advancing anything.
func (sys *System) Carry(n uint64) uint64 {
	c, _ := sys.lift(n)
	return c
}

func (sys *System) checkFiber(name string, n uint64) error {
	if n >= sys.p {
		return paramErr(name, n, "must lie in [0, p-1]")
	}
	return nil
}

func checkSteps(steps int) error {
	if steps < 0 {
		return paramErr("steps", steps, "must not be negative")
	}
	return nil
}
