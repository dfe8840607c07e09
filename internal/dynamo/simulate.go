package dynamo

// Simulate runs up to steps steps from (1, fiber), stopping at extinction.
func (sys *System) Simulate(fiber uint64, steps int) (Outcome, error) {
	if err := checkSteps(steps); err != nil {
		return Outcome{}, err
	}
	if err := sys.checkFiber("fiber", fiber); err != nil {
		return Outcome{}, err
	}
	return sys.run(fiber, steps), nil
}

func (sys *System) run(fiber uint64, steps int) Outcome {
	s := NewState(fiber)
	for i := 1; i <= steps; i++ {
		s = sys.Step(s)
		if !s.Alive() {
			return Outcome{Survived: false, Lifetime: i, Final: s}
		}
	}
	return Outcome{Survived: true, Lifetime: steps, Final: s}
}

// Trace records every state from step 0 until steps or extinction,
// whichever comes first. The extinct state is included.
func (sys *System) Trace(fiber uint64, steps int) ([]TracePoint, error) {
	if err := checkSteps(steps); err != nil {
		return nil, err
	}
	if err := sys.checkFiber("fiber", fiber); err != nil {
		return nil, err
	}

	s := NewState(fiber)
	points := make([]TracePoint, 0, steps+1)
	points = append(points, TracePoint{Step: 0, State: s, InWindow: sys.InWindow(fiber)})

	for i := 1; i <= steps; i++ {
		next, carry, kind := sys.step(s)
		s = next
		points = append(points, TracePoint{
			Step:     i,
			State:    s,
			Carry:    carry,
			Kind:     kind,
			InWindow: sys.InWindow(s.Fiber),
		})
		if !s.Alive() {
			break
		}
	}
	return points, nil
}

// ReturnMultiplier is λ = K·4⁻¹ mod p, the factor one carry-free cycle
// applies to the fiber.
func (sys *System) ReturnMultiplier() uint64 {
	return MulMod(sys.k, sys.inv4, sys.p)
}

// ReturnMap applies one carry-free cycle to n: λ·n mod p.
func (sys *System) ReturnMap(n uint64) uint64 {
	return MulMod(sys.ReturnMultiplier(), n%sys.p, sys.p)
}

// IsIdentityCycle reports whether the 3-step composite is the identity,
// which holds exactly when K ≡ 4 (mod p).
func (sys *System) IsIdentityCycle() bool {
	return sys.ReturnMultiplier() == 1
}
