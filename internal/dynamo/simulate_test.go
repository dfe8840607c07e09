package dynamo

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

func mustSystem(t testing.TB, k, p int64) *System {
	t.Helper()
	sys, err := NewSystem(k, p)
	if err != nil {
		t.Fatalf("NewSystem(%d, %d): %v", k, p, err)
	}
	return sys
}

func TestSimulate_ResonantCycle(t *testing.T) {
	sys := mustSystem(t, 4, DefaultPrime)

	out, err := sys.Simulate(250_000_000, 3)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if !out.Survived || out.Lifetime != 3 {
		t.Errorf("expected survival over 3 steps, got %+v", out)
	}
	if out.Final != (State{Base: 1, Fiber: 250_000_000}) {
		t.Errorf("expected return to (1, 250000000), got %v", out.Final)
	}

	out, err = sys.Simulate(250_000_000, 60)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if !out.Survived || out.Lifetime != 60 {
		t.Errorf("expected survival over 60 steps, got %+v", out)
	}
}

func TestSimulate_Extinction(t *testing.T) {
	sys := mustSystem(t, 5, DefaultPrime)

	out, err := sys.Simulate(100_000_000, 200)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if out.Survived {
		t.Fatal("expected extinction for K=5")
	}
	if out.Lifetime != 13 {
		t.Errorf("expected lifetime 13, got %d", out.Lifetime)
	}
	expected := State{Base: 5, Fiber: 220_703_118}
	if out.Final != expected {
		t.Errorf("expected final state %v, got %v", expected, out.Final)
	}
}

func TestSimulate_SmallPrimes(t *testing.T) {
	tests := []struct {
		k, p     int64
		fiber    uint64
		lifetime int
		final    State
	}{
		{5, 101, 10, 4, State{7, 12}},
		{3, 101, 8, 7, State{5, 64}},
		{6, 97, 5, 4, State{7, 45}},
	}

	for _, tt := range tests {
		sys := mustSystem(t, tt.k, tt.p)
		out, err := sys.Simulate(tt.fiber, 50)
		if err != nil {
			t.Fatalf("simulate failed: %v", err)
		}
		if out.Survived || out.Lifetime != tt.lifetime || out.Final != tt.final {
			t.Errorf("K=%d p=%d n=%d: got %+v, want lifetime %d final %v",
				tt.k, tt.p, tt.fiber, out, tt.lifetime, tt.final)
		}
	}
}

func TestSimulate_ZeroFiber(t *testing.T) {
	for _, k := range []int64{2, 3, 4, 5, 16} {
		sys := mustSystem(t, k, DefaultPrime)
		out, err := sys.Simulate(0, 90)
		if err != nil {
			t.Fatalf("simulate failed: %v", err)
		}
		if !out.Survived || out.Final.Fiber != 0 {
			t.Errorf("K=%d: zero fiber should be fixed, got %+v", k, out)
		}
	}
}

func TestSimulate_ZeroSteps(t *testing.T) {
	sys := mustSystem(t, 5, DefaultPrime)
	out, err := sys.Simulate(123, 0)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if !out.Survived || out.Lifetime != 0 || out.Final != NewState(123) {
		t.Errorf("unexpected outcome for zero steps: %+v", out)
	}
}

func TestSimulate_InvalidInput(t *testing.T) {
	sys := mustSystem(t, 4, 101)

	tests := []struct {
		name  string
		fiber uint64
		steps int
	}{
		{"negative steps", 3, -1},
		{"fiber equals p", 101, 10},
		{"fiber above p", 5000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.Simulate(tt.fiber, tt.steps)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestTrace(t *testing.T) {
	sys := mustSystem(t, 5, 101)

	points, err := sys.Trace(10, 50)
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}
	if len(points) != 5 {
		t.Fatalf("expected 5 points (initial + 4 steps), got %d", len(points))
	}

	last := points[len(points)-1]
	if last.Step != 4 || last.Kind != OddStep || last.Carry != 3 || last.State.Alive() {
		t.Errorf("unexpected extinction point: %+v", last)
	}
	if points[1].Kind != OddStep || points[2].Kind != EvenStep || points[3].Kind != EvenStep {
		t.Errorf("unexpected step kinds: %v %v %v", points[1].Kind, points[2].Kind, points[3].Kind)
	}
	if !points[0].InWindow {
		t.Error("initial fiber 10 should be inside the window [0, 20]")
	}
}

func TestReturnMap(t *testing.T) {
	resonant := mustSystem(t, 4, DefaultPrime)
	if !resonant.IsIdentityCycle() {
		t.Error("K=4 should give the identity cycle")
	}

	for _, k := range []int64{1, 2, 3, 5, 6, 8, 16} {
		sys := mustSystem(t, k, DefaultPrime)
		if sys.IsIdentityCycle() {
			t.Errorf("K=%d should not give the identity cycle", k)
		}
	}

	// K=8 doubles a carry-free fiber each cycle.
	sys := mustSystem(t, 8, DefaultPrime)
	if got := sys.ReturnMap(1000); got != 2000 {
		t.Errorf("ReturnMap(1000) = %d, want 2000", got)
	}
	out, _ := sys.Simulate(1000, 3)
	if out.Final.Fiber != sys.ReturnMap(1000) {
		t.Errorf("3 steps gave %d, return map gave %d", out.Final.Fiber, sys.ReturnMap(1000))
	}
}

func TestSimulateEnsemble_MatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, k := range []int64{3, 4, 5} {
		sys := mustSystem(t, k, DefaultPrime)
		fibers := make([]uint64, 3000)
		for i := range fibers {
			fibers[i] = uint64(rng.Int63n(int64(sys.WindowLimit()))) + 1
		}

		batch, err := sys.SimulateEnsemble(context.Background(), fibers, 40, WithWorkers(4), WithChunkSize(128))
		if err != nil {
			t.Fatalf("ensemble failed: %v", err)
		}

		for i, f := range fibers {
			out, _ := sys.Simulate(f, 40)
			if batch.Outcome(i) != out {
				t.Fatalf("K=%d member %d: ensemble %+v, sequential %+v", k, i, batch.Outcome(i), out)
			}
		}
	}
}

func TestSimulateEnsemble_Curve(t *testing.T) {
	sys := mustSystem(t, 5, 101)

	// 10 dies at step 4, 0 is a fixed point.
	batch, err := sys.SimulateEnsemble(context.Background(), []uint64{10, 0}, 6)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	curve := batch.Curve()
	if len(curve) != 7 {
		t.Fatalf("expected 7 curve points, got %d", len(curve))
	}
	expected := []float64{100, 100, 100, 100, 50, 50, 50}
	for i := range expected {
		if curve[i] != expected[i] {
			t.Errorf("curve[%d] = %.1f, want %.1f", i, curve[i], expected[i])
		}
	}
	if batch.SurvivalRate() != 50 {
		t.Errorf("SurvivalRate() = %.1f, want 50", batch.SurvivalRate())
	}
}

func TestSimulateEnsemble_Empty(t *testing.T) {
	sys := mustSystem(t, 4, 101)
	batch, err := sys.SimulateEnsemble(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if batch.Len() != 0 || batch.SurvivalRate() != 0 {
		t.Errorf("expected empty batch, got %+v", batch)
	}
}

func TestSimulateEnsemble_RejectsBeforeRunning(t *testing.T) {
	sys := mustSystem(t, 4, 101)
	_, err := sys.SimulateEnsemble(context.Background(), []uint64{1, 2, 101}, 10)
	var pe *ParamError
	if !errors.As(err, &pe) || pe.Name != "fibers[2]" {
		t.Errorf("expected ParamError for fibers[2], got %v", err)
	}
}

func TestSimulateEnsemble_Canceled(t *testing.T) {
	sys := mustSystem(t, 4, DefaultPrime)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sys.SimulateEnsemble(ctx, make([]uint64, 10_000), 60)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPackageSimulateEnsemble(t *testing.T) {
	batch, err := SimulateEnsemble(context.Background(), []uint64{250_000_000, 1}, 4, DefaultPrime, 30)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if batch.AliveCount() != 2 {
		t.Errorf("expected both members alive, got %d", batch.AliveCount())
	}

	if _, err := SimulateEnsemble(context.Background(), nil, 0, DefaultPrime, 30); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for K=0, got %v", err)
	}
}

func TestParallelFor(t *testing.T) {
	seen := make([]int, 1000)
	ParallelFor(len(seen), 10, func(start, end int) {
		for i := start; i < end; i++ {
			seen[i]++
		}
	})
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}
