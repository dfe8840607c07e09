package metrics

import (
	"context"
	"testing"

	"github.com/san-kum/fibersim/internal/dynamo"
)

func runBatch(t *testing.T, k, p int64, fibers []uint64, steps int) *dynamo.Batch {
	t.Helper()
	sys, err := dynamo.NewSystem(k, p)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	b, err := sys.SimulateEnsemble(context.Background(), fibers, steps)
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	return b
}

func TestSurvivalRate(t *testing.T) {
	m := NewSurvivalRate()
	if m.Value() != 0 {
		t.Error("expected zero before any observation")
	}

	// fiber 10 dies at step 4 for K=5, p=101; fiber 0 survives.
	m.Observe(runBatch(t, 5, 101, []uint64{10, 0}, 20))
	if m.Value() != 50 {
		t.Errorf("expected 50%%, got %.2f", m.Value())
	}

	m.Observe(runBatch(t, 4, 101, []uint64{1, 2}, 20))
	if m.Value() != 75 {
		t.Errorf("expected 75%% across batches, got %.2f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanLifetime(t *testing.T) {
	m := NewMeanLifetime()
	m.Observe(runBatch(t, 5, 101, []uint64{10, 0}, 20))

	if got := m.Value(); got != 12 {
		t.Errorf("expected mean lifetime (4+20)/2 = 12, got %.2f", got)
	}
}

func TestExtinctionStep(t *testing.T) {
	tests := []struct {
		name     string
		fibers   []uint64
		expected float64
	}{
		{"all die", []uint64{10}, 4},
		{"survivor present", []uint64{10, 0}, -1},
		{"empty", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewExtinctionStep()
			m.Observe(runBatch(t, 5, 101, tt.fibers, 20))
			if got := m.Value(); got != tt.expected {
				t.Errorf("Value() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	values := Collect(runBatch(t, 5, 101, []uint64{10}, 20), Defaults())

	for _, name := range []string{"survival_rate", "mean_lifetime", "extinction_step"} {
		if _, ok := values[name]; !ok {
			t.Errorf("metric %s missing", name)
		}
	}
	if values["survival_rate"] != 0 {
		t.Errorf("expected zero survival, got %v", values["survival_rate"])
	}
}
