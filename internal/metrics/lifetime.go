package metrics

import "github.com/san-kum/fibersim/internal/dynamo"

type MeanLifetime struct {
	name    string
	sum     int
	samples int
}

func NewMeanLifetime() *MeanLifetime {
	return &MeanLifetime{name: "mean_lifetime"}
}

func (m *MeanLifetime) Name() string {
	return m.name
}

func (m *MeanLifetime) Observe(b *dynamo.Batch) {
	for _, l := range b.Lifetime {
		m.sum += l
	}
	m.samples += b.Len()
}

func (m *MeanLifetime) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.samples)
}

func (m *MeanLifetime) Reset() {
	m.sum = 0
	m.samples = 0
}

// ExtinctionStep is the first step after which no member is alive, taken
// as the latest such step across observed batches. -1 means some batch
// still had survivors.
type ExtinctionStep struct {
	name     string
	step     int
	survived bool
	observed bool
}

func NewExtinctionStep() *ExtinctionStep {
	return &ExtinctionStep{name: "extinction_step"}
}

func (e *ExtinctionStep) Name() string {
	return e.name
}

func (e *ExtinctionStep) Observe(b *dynamo.Batch) {
	e.observed = true
	if b.AliveCount() > 0 || b.Len() == 0 {
		e.survived = true
		return
	}
	for _, l := range b.Lifetime {
		e.step = max(e.step, l)
	}
}

func (e *ExtinctionStep) Value() float64 {
	if !e.observed || e.survived {
		return -1
	}
	return float64(e.step)
}

func (e *ExtinctionStep) Reset() {
	e.step = 0
	e.survived = false
	e.observed = false
}
