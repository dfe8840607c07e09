package metrics

import "github.com/san-kum/fibersim/internal/dynamo"

// Metric accumulates a scalar over one or more ensemble batches.
type Metric interface {
	Name() string
	Observe(b *dynamo.Batch)
	Value() float64
	Reset()
}

// Defaults returns the metrics reported for every experiment.
func Defaults() []Metric {
	return []Metric{
		NewSurvivalRate(),
		NewMeanLifetime(),
		NewExtinctionStep(),
	}
}

// Collect observes b with every metric and returns the values by name.
func Collect(b *dynamo.Batch, ms []Metric) map[string]float64 {
	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Observe(b)
		values[m.Name()] = m.Value()
	}
	return values
}
