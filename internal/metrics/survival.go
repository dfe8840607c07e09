package metrics

import "github.com/san-kum/fibersim/internal/dynamo"

// SurvivalRate is the percentage of observed members alive at the end.
type SurvivalRate struct {
	name  string
	alive int
	total int
}

func NewSurvivalRate() *SurvivalRate {
	return &SurvivalRate{name: "survival_rate"}
}

func (s *SurvivalRate) Name() string {
	return s.name
}

func (s *SurvivalRate) Observe(b *dynamo.Batch) {
	s.alive += b.AliveCount()
	s.total += b.Len()
}

func (s *SurvivalRate) Value() float64 {
	if s.total == 0 {
		return 0
	}
	return 100 * float64(s.alive) / float64(s.total)
}

func (s *SurvivalRate) Reset() {
	s.alive = 0
	s.total = 0
}
