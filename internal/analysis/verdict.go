package analysis

// DefaultPercentiles are the window positions probed by BoundaryPoints.
var DefaultPercentiles = []float64{0.1, 1, 10, 25, 50, 75, 90, 99, 99.9}

const (
	PersistentAbove = 99.9
	ExtinctBelow    = 0.1
)

type Verdict int

const (
	Mixed Verdict = iota
	Persistent
	Extinct
)

func (v Verdict) String() string {
	switch v {
	case Persistent:
		return "PERSISTENT"
	case Extinct:
		return "EXTINCT"
	default:
		return "MIXED"
	}
}

// Classify maps a survival percentage to a verdict.
func Classify(rate float64) Verdict {
	switch {
	case rate > PersistentAbove:
		return Persistent
	case rate < ExtinctBelow:
		return Extinct
	default:
		return Mixed
	}
}
