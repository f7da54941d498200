package tracking

import "time"

// Freshness classifies the age of a reading relative to now. The same
// thresholds are used by every read path so a bus is never "live" on one
// endpoint and gone on another.
type Freshness int

const (
	// Recent means the reading is at most 5 minutes old.
	Recent Freshness = iota
	// Active means the reading is older than 5 but at most 10 minutes.
	Active
	// Stale means the reading is older than 10 minutes.
	Stale
)

const (
	// RecentWindow is the upper bound on a Recent reading's age.
	RecentWindow = 5 * time.Minute
	// ActiveWindow is the upper bound on an Active reading's age.
	ActiveWindow = 10 * time.Minute
)

func (f Freshness) String() string {
	switch f {
	case Recent:
		return "recent"
	case Active:
		return "active"
	default:
		return "stale"
	}
}

// Classify maps a reading age to its freshness class. Boundaries are
// inclusive: exactly 300s is still Recent, exactly 600s still Active.
func Classify(age time.Duration) Freshness {
	switch {
	case age <= RecentWindow:
		return Recent
	case age <= ActiveWindow:
		return Active
	default:
		return Stale
	}
}

// FreshnessTag is the advisory staleness metadata attached to point queries.
// The reading itself is always returned; hiding stale data is the caller's
// decision.
type FreshnessTag struct {
	Freshness  Freshness `json:"freshness"`
	IsRecent   bool      `json:"is_recent"`
	IsStale    bool      `json:"is_stale"`
	AgeSeconds float64   `json:"age_seconds"`
}

// TagFor builds the freshness tag for a reading captured at the given time.
func TagFor(capturedAt, now time.Time) FreshnessTag {
	age := now.Sub(capturedAt)
	f := Classify(age)
	return FreshnessTag{
		Freshness:  f,
		IsRecent:   f == Recent,
		IsStale:    f == Stale,
		AgeSeconds: age.Seconds(),
	}
}

func (f Freshness) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}
