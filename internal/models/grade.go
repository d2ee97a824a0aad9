package models

// Grade buckets a video by its performance ratio (views relative to channel
// subscribers, as a percentage). Comparison is always by tag, never by the
// display label.
type Grade string

const (
	GradeSurging   Grade = "surging"    // performance ratio >= 1000
	GradeRapidRise Grade = "rapid_rise" // >= 300
	GradeNotable   Grade = "notable"    // >= 100
	GradeNormal    Grade = "normal"     // everything else
)

// Performance ratio thresholds, evaluated high to low. Boundaries are closed
// on the lower end: exactly 1000 is still surging.
const (
	SurgingThreshold   = 1000.0
	RapidRiseThreshold = 300.0
	NotableThreshold   = 100.0
)

// GradeForPerformance maps a performance ratio to its grade. Total over all
// ratios >= 0.
func GradeForPerformance(ratio float64) Grade {
	switch {
	case ratio >= SurgingThreshold:
		return GradeSurging
	case ratio >= RapidRiseThreshold:
		return GradeRapidRise
	case ratio >= NotableThreshold:
		return GradeNotable
	default:
		return GradeNormal
	}
}

// Label returns the human-readable form used by the dashboard.
func (g Grade) Label() string {
	switch g {
	case GradeSurging:
		return "Surging"
	case GradeRapidRise:
		return "Rapid rise"
	case GradeNotable:
		return "Notable"
	case GradeNormal:
		return "Normal"
	default:
		return string(g)
	}
}

func (g Grade) Valid() bool {
	switch g {
	case GradeSurging, GradeRapidRise, GradeNotable, GradeNormal:
		return true
	}
	return false
}
