package models

import (
	"fmt"
	"strings"
	"time"
)

// RecencyWindow is a lower bound on a video's publish timestamp.
type RecencyWindow string

const (
	RecencyWeek    RecencyWindow = "7d"
	RecencyMonth   RecencyWindow = "30d"
	RecencyQuarter RecencyWindow = "90d"
	RecencyAll     RecencyWindow = "all"
)

// PublishedAfter returns the cutoff for the window relative to now. The
// second return is false when no cutoff applies (the "all" window).
func (w RecencyWindow) PublishedAfter(now time.Time) (time.Time, bool) {
	switch w {
	case RecencyWeek:
		return now.AddDate(0, 0, -7), true
	case RecencyMonth:
		return now.AddDate(0, 0, -30), true
	case RecencyQuarter:
		return now.AddDate(0, 0, -90), true
	default:
		return time.Time{}, false
	}
}

func (w RecencyWindow) Valid() bool {
	switch w {
	case RecencyWeek, RecencyMonth, RecencyQuarter, RecencyAll:
		return true
	}
	return false
}

// DurationClass restricts results to short or long videos.
type DurationClass string

const (
	DurationShort DurationClass = "short"
	DurationLong  DurationClass = "long"
)

// SubscriberRange is an inclusive bound on channel subscriber counts. A nil
// range on SearchCriteria means no restriction; a present (0, 0) range is a
// real filter that only admits zero-subscriber channels.
type SubscriberRange struct {
	Min int64 `json:"min" yaml:"min"`
	Max int64 `json:"max" yaml:"max"`
}

func (r SubscriberRange) Contains(subscribers int64) bool {
	return subscribers >= r.Min && subscribers <= r.Max
}

// SearchCriteria is the input to one pipeline run. It is not mutated after
// Normalize.
type SearchCriteria struct {
	Keyword         string          `json:"keyword" yaml:"keyword"`
	ResultLimit     int             `json:"result_limit" yaml:"result_limit"`
	Recency         RecencyWindow   `json:"recency_window" yaml:"recency_window"`
	DurationClasses []DurationClass `json:"duration_classes" yaml:"duration_classes"`

	// Regions holds ISO region codes; the empty string is the "no region
	// restriction" marker. An empty slice means one unrestricted search.
	Regions []string `json:"regions" yaml:"regions"`

	// GradeFilter restricts output to the listed grades. Empty means no
	// restriction.
	GradeFilter []Grade `json:"grade_filter" yaml:"grade_filter"`

	SubscriberRange      *SubscriberRange `json:"subscriber_range,omitempty" yaml:"subscriber_range,omitempty"`
	ExcludeAgeRestricted bool             `json:"exclude_age_restricted" yaml:"exclude_age_restricted"`
}

// DefaultResultLimit is used when the caller does not ask for a specific
// number of items.
const DefaultResultLimit = 50

// Normalize fills in defaults. Call before Validate.
func (c *SearchCriteria) Normalize() {
	c.Keyword = strings.TrimSpace(c.Keyword)
	if c.ResultLimit == 0 {
		c.ResultLimit = DefaultResultLimit
	}
	if c.Recency == "" {
		c.Recency = RecencyAll
	}
}

// Validate rejects criteria before any upstream call is made.
func (c SearchCriteria) Validate() error {
	if c.Keyword == "" {
		return fmt.Errorf("keyword must not be empty")
	}
	if c.ResultLimit < 0 {
		return fmt.Errorf("result_limit must not be negative")
	}
	if !c.Recency.Valid() {
		return fmt.Errorf("unknown recency window %q", c.Recency)
	}
	for _, d := range c.DurationClasses {
		if d != DurationShort && d != DurationLong {
			return fmt.Errorf("unknown duration class %q", d)
		}
	}
	for _, g := range c.GradeFilter {
		if !g.Valid() {
			return fmt.Errorf("unknown grade %q", g)
		}
	}
	if r := c.SubscriberRange; r != nil {
		if r.Min < 0 || r.Max < 0 {
			return fmt.Errorf("subscriber range bounds must not be negative")
		}
		if r.Min > r.Max {
			return fmt.Errorf("subscriber range min %d exceeds max %d", r.Min, r.Max)
		}
	}
	return nil
}

// VideoDuration maps the duration class set to the upstream search enum.
// Empty or both-selected means any duration, reported as the empty string.
func (c SearchCriteria) VideoDuration() string {
	short, long := false, false
	for _, d := range c.DurationClasses {
		switch d {
		case DurationShort:
			short = true
		case DurationLong:
			long = true
		}
	}
	switch {
	case short && !long:
		return string(DurationShort)
	case long && !short:
		return string(DurationLong)
	default:
		return ""
	}
}

// MatchesGrade reports whether a grade passes the grade filter.
func (c SearchCriteria) MatchesGrade(g Grade) bool {
	if len(c.GradeFilter) == 0 {
		return true
	}
	for _, want := range c.GradeFilter {
		if g == want {
			return true
		}
	}
	return false
}
