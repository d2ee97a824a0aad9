package models

import (
	"fmt"
	"time"
)

// EnrichedRecord is one output row of the pipeline: raw metrics joined with
// channel stats, derived ratios, grade and presentation fields.
type EnrichedRecord struct {
	Rank int `json:"rank"` // 1-based position after the final sort

	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ChannelName   string    `json:"channel_name"`
	PublishedAt   time.Time `json:"published_at"`
	PublishedDate string    `json:"published_date"` // YYYY-MM-DD

	ViewCount         int64 `json:"view_count"`
	LikeCount         int64 `json:"like_count"`
	CommentCount      int64 `json:"comment_count"`
	SubscriberCount   int64 `json:"subscriber_count"`
	ChannelVideoCount int64 `json:"channel_video_count"`

	PerformanceRatio float64 `json:"performance_ratio"`
	EngagementRatio  float64 `json:"engagement_ratio"`
	DailyVelocity    float64 `json:"daily_velocity"`

	Grade      Grade  `json:"grade"`
	GradeLabel string `json:"grade_label"`

	DurationDisplay string `json:"duration_display"` // mm:ss or h:mm:ss
	ThumbnailURL    string `json:"thumbnail_url"`
	WatchURL        string `json:"watch_url"`
}

// ResultSet is the outcome of one completed pipeline run. It is the only
// state that outlives a run, and only a newer completed run replaces it.
type ResultSet struct {
	RunID       string           `json:"run_id"`
	Criteria    SearchCriteria   `json:"criteria"`
	Records     []EnrichedRecord `json:"records"`
	GeneratedAt time.Time        `json:"generated_at"`
	// DegradedChannels counts channels whose stats lookup failed and were
	// defaulted to zero. Informational, not an error.
	DegradedChannels int `json:"degraded_channels"`
}

// IsEmpty reports the "request succeeded but matched nothing" terminal state.
func (rs *ResultSet) IsEmpty() bool {
	return len(rs.Records) == 0
}

// Summary is a one-line description for run logs and the monitor.
func (rs *ResultSet) Summary() string {
	if rs.DegradedChannels > 0 {
		return fmt.Sprintf("%d videos ranked for %q (%d channels degraded to zero stats)",
			len(rs.Records), rs.Criteria.Keyword, rs.DegradedChannels)
	}
	return fmt.Sprintf("%d videos ranked for %q", len(rs.Records), rs.Criteria.Keyword)
}
