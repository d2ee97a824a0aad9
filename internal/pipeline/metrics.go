package pipeline

import (
	"fmt"
	"time"

	"github.com/hwangga/signal-app/internal/models"
)

// performanceRatio is view count relative to subscriber count, as a
// percentage. Zero-subscriber channels get 0 rather than a division fault.
func performanceRatio(views, subscribers int64) float64 {
	if subscribers <= 0 {
		return 0
	}
	return float64(views) / float64(subscribers) * 100
}

// engagementRatio is comment count relative to view count, as a percentage.
func engagementRatio(comments, views int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(comments) / float64(views) * 100
}

// daysSince floors to whole days with a minimum of 1, so a video published
// today still has a finite velocity.
func daysSince(published, now time.Time) int64 {
	days := int64(now.Sub(published).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func dailyVelocity(views int64, published, now time.Time) float64 {
	return float64(views) / float64(daysSince(published, now))
}

// formatDuration renders seconds as mm:ss, or h:mm:ss from one hour up.
func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// enrich joins one video with its channel stats and computes the derived
// fields. Pure; rank is assigned later by the sort stage.
func enrich(v models.Video, ch models.ChannelStats, now time.Time) models.EnrichedRecord {
	perf := performanceRatio(v.ViewCount, ch.SubscriberCount)
	grade := models.GradeForPerformance(perf)

	return models.EnrichedRecord{
		ID:            v.ID,
		Title:         v.Title,
		ChannelName:   v.ChannelTitle,
		PublishedAt:   v.PublishedAt,
		PublishedDate: v.PublishedAt.Format("2006-01-02"),

		ViewCount:         v.ViewCount,
		LikeCount:         v.LikeCount,
		CommentCount:      v.CommentCount,
		SubscriberCount:   ch.SubscriberCount,
		ChannelVideoCount: ch.VideoCount,

		PerformanceRatio: perf,
		EngagementRatio:  engagementRatio(v.CommentCount, v.ViewCount),
		DailyVelocity:    dailyVelocity(v.ViewCount, v.PublishedAt, now),

		Grade:      grade,
		GradeLabel: grade.Label(),

		DurationDisplay: formatDuration(v.DurationSeconds),
		ThumbnailURL:    v.ThumbnailURL,
		WatchURL:        fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.ID),
	}
}
