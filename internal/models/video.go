package models

import "time"

// Video is one item as resolved from the upstream detail lookup, before
// metric derivation.
type Video struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ChannelID       string    `json:"channel_id"`
	ChannelTitle    string    `json:"channel_title"`
	PublishedAt     time.Time `json:"published_at"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count"`
	Duration        string    `json:"duration"` // ISO 8601, e.g. "PT12M34S"
	DurationSeconds int       `json:"duration_seconds"`
	ThumbnailURL    string    `json:"thumbnail_url"` // empty when upstream has none
	AgeRestricted   bool      `json:"age_restricted"`
}

// ChannelStats carries the channel-level numbers a video's metrics depend on.
// A channel that could not be resolved is represented by the zero value.
type ChannelStats struct {
	ChannelID       string `json:"channel_id"`
	SubscriberCount int64  `json:"subscriber_count"`
	VideoCount      int64  `json:"video_count"`
}
