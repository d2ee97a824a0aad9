// Package youtube wraps the YouTube Data API v3 operations the pipeline
// needs: keyword search, batched video detail lookup and batched channel
// statistics lookup.
package youtube

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/hwangga/signal-app/internal/config"
	"github.com/hwangga/signal-app/internal/models"
	"github.com/hwangga/signal-app/internal/pipeline"
)

type Client struct {
	service *youtube.Service
	timeout time.Duration
}

// NewClient builds an authenticated service. An API key is the default
// credential; when only an OAuth client pair is configured, the device
// authorization flow is used and the token persisted to cfg.TokenFile.
func NewClient(ctx context.Context, cfg *config.YouTubeConfig) (*Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		tokenSource, err := newTokenSource(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to get OAuth token: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	default:
		return nil, fmt.Errorf("no YouTube credential configured")
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service, timeout: cfg.RequestTimeout}, nil
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Search issues one keyword search and returns the matching video ids. The
// ordering is fixed to most-viewed-first and the item type to single videos.
func (c *Client) Search(ctx context.Context, req pipeline.SearchRequest) ([]string, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	call := c.service.Search.List([]string{"id"}).
		Q(req.Keyword).
		MaxResults(req.Limit).
		Order("viewCount").
		Type("video").
		Context(ctx)

	if req.DurationClass != "" {
		call = call.VideoDuration(req.DurationClass)
	}
	if !req.PublishedAfter.IsZero() {
		call = call.PublishedAfter(req.PublishedAfter.UTC().Format(time.RFC3339))
	}
	if req.Region != "" {
		call = call.RegionCode(req.Region)
	}

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("search for %q: %w", req.Keyword, err)
	}

	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	return ids, nil
}

// VideoDetails resolves statistics, snippet and content details for up to 50
// ids in a single call.
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]models.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > pipeline.MaxIDsPerCall {
		return nil, fmt.Errorf("video details: %d ids exceeds the per-call limit of %d", len(ids), pipeline.MaxIDsPerCall)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("video details for %d ids: %w", len(ids), err)
	}

	videos := make([]models.Video, 0, len(response.Items))
	for _, item := range response.Items {
		videos = append(videos, convertVideo(item))
	}
	return videos, nil
}

// ChannelDetails resolves subscriber and upload counts for up to 50 channel
// ids in a single call. Channels the upstream omits are simply absent from
// the result.
func (c *Client) ChannelDetails(ctx context.Context, ids []string) ([]models.ChannelStats, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > pipeline.MaxIDsPerCall {
		return nil, fmt.Errorf("channel details: %d ids exceeds the per-call limit of %d", len(ids), pipeline.MaxIDsPerCall)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.service.Channels.List([]string{"statistics"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channel details for %d ids: %w", len(ids), err)
	}

	stats := make([]models.ChannelStats, 0, len(response.Items))
	for _, item := range response.Items {
		ch := models.ChannelStats{ChannelID: item.Id}
		if item.Statistics != nil {
			ch.SubscriberCount = int64(item.Statistics.SubscriberCount)
			ch.VideoCount = int64(item.Statistics.VideoCount)
		}
		stats = append(stats, ch)
	}
	return stats, nil
}

func convertVideo(item *youtube.Video) models.Video {
	video := models.Video{ID: item.Id}

	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.ChannelID = item.Snippet.ChannelId
		video.ChannelTitle = item.Snippet.ChannelTitle
		video.ThumbnailURL = pickThumbnail(item.Snippet.Thumbnails)
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = publishedAt
		} else {
			log.Printf("Warning: unparseable publish time %q for video %s", item.Snippet.PublishedAt, item.Id)
		}
	}
	if item.ContentDetails != nil {
		video.Duration = item.ContentDetails.Duration
		video.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
		if item.ContentDetails.ContentRating != nil {
			video.AgeRestricted = item.ContentDetails.ContentRating.YtRating == "ytAgeRestricted"
		}
	}
	if item.Statistics != nil {
		video.ViewCount = int64(item.Statistics.ViewCount)
		video.LikeCount = int64(item.Statistics.LikeCount)
		video.CommentCount = int64(item.Statistics.CommentCount)
	}

	return video
}

// pickThumbnail takes the first available URL from highest resolution down.
// An empty string when nothing is present is recoverable and never excludes
// the item.
func pickThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, candidate := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if candidate != nil && candidate.Url != "" {
			return candidate.Url
		}
	}
	return ""
}

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseDurationSeconds converts an ISO 8601 duration like "PT2H15M30S" to
// seconds. Unparseable input counts as zero.
func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	matches := durationPattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}
	return totalSeconds
}
