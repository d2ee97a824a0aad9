package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/hwangga/signal-app/internal/models"
)

// fakeAPI substitutes the upstream service and records every call the
// pipeline makes.
type fakeAPI struct {
	searchFn  func(req SearchRequest) ([]string, error)
	videoFn   func(ids []string) ([]models.Video, error)
	channelFn func(ids []string) ([]models.ChannelStats, error)

	searchReqs    []SearchRequest
	videoChunks   [][]string
	channelChunks [][]string
}

func (f *fakeAPI) Search(_ context.Context, req SearchRequest) ([]string, error) {
	f.searchReqs = append(f.searchReqs, req)
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(req)
}

func (f *fakeAPI) VideoDetails(_ context.Context, ids []string) ([]models.Video, error) {
	f.videoChunks = append(f.videoChunks, ids)
	if f.videoFn == nil {
		return nil, nil
	}
	return f.videoFn(ids)
}

func (f *fakeAPI) ChannelDetails(_ context.Context, ids []string) ([]models.ChannelStats, error) {
	f.channelChunks = append(f.channelChunks, ids)
	if f.channelFn == nil {
		return nil, nil
	}
	return f.channelFn(ids)
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestPipeline(api VideoAPI) *Pipeline {
	p := New(api)
	p.now = func() time.Time { return testNow }
	return p
}

// echoVideos resolves each id to a video on its own channel with stats
// derived from the id's position, so tests get varied but predictable
// numbers.
func echoVideos(ids []string) ([]models.Video, error) {
	videos := make([]models.Video, 0, len(ids))
	for i, id := range ids {
		videos = append(videos, models.Video{
			ID:           id,
			Title:        "video " + id,
			ChannelID:    "ch-" + id,
			ChannelTitle: "channel " + id,
			PublishedAt:  testNow.AddDate(0, 0, -(i + 1)),
			ViewCount:    int64(1000 * (i + 1)),
			CommentCount: int64(10 * (i + 1)),
		})
	}
	return videos, nil
}

func echoChannels(ids []string) ([]models.ChannelStats, error) {
	stats := make([]models.ChannelStats, 0, len(ids))
	for _, id := range ids {
		stats = append(stats, models.ChannelStats{ChannelID: id, SubscriberCount: 1000, VideoCount: 50})
	}
	return stats, nil
}

func TestRunScenarioA(t *testing.T) {
	// 100 items requested over one region; all unique, all channels resolve.
	api := &fakeAPI{
		searchFn: func(req SearchRequest) ([]string, error) {
			return makeIDs(int(req.Limit)), nil
		},
		videoFn:   echoVideos,
		channelFn: echoChannels,
	}
	p := newTestPipeline(api)

	rs, err := p.Run(context.Background(), models.SearchCriteria{
		Keyword:     "workshop tours",
		ResultLimit: 100,
		Regions:     []string{"US"},
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(rs.Records), 100)
	assert.NotEmpty(t, rs.RunID)
	assert.Equal(t, 0, rs.DegradedChannels)

	for i, rec := range rs.Records {
		assert.Equal(t, i+1, rec.Rank)
		if i > 0 {
			prev := rs.Records[i-1]
			descending := prev.PerformanceRatio > rec.PerformanceRatio ||
				(prev.PerformanceRatio == rec.PerformanceRatio && !prev.PublishedAt.Before(rec.PublishedAt))
			assert.True(t, descending, "row %d out of order", i)
		}
	}
}

func TestRunScenarioBEmptyResult(t *testing.T) {
	api := &fakeAPI{
		searchFn: func(SearchRequest) ([]string, error) { return nil, nil },
	}
	p := newTestPipeline(api)

	rs, err := p.Run(context.Background(), models.SearchCriteria{Keyword: "zvxqj nonsense"})

	require.NoError(t, err, "zero matches is a terminal state, not a failure")
	require.NotNil(t, rs)
	assert.True(t, rs.IsEmpty())
	assert.Empty(t, api.videoChunks, "no detail lookups for an empty id set")
}

func TestRunScenarioCItemLookupFailureAborts(t *testing.T) {
	upstreamErr := &googleapi.Error{Code: 503, Message: "backend unavailable"}
	api := &fakeAPI{
		searchFn: func(SearchRequest) ([]string, error) { return makeIDs(80), nil },
		videoFn: func(ids []string) ([]models.Video, error) {
			if len(ids) > 0 && ids[0] == "id050" {
				return nil, upstreamErr
			}
			return echoVideos(ids)
		},
	}
	p := newTestPipeline(api)

	rs, err := p.Run(context.Background(), models.SearchCriteria{Keyword: "anything", ResultLimit: 100})

	require.Error(t, err)
	assert.Nil(t, rs, "no partial record list is exposed")
	assert.Equal(t, KindUpstreamFailure, KindOf(err))
}

func TestRunScenarioDChannelLookupDegrades(t *testing.T) {
	// 60 videos on 60 channels: the first channel chunk (50 ids) fails, the
	// second resolves. Affected records show zero stats, the rest keep real
	// values in the same result set.
	api := &fakeAPI{
		searchFn: func(SearchRequest) ([]string, error) { return makeIDs(60), nil },
		videoFn:  echoVideos,
		channelFn: func(ids []string) ([]models.ChannelStats, error) {
			for _, id := range ids {
				if id == "ch-id000" {
					return nil, &googleapi.Error{Code: 500}
				}
			}
			return echoChannels(ids)
		},
	}
	p := newTestPipeline(api)

	rs, err := p.Run(context.Background(), models.SearchCriteria{Keyword: "anything", ResultLimit: 100})
	require.NoError(t, err, "channel-chunk failure must not abort the run")
	require.Len(t, rs.Records, 60)
	assert.Equal(t, 50, rs.DegradedChannels)

	degraded, resolved := 0, 0
	for _, rec := range rs.Records {
		if rec.SubscriberCount == 0 {
			degraded++
			assert.Equal(t, 0.0, rec.PerformanceRatio)
		} else {
			resolved++
			assert.Equal(t, int64(1000), rec.SubscriberCount)
			assert.Greater(t, rec.PerformanceRatio, 0.0)
		}
	}
	assert.Equal(t, 50, degraded)
	assert.Equal(t, 10, resolved)
}

func TestRunScenarioESubscriberRangeExcludes(t *testing.T) {
	api := &fakeAPI{
		searchFn: func(SearchRequest) ([]string, error) { return []string{"v1"}, nil },
		videoFn: func(ids []string) ([]models.Video, error) {
			return []models.Video{{ID: "v1", ChannelID: "ch1", ViewCount: 100, PublishedAt: testNow}}, nil
		},
		channelFn: func(ids []string) ([]models.ChannelStats, error) {
			return []models.ChannelStats{{ChannelID: "ch1", SubscriberCount: 500}}, nil
		},
	}
	p := newTestPipeline(api)

	rs, err := p.Run(context.Background(), models.SearchCriteria{
		Keyword:         "anything",
		SubscriberRange: &models.SubscriberRange{Min: 0, Max: 0},
	})

	require.NoError(t, err)
	assert.Empty(t, rs.Records, "a 500-subscriber channel fails the (0,0) range")
}

func TestRunInvalidInputRejectedBeforeAnyCall(t *testing.T) {
	api := &fakeAPI{}
	p := newTestPipeline(api)

	rs, err := p.Run(context.Background(), models.SearchCriteria{Keyword: "   "})

	require.Error(t, err)
	assert.Nil(t, rs)
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.Empty(t, api.searchReqs, "validation happens before any upstream call")
}

func TestRunRegionalSearchFailureAborts(t *testing.T) {
	api := &fakeAPI{
		searchFn: func(req SearchRequest) ([]string, error) {
			if req.Region == "JP" {
				return nil, &googleapi.Error{
					Code:   403,
					Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
				}
			}
			return makeIDs(10), nil
		},
		videoFn: echoVideos,
	}
	p := newTestPipeline(api)

	rs, err := p.Run(context.Background(), models.SearchCriteria{
		Keyword: "anything",
		Regions: []string{"KR", "JP"},
	})

	require.Error(t, err, "a failed regional call must not silently shrink the result")
	assert.Nil(t, rs)
	assert.Equal(t, KindQuotaExceeded, KindOf(err))
}

func TestRunOverlappingRegionsDeduplicate(t *testing.T) {
	// Both regional calls return the same ids; the detail stage must see
	// each id exactly once.
	api := &fakeAPI{
		searchFn:  func(SearchRequest) ([]string, error) { return []string{"a", "b", "c"}, nil },
		videoFn:   echoVideos,
		channelFn: echoChannels,
	}
	p := newTestPipeline(api)

	rs, err := p.Run(context.Background(), models.SearchCriteria{
		Keyword: "anything",
		Regions: []string{"KR", "JP"},
	})
	require.NoError(t, err)

	require.Len(t, api.videoChunks, 1)
	assert.Equal(t, []string{"a", "b", "c"}, api.videoChunks[0])
	assert.Len(t, rs.Records, 3)
}

func TestRunAgeRestrictedExcluded(t *testing.T) {
	api := &fakeAPI{
		searchFn: func(SearchRequest) ([]string, error) { return []string{"v1", "v2"}, nil },
		videoFn: func(ids []string) ([]models.Video, error) {
			return []models.Video{
				{ID: "v1", ChannelID: "ch1", PublishedAt: testNow},
				{ID: "v2", ChannelID: "ch2", PublishedAt: testNow, AgeRestricted: true},
			}, nil
		},
	}
	p := newTestPipeline(api)

	rs, err := p.Run(context.Background(), models.SearchCriteria{
		Keyword:              "anything",
		ExcludeAgeRestricted: true,
	})
	require.NoError(t, err)

	require.Len(t, rs.Records, 1)
	assert.Equal(t, "v1", rs.Records[0].ID)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"401", &googleapi.Error{Code: 401}, KindUnauthenticated},
		{"bad api key", &googleapi.Error{Code: 400, Errors: []googleapi.ErrorItem{{Reason: "keyInvalid"}}}, KindUnauthenticated},
		{"quota", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}, KindQuotaExceeded},
		{"rate limit", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}}, KindQuotaExceeded},
		{"other 403", &googleapi.Error{Code: 403}, KindUnauthenticated},
		{"5xx", &googleapi.Error{Code: 503}, KindUpstreamFailure},
		{"network", errors.New("dial tcp: connection refused"), KindUpstreamFailure},
		{"wrapped", fmt.Errorf("chunk 2: %w", &googleapi.Error{Code: 401}), KindUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := classify("search", tt.err)
			assert.Equal(t, tt.want, perr.Kind)
			assert.Equal(t, "search", perr.Stage)
			assert.ErrorIs(t, perr, tt.err)
		})
	}
}
