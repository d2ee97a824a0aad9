package pipeline

import (
	"context"
	"time"

	"github.com/hwangga/signal-app/internal/models"
)

// MaxIDsPerCall is the upstream ceiling on identifiers per lookup call and on
// results per search call.
const MaxIDsPerCall = 50

// SearchRequest is one upstream keyword search. The pipeline always asks for
// single videos ordered by view count; only the fields below vary per call.
type SearchRequest struct {
	Keyword string
	Limit   int64
	// Region is an ISO 3166-1 alpha-2 code, or empty for no restriction.
	Region string
	// DurationClass is "short", "long" or empty for any.
	DurationClass string
	// PublishedAfter is the recency lower bound; the zero value omits it.
	PublishedAfter time.Time
}

// VideoAPI is the upstream surface the pipeline depends on. The production
// implementation lives in internal/youtube; tests substitute fakes. Callers
// must respect MaxIDsPerCall per detail call — chunking is the pipeline's job.
type VideoAPI interface {
	Search(ctx context.Context, req SearchRequest) ([]string, error)
	VideoDetails(ctx context.Context, ids []string) ([]models.Video, error)
	ChannelDetails(ctx context.Context, ids []string) ([]models.ChannelStats, error)
}
