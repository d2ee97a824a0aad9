// Package pipeline turns one search criteria into a ranked list of enriched
// video records: keyword search fan-out, id dedup, batched detail and channel
// stats resolution, metric derivation, grading, filtering and a final stable
// sort. Stages run sequentially; each external call is a plain
// request/response against the upstream API.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hwangga/signal-app/internal/models"
)

type Pipeline struct {
	api VideoAPI
	now func() time.Time
}

func New(api VideoAPI) *Pipeline {
	return &Pipeline{api: api, now: time.Now}
}

// Run executes the whole pipeline for one criteria. On success the returned
// result set is complete and ranked; zero matching videos is a valid outcome
// (IsEmpty), not an error. Failures during search or item resolution abort
// the run with a classified *Error; channel stats failures degrade to zeros
// instead (see resolveChannels).
func (p *Pipeline) Run(ctx context.Context, criteria models.SearchCriteria) (*models.ResultSet, error) {
	criteria.Normalize()
	if err := criteria.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	start := p.now()
	log.Printf("Running search for %q (limit %d, %d regions)", criteria.Keyword, criteria.ResultLimit, len(criteria.Regions))

	ids, err := p.collectIDs(ctx, criteria)
	if err != nil {
		return nil, err
	}

	rs := &models.ResultSet{
		RunID:       uuid.NewString(),
		Criteria:    criteria,
		GeneratedAt: start,
	}

	if len(ids) == 0 {
		log.Printf("No matching content for %q", criteria.Keyword)
		return rs, nil
	}

	videos, err := p.resolveVideos(ctx, ids)
	if err != nil {
		return nil, err
	}
	if criteria.ExcludeAgeRestricted {
		videos = dropAgeRestricted(videos)
	}

	stats, degraded := p.resolveChannels(ctx, videos)
	rs.DegradedChannels = degraded

	now := p.now()
	records := make([]models.EnrichedRecord, 0, len(videos))
	for _, v := range videos {
		rec := enrich(v, stats[v.ChannelID], now)
		if matchesFilters(criteria, rec) {
			records = append(records, rec)
		}
	}

	rankRecords(records)
	rs.Records = records

	log.Printf("Run complete: %s", rs.Summary())
	return rs, nil
}
