package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/hwangga/signal-app/internal/models"
)

// minPerRegion keeps a region from being starved when many regions share a
// small result limit.
const minPerRegion = 10

// buildSearchRequests turns one criteria into the upstream search calls.
// With no regions there is a single unrestricted call. With N explicit codes
// there are N calls, each asking for clamp(limit/N, 10, 50) items; the empty
// marker alongside explicit codes adds one extra unrestricted call at the
// same per-call limit.
func buildSearchRequests(c models.SearchCriteria, base SearchRequest) []SearchRequest {
	var explicit []string
	unrestricted := false
	for _, region := range c.Regions {
		if region == "" {
			unrestricted = true
			continue
		}
		explicit = append(explicit, region)
	}

	if len(explicit) == 0 {
		req := base
		req.Limit = clampPerCall(c.ResultLimit, 1)
		return []SearchRequest{req}
	}

	per := clampPerCall(c.ResultLimit, len(explicit))
	reqs := make([]SearchRequest, 0, len(explicit)+1)
	for _, region := range explicit {
		req := base
		req.Region = region
		req.Limit = per
		reqs = append(reqs, req)
	}
	if unrestricted {
		req := base
		req.Limit = per
		reqs = append(reqs, req)
	}
	return reqs
}

func clampPerCall(limit, calls int) int64 {
	per := limit / calls
	if per < minPerRegion {
		per = minPerRegion
	}
	if per > MaxIDsPerCall {
		per = MaxIDsPerCall
	}
	return int64(per)
}

// collectIDs fans the criteria out to upstream search calls and returns the
// deduplicated id set in first-seen order, capped at the result limit. Any
// failed call aborts the run: a silently partial fan-out would misrepresent
// the ranking.
func (p *Pipeline) collectIDs(ctx context.Context, c models.SearchCriteria) ([]string, error) {
	after, _ := c.Recency.PublishedAfter(p.now())
	base := SearchRequest{
		Keyword:        c.Keyword,
		DurationClass:  c.VideoDuration(),
		PublishedAfter: after,
	}

	var ids []string
	for _, req := range buildSearchRequests(c, base) {
		got, err := p.api.Search(ctx, req)
		if err != nil {
			region := req.Region
			if region == "" {
				region = "any"
			}
			return nil, classify("search", fmt.Errorf("region %s: %w", region, err))
		}
		ids = append(ids, got...)
	}

	deduped := dedupe(ids)
	if c.ResultLimit > 0 && len(deduped) > c.ResultLimit {
		deduped = deduped[:c.ResultLimit]
	}
	if len(ids) != len(deduped) {
		log.Printf("Search fan-out returned %d ids, %d after dedup", len(ids), len(deduped))
	}
	return deduped, nil
}

// dedupe collapses duplicate ids from overlapping regional searches, keeping
// first-seen order so the soft cap stays deterministic.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
