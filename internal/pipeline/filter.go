package pipeline

import "github.com/hwangga/signal-app/internal/models"

// dropAgeRestricted removes items flagged by upstream content-rating
// metadata. Runs before enrichment: it is a hard exclusion unrelated to
// ranking.
func dropAgeRestricted(videos []models.Video) []models.Video {
	kept := videos[:0]
	for _, v := range videos {
		if v.AgeRestricted {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// matchesFilters applies the numeric and categorical criteria to one
// enriched record. Filtering never fails, it only shrinks the set.
func matchesFilters(c models.SearchCriteria, rec models.EnrichedRecord) bool {
	if r := c.SubscriberRange; r != nil && !r.Contains(rec.SubscriberCount) {
		return false
	}
	return c.MatchesGrade(rec.Grade)
}
