package pipeline

import (
	"sort"

	"github.com/hwangga/signal-app/internal/models"
)

// rankRecords orders by performance ratio, breaking ties by recency, and
// assigns gapless 1-based ranks. The sort is stable so exact ties on both
// keys keep insertion order and reruns are reproducible.
func rankRecords(recs []models.EnrichedRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].PerformanceRatio != recs[j].PerformanceRatio {
			return recs[i].PerformanceRatio > recs[j].PerformanceRatio
		}
		return recs[i].PublishedAt.After(recs[j].PublishedAt)
	})
	for i := range recs {
		recs[i].Rank = i + 1
	}
}
