package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/hwangga/signal-app/internal/models"
)

// chunkIDs partitions ids into consecutive groups of at most size. The union
// of the chunks is exactly the input, in order.
func chunkIDs(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// resolveVideos looks up full statistics for every id. A failed chunk aborts
// the whole run; returning the surviving chunks would silently drop items
// from the ranking.
func (p *Pipeline) resolveVideos(ctx context.Context, ids []string) ([]models.Video, error) {
	videos := make([]models.Video, 0, len(ids))
	for _, chunk := range chunkIDs(ids, MaxIDsPerCall) {
		got, err := p.api.VideoDetails(ctx, chunk)
		if err != nil {
			return nil, classify("video_details", fmt.Errorf("chunk of %d ids: %w", len(chunk), err))
		}
		videos = append(videos, got...)
	}
	return videos, nil
}

// resolveChannels builds the channel_id -> stats map for every channel the
// videos reference. Unlike item lookup, a failed chunk degrades gracefully:
// its channels keep zero-valued stats, which only dents a derived ratio.
// The second return is the number of referenced channels left unresolved.
func (p *Pipeline) resolveChannels(ctx context.Context, videos []models.Video) (map[string]models.ChannelStats, int) {
	channelIDs := distinctChannelIDs(videos)
	stats := make(map[string]models.ChannelStats, len(channelIDs))

	for _, chunk := range chunkIDs(channelIDs, MaxIDsPerCall) {
		got, err := p.api.ChannelDetails(ctx, chunk)
		if err != nil {
			log.Printf("Warning: channel stats lookup failed for %d channels, defaulting to zero: %v", len(chunk), err)
			continue
		}
		for _, ch := range got {
			stats[ch.ChannelID] = ch
		}
	}

	return stats, len(channelIDs) - len(stats)
}

func distinctChannelIDs(videos []models.Video) []string {
	seen := make(map[string]struct{}, len(videos))
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		if v.ChannelID == "" {
			continue
		}
		if _, ok := seen[v.ChannelID]; ok {
			continue
		}
		seen[v.ChannelID] = struct{}{}
		ids = append(ids, v.ChannelID)
	}
	return ids
}
