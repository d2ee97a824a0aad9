// Package insights produces a short Gemini-written narrative for the current
// result set, surfaced next to the ranked table.
package insights

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hwangga/signal-app/internal/config"
	"github.com/hwangga/signal-app/internal/models"
)

// summaryRows caps how many ranked rows go into the prompt.
const summaryRows = 10

type Analyzer struct {
	client *genai.Client
	model  string
}

func NewAnalyzer(cfg *config.AIConfig) (*Analyzer, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Analyzer{client: client, model: cfg.Model}, nil
}

// Summarize asks the model for a short read on the top-ranked videos: which
// channels are overperforming their size and why the grades look the way
// they do.
func (a *Analyzer) Summarize(ctx context.Context, rs *models.ResultSet) (string, error) {
	if rs == nil || rs.IsEmpty() {
		return "", fmt.Errorf("no result set to summarize")
	}

	prompt := buildSummaryPrompt(rs)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to summarize result set %s: %w", rs.RunID, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty summary response for result set %s", rs.RunID)
	}
	return text, nil
}

func buildSummaryPrompt(rs *models.ResultSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an analyst for a YouTube performance dashboard. The table below is the
top of a ranked search for the keyword %q. Performance is view count as a
percentage of channel subscribers; velocity is views per day since publication.

`, rs.Criteria.Keyword)

	rows := rs.Records
	if len(rows) > summaryRows {
		rows = rows[:summaryRows]
	}
	for _, rec := range rows {
		fmt.Fprintf(&b, "#%d %q by %s — %d views, %d subscribers, performance %.0f%%, grade %s, velocity %.0f views/day, published %s\n",
			rec.Rank, rec.Title, rec.ChannelName, rec.ViewCount, rec.SubscriberCount,
			rec.PerformanceRatio, rec.GradeLabel, rec.DailyVelocity, rec.PublishedDate)
	}

	b.WriteString(`
In 3-5 sentences, describe what stands out: which small channels are punching
above their weight, any pattern in publish dates or video style, and whether
the surging grades look durable or like one-off spikes. Plain prose, no lists.`)

	return b.String()
}
