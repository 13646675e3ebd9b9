package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finaily/internal/models"
)

type rawDigest struct {
	Summary        map[string][]rawPoint `json:"summary"`
	SentimentScore *float64              `json:"sentiment_score"`
	SentimentLabel string                `json:"sentiment_label"`
}

type rawPoint struct {
	Point string `json:"point"`
	Quote string `json:"quote"`
}

var (
	scoreMin = decimal.NewFromInt(-1)
	scoreMax = decimal.NewFromInt(1)
)

// parseDigest validates free-text model output into a Result. The backend is
// untrusted input: structure, field types, and numeric ranges are all checked,
// and anything that fails is rejected rather than repaired — with one
// exception, the label, which is recomputed from the score when the two
// disagree.
func parseDigest(raw string, languages []string, maxBullets int) (*Result, error) {
	cleaned := stripFences(raw)

	var parsed rawDigest
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}

	if parsed.SentimentScore == nil {
		return nil, fmt.Errorf("%w: missing sentiment_score", ErrBadFormat)
	}
	score := decimal.NewFromFloat(*parsed.SentimentScore).Round(2)
	if score.LessThan(scoreMin) || score.GreaterThan(scoreMax) {
		// An out-of-range score hints the model misunderstood the scale;
		// clamping would cache a misleading number.
		return nil, fmt.Errorf("%w: sentiment_score %s out of range", ErrBadFormat, score)
	}

	label := models.SentimentLabelForScore(score)

	summaries := make(map[string][]models.SummaryPoint, len(languages))
	for _, lang := range languages {
		bullets := parsed.Summary[lang]
		points := make([]models.SummaryPoint, 0, len(bullets))
		for _, b := range bullets {
			if strings.TrimSpace(b.Point) == "" {
				continue
			}
			points = append(points, models.SummaryPoint{Point: b.Point, Quote: b.Quote})
			if len(points) >= maxBullets {
				break
			}
		}
		if len(points) == 0 {
			return nil, fmt.Errorf("%w: empty summary for language %q", ErrBadFormat, lang)
		}
		summaries[lang] = points
	}

	return &Result{
		Summaries:      summaries,
		SentimentScore: score,
		SentimentLabel: label,
	}, nil
}

// stripFences removes code-fence markup and any prose the model wrapped
// around its JSON object.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
