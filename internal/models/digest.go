package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// Sentiment label thresholds. Scores at or above the positive threshold map to
// Positive, at or below the negative threshold to Negative, everything between
// to Neutral. The label column is derived from the score and must never
// disagree with it.
var (
	SentimentThresholdPositive = decimal.NewFromFloat(0.2)
	SentimentThresholdNegative = decimal.NewFromFloat(-0.2)
)

// SummaryPoint is one digest bullet with the source passage backing it.
type SummaryPoint struct {
	Point string `json:"point"`
	Quote string `json:"quote"`
}

// Digest is one AI-generated combined summary over a batch of articles for one
// ticker. Rows are append-only; older rows stay as history and freshness is
// resolved at read time by "most recent wins".
type Digest struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TickerID uint64 `gorm:"not null;index" json:"ticker_id"`

	// ArticleIDs is the ordered list of article row IDs the digest covers.
	ArticleIDs datatypes.JSON `gorm:"type:jsonb;not null" json:"article_ids"`

	// Summaries maps language code to its bullet list, e.g. {"ko": [...], "en": [...]}.
	// One generative call produces all languages, so cache freshness is
	// language-independent.
	Summaries datatypes.JSON `gorm:"type:jsonb;not null" json:"summaries"`

	SentimentScore decimal.Decimal `gorm:"type:numeric(3,2);not null" json:"sentiment_score"`
	SentimentLabel string          `gorm:"type:varchar(10);not null" json:"sentiment_label"`

	ModelVersion string `gorm:"type:varchar(100);not null" json:"model_version"`
	ArticleCount int    `gorm:"not null" json:"article_count"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (Digest) TableName() string {
	return "digests"
}

// SentimentLabelForScore buckets a score into its label. The mapping is
// monotonic in the score.
func SentimentLabelForScore(score decimal.Decimal) string {
	switch {
	case score.GreaterThanOrEqual(SentimentThresholdPositive):
		return SentimentPositive
	case score.LessThanOrEqual(SentimentThresholdNegative):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
