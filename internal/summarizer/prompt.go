package summarizer

import (
	"fmt"
	"strings"

	"finaily/internal/models"
)

var languageNames = map[string]string{
	"ko": "Korean",
	"en": "English",
}

// buildPrompt serializes the article batch into a single instruction block
// demanding JSON-only output with one bullet list per requested language.
func buildPrompt(symbol, companyName string, articles []models.Article, languages []string, maxBullets, excerptChars int) string {
	var sb strings.Builder

	sb.WriteString("You are a financial news analyst.\n\n")
	fmt.Fprintf(&sb, "Below are %d recent news articles about %s (%s).\n\n", len(articles), symbol, companyName)

	sb.WriteString("## Instructions\n")
	fmt.Fprintf(&sb, "1. Synthesize the key insights an investor in %s needs, as bullet points.\n", symbol)
	fmt.Fprintf(&sb, "2. Order bullets by investor relevance. Never exceed %d bullets per language.\n", maxBullets)
	sb.WriteString("3. Merge points repeated across articles; drop duplicates.\n")
	fmt.Fprintf(&sb, "4. Exclude general market commentary not directly about %s.\n", symbol)
	sb.WriteString("5. Produce one overall sentiment score from -1.0 (very negative) to +1.0 (very positive).\n")
	fmt.Fprintf(&sb, "6. Write the bullet text in each of these languages: %s. Keep quotes in the original language.\n\n", describeLanguages(languages))

	sb.WriteString("## Response format (JSON only, no other text)\n{\n  \"summary\": {\n")
	for i, lang := range languages {
		fmt.Fprintf(&sb, "    %q: [\n      {\"point\": \"first bullet\", \"quote\": \"supporting passage from an article\"}\n    ]", lang)
		if i < len(languages)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  },\n  \"sentiment_score\": 0.00,\n  \"sentiment_label\": \"Positive | Neutral | Negative\"\n}\n\n")

	sb.WriteString("## Articles\n")
	for i, a := range articles {
		fmt.Fprintf(&sb, "[Article %d]\nTitle: %s\nSource: %s\nContent: %s\n\n",
			i+1, a.Title, a.Source, trimRunes(a.RawContent, excerptChars))
	}

	return sb.String()
}

func describeLanguages(languages []string) string {
	names := make([]string, 0, len(languages))
	for _, lang := range languages {
		if name, ok := languageNames[lang]; ok {
			names = append(names, fmt.Sprintf("%s (%q)", name, lang))
			continue
		}
		names = append(names, fmt.Sprintf("%q", lang))
	}
	return strings.Join(names, ", ")
}

func trimRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
