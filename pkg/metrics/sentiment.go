package metrics

import "strings"

// Sentiment is the three-way bucketing applied to free-text feedback.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Keyword sets for the bag-of-words heuristic. This classification is
// intentionally coarse: dashboard consumers expect exactly this three-way
// bucketing, so the keyword scan must not be upgraded to anything smarter.
var (
	positiveKeywords = []string{
		"good", "great", "excellent", "satisfied", "improved", "on time",
		"smooth", "resolved", "thank",
	}
	negativeKeywords = []string{
		"bad", "poor", "late", "delay", "missing", "damaged", "defect",
		"complaint", "fail", "reject", "wrong", "broken",
	}
)

// ClassifySentiment scans lower-cased feedback text for the fixed keyword
// sets. Text matching only positive words is positive, only negative words is
// negative, and both or neither is neutral.
func ClassifySentiment(text string) Sentiment {
	lower := strings.ToLower(text)

	hasPositive := containsAny(lower, positiveKeywords)
	hasNegative := containsAny(lower, negativeKeywords)

	switch {
	case hasPositive && !hasNegative:
		return SentimentPositive
	case hasNegative && !hasPositive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
