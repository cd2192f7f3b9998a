package dialogue

import (
	"strings"

	"ms-reminders/internal/models"
)

// matchThreshold is inclusive on the failing side: a best score of exactly
// 0.5 does not match, so short or unrelated queries fail closed.
const matchThreshold = 0.5

// SimilarityScore computes a multiset-agnostic character-containment ratio
// between a query and a candidate display name. Both strings are lower-cased
// and stripped of whitespace; the score is the count of query characters that
// appear anywhere in the candidate, divided by the longer length. This is
// deliberately cheap and order-insensitive, not an edit distance.
func SimilarityScore(query, candidate string) float64 {
	q := normalize(query)
	c := normalize(candidate)

	matched := 0
	for _, ch := range q {
		if strings.ContainsRune(c, ch) {
			matched++
		}
	}

	denom := len([]rune(q))
	if l := len([]rune(c)); l > denom {
		denom = l
	}
	if denom < 1 {
		denom = 1
	}
	return float64(matched) / float64(denom)
}

// FuzzyFindReminder selects the reminder whose display name best matches the
// query, optionally pre-filtered by type. Returns nil when the best score is
// not strictly greater than the threshold.
func FuzzyFindReminder(reminders []models.Reminder, query string, typeFilter models.ReminderType) *models.Reminder {
	var best *models.Reminder
	bestScore := 0.0

	for i := range reminders {
		if typeFilter != "" && reminders[i].ReminderType != typeFilter {
			continue
		}
		score := SimilarityScore(query, reminders[i].DisplayName())
		if score > bestScore {
			bestScore = score
			best = &reminders[i]
		}
	}

	if best == nil || bestScore <= matchThreshold {
		return nil
	}
	return best
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}
