package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-reminders/internal/models"
)

func TestSimilarityScore(t *testing.T) {
	// Exact match scores 1.
	assert.Equal(t, 1.0, SimilarityScore("Alex", "alex"))
	// Whitespace is stripped before scoring.
	assert.Equal(t, 1.0, SimilarityScore("  a l e x  ", "Alex"))
	// Disjoint strings score 0.
	assert.Equal(t, 0.0, SimilarityScore("zzz", "alex"))
	// Empty inputs don't divide by zero.
	assert.Equal(t, 0.0, SimilarityScore("", ""))
}

func TestSimilarityScoreMonotonic(t *testing.T) {
	candidate := "Alexandra"
	prev := 0.0
	query := ""
	for _, ch := range "alexandra" {
		query += string(ch)
		score := SimilarityScore(query, candidate)
		assert.GreaterOrEqual(t, score, prev, "score dropped at query %q", query)
		prev = score
	}
	assert.Equal(t, 1.0, prev)
}

func TestFuzzyFindReminder(t *testing.T) {
	reminders := []models.Reminder{
		{ID: "1", ReminderType: models.ReminderTypeBirthday, PersonName: "Alex"},
		{ID: "2", ReminderType: models.ReminderTypeBirthday, PersonName: "Maria"},
		{ID: "3", ReminderType: models.ReminderTypeBill, Title: "Electric bill"},
	}

	found := FuzzyFindReminder(reminders, "alex", "")
	require.NotNil(t, found)
	assert.Equal(t, "1", found.ID)

	// Typos still land on the right record.
	found = FuzzyFindReminder(reminders, "mariaa", "")
	require.NotNil(t, found)
	assert.Equal(t, "2", found.ID)

	// Type filter excludes other types even when names would match.
	assert.Nil(t, FuzzyFindReminder(reminders, "alex", models.ReminderTypeBill))

	// Unrelated queries fail closed.
	assert.Nil(t, FuzzyFindReminder(reminders, "zzz", ""))
	assert.Nil(t, FuzzyFindReminder(nil, "alex", ""))
}

func TestFuzzyFindReminderThresholdInclusive(t *testing.T) {
	// "ab" against "abcd" scores exactly 0.5, which must not match.
	reminders := []models.Reminder{
		{ID: "1", ReminderType: models.ReminderTypeCustom, Title: "abcd"},
	}
	assert.Nil(t, FuzzyFindReminder(reminders, "ab", ""))
}
