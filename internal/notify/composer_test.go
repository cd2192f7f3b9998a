package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-reminders/internal/models"
)

func bodyVariants(table map[string][3]string, label, name string) []string {
	variants := table[label]
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		out = append(out, fmt.Sprintf(v, name))
	}
	return out
}

func TestComposeMidnightTitle(t *testing.T) {
	r := models.Reminder{ReminderType: models.ReminderTypeBirthday, PersonName: "Alex"}

	n := Compose(r, LabelMidnight)
	assert.Equal(t, "Happy Birthday, Alex! 🎂", n.Title)
	assert.Contains(t, bodyVariants(generalTemplates, LabelMidnight, "Alex"), n.Body)
}

func TestComposeLeadTitle(t *testing.T) {
	r := models.Reminder{ReminderType: models.ReminderTypeBirthday, PersonName: "Alex"}

	for _, label := range []string{LabelOneWeek, LabelOneDay, LabelSixHours, LabelOneHour} {
		n := Compose(r, label)
		assert.Equal(t, "Alex's Birthday Reminder 🎂", n.Title, "label %s", label)
		assert.Contains(t, bodyVariants(generalTemplates, label, "Alex"), n.Body, "label %s", label)
	}
}

func TestComposeAnniversaryTable(t *testing.T) {
	r := models.Reminder{ReminderType: models.ReminderTypeAnniversary, PersonName: "Sam and Pat"}

	n := Compose(r, LabelOneDay)
	assert.Equal(t, "Sam and Pat's Anniversary Reminder 💍", n.Title)
	assert.Contains(t, bodyVariants(anniversaryTemplates, LabelOneDay, "Sam and Pat"), n.Body)
	assert.NotContains(t, bodyVariants(generalTemplates, LabelOneDay, "Sam and Pat"), n.Body)
}

func TestComposeUnknownLabelFallsBackToMidnightBodies(t *testing.T) {
	r := models.Reminder{ReminderType: models.ReminderTypeBill, Title: "Rent"}

	n := Compose(r, "42 minutes")
	// Only the template set falls back; the title keeps the lead form.
	assert.Equal(t, "Rent's Bill Reminder 💸", n.Title)
	assert.Contains(t, bodyVariants(generalTemplates, LabelMidnight, "Rent"), n.Body)
}

func TestComposeEmojiFallback(t *testing.T) {
	r := models.Reminder{ReminderType: models.ReminderTypeCustom, Title: "Water plants"}

	n := Compose(r, LabelOneHour)
	assert.Contains(t, n.Title, "🔔")
}

func TestComposeRandomVariantStaysInSet(t *testing.T) {
	r := models.Reminder{ReminderType: models.ReminderTypeTask, Title: "Renew passport"}
	want := bodyVariants(generalTemplates, LabelOneWeek, "Renew passport")

	for i := 0; i < 50; i++ {
		n := Compose(r, LabelOneWeek)
		require.Contains(t, want, n.Body)
	}
}
