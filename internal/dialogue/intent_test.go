package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ms-reminders/internal/models"
)

func TestDetectEventType(t *testing.T) {
	tests := []struct {
		text     string
		expected models.ReminderType
	}{
		{"my mom's birthday is coming up", models.ReminderTypeBirthday},
		{"shw my bdays", models.ReminderTypeBirthday},
		{"Birth day of my friend", models.ReminderTypeBirthday},
		{"our wedding anniversary", models.ReminderTypeAnniversary},
		{"team meeting on friday", models.ReminderTypeMeeting},
		{"dentist appointment", models.ReminderTypeMeeting},
		{"biology exam next week", models.ReminderTypeExam},
		{"electricity bill", models.ReminderTypeBill},
		{"rent payment", models.ReminderTypeBill},
		{"finish the task", models.ReminderTypeTask},
		{"water the plants", models.ReminderType("")},
		{"", models.ReminderType("")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DetectEventType(tt.text), "text: %q", tt.text)
	}
}

func TestDetectEventTypePriorityOrder(t *testing.T) {
	// Birthday outranks meeting when both keywords appear.
	assert.Equal(t, models.ReminderTypeBirthday, DetectEventType("meeting about the birthday party"))
	// Anniversary outranks bill.
	assert.Equal(t, models.ReminderTypeAnniversary, DetectEventType("pay the bill for the anniversary dinner"))
}

func TestDetectAction(t *testing.T) {
	assert.Equal(t, ActionDelete, DetectAction("delete Alex's birthday"))
	assert.Equal(t, ActionDelete, DetectAction("please remove that reminder"))
	assert.Equal(t, ActionEdit, DetectAction("change the date for mom"))
	assert.Equal(t, ActionEdit, DetectAction("update my rent bill"))
	assert.Equal(t, ActionList, DetectAction("show my reminders"))
	assert.Equal(t, ActionList, DetectAction("shw my bdays"))
	assert.Equal(t, ActionList, DetectAction("list everything"))
	assert.Equal(t, ActionUnknown, DetectAction("Alex"))
	assert.Equal(t, ActionUnknown, DetectAction("friend"))
	assert.Equal(t, ActionUnknown, DetectAction("March 3 2000"))
}

func TestDeleteWinsOverEdit(t *testing.T) {
	assert.Equal(t, ActionDelete, DetectAction("remove and update the reminder"))
}
