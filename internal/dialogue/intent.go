package dialogue

import (
	"regexp"

	"ms-reminders/internal/models"
)

// Action is the command a user turn resolved to.
type Action int

const (
	ActionCreate Action = iota
	ActionEdit
	ActionDelete
	ActionList
	ActionUnknown
)

// typePatterns are checked in a fixed priority order; first match wins.
var typePriority = []models.ReminderType{
	models.ReminderTypeBirthday,
	models.ReminderTypeAnniversary,
	models.ReminderTypeMeeting,
	models.ReminderTypeExam,
	models.ReminderTypeBill,
	models.ReminderTypeTask,
}

var typePatterns = map[models.ReminderType]*regexp.Regexp{
	models.ReminderTypeBirthday:    regexp.MustCompile(`(?i)birth\s?day|bday|🎂|🎈`),
	models.ReminderTypeAnniversary: regexp.MustCompile(`(?i)anniversary|anniv\b|wedding|💍|❤️`),
	models.ReminderTypeMeeting:     regexp.MustCompile(`(?i)meeting|appointment|interview|standup|sync\b|📅`),
	models.ReminderTypeExam:        regexp.MustCompile(`(?i)exam|quiz|midterm|final\b|\btest\b|📝`),
	models.ReminderTypeBill:        regexp.MustCompile(`(?i)\bbill\b|payment|invoice|rent\b|subscription|💸|💳`),
	models.ReminderTypeTask:        regexp.MustCompile(`(?i)\btask\b|todo|to-do|deadline|chore|✅`),
}

var (
	deletePattern = regexp.MustCompile(`(?i)\b(delete|remove|forget|erase)\b|get rid of|cancel the`)
	editPattern   = regexp.MustCompile(`(?i)\b(edit|change|update|modify|reschedule|fix)\b`)
	listPattern   = regexp.MustCompile(`(?i)\b(list|show|shw|view|display|see|upcoming)\b|\bmy\b.*\b(reminder|bday|birthday|event|anniversar)`)
)

// DetectEventType maps free text to a reminder type using case-insensitive
// keyword/emoji alternations. Returns "" when nothing matches; callers
// default to custom.
func DetectEventType(text string) models.ReminderType {
	for _, rt := range typePriority {
		if typePatterns[rt].MatchString(text) {
			return rt
		}
	}
	return ""
}

// DetectAction classifies the latest user message into a command. Deletion
// wins over edit, edit over list, so "remove" inside an edit phrase is
// treated as a delete.
func DetectAction(text string) Action {
	switch {
	case deletePattern.MatchString(text):
		return ActionDelete
	case editPattern.MatchString(text):
		return ActionEdit
	case listPattern.MatchString(text):
		return ActionList
	}
	return ActionUnknown
}
