package dialogue

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"ms-reminders/internal/models"
)

// Message is a single conversation turn.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Slot identifies which piece of the draft the engine is waiting for.
type Slot int

const (
	SlotNone Slot = iota
	SlotName
	SlotTitle
	SlotDate
	SlotRelationship
	SlotLocation
	SlotAmount
	SlotAttendees
	SlotNote
	SlotEditField
)

// Draft is the in-progress reminder being assembled through dialogue. It is
// transient: the client echoes it back on every turn.
type Draft struct {
	Reminder         models.Reminder `json:"reminder"`
	Awaiting         Slot            `json:"awaiting"`
	Action           Action          `json:"action"`
	OptionalPrompted bool            `json:"optional_prompted"`
	Editing          bool            `json:"editing"`
}

// UserContext carries the resolved caller explicitly into every turn.
type UserContext struct {
	UID       string
	Name      string
	Reminders []models.Reminder
}

// Result is the outcome of one turn. Completed is non-nil exactly once per
// assembled item; the caller persists it and then continues with Next, which
// has already been reset to an empty shell. DeleteTarget is set when the turn
// resolved to a deletion the caller should apply.
type Result struct {
	Reply        string
	Completed    *models.Reminder
	DeleteTarget *models.Reminder
	Listing      []models.Reminder
	Next         Draft
}

// Engine is the slot-filling dialogue state machine.
type Engine struct {
	dates *DateResolver
	now   func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		dates: NewDateResolver(),
		now:   time.Now,
	}
}

var skipPattern = regexp.MustCompile(`(?i)^\s*(skip|no|none|nope|nah|no thanks|nothing)\s*[.!]?\s*$`)

var cancelPattern = regexp.MustCompile(`(?i)\b(never\s?mind|nvm|forget it|cancel)\b`)

// Process evaluates one user turn. Rules are checked highest priority first:
// command detection, type resolution, ordered slot filling, completion,
// fallback. Only the raw latest user message is classified, never the full
// history, except that a date is captured opportunistically whenever one
// appears in the text.
func (e *Engine) Process(history []Message, draft Draft, isEditing bool, user UserContext) Result {
	latest := latestUserMessage(history)
	if strings.TrimSpace(latest) == "" {
		return Result{
			Reply: "I didn't catch that. You can create a reminder, or say things like \"show my reminders\".",
			Next:  draft,
		}
	}

	if draft.Awaiting == SlotEditField {
		return e.processEditTurn(latest, draft, user)
	}

	switch DetectAction(latest) {
	case ActionDelete:
		return e.processDelete(latest, draft, user)
	case ActionEdit:
		return e.processEditCommand(latest, draft, user)
	case ActionList:
		return e.processList(latest, draft, user)
	}

	r := draft.Reminder

	// Unrecognized text defaults to custom so the dialogue always progresses.
	if r.ReminderType == "" {
		rt := DetectEventType(latest)
		if rt == "" {
			rt = models.ReminderTypeCustom
		}
		r.ReminderType = rt
	}

	// Opportunistic date capture, regardless of which slot is awaited.
	if r.EventDate == "" {
		if resolved := e.dates.Resolve(latest); resolved != "" {
			r.EventDate = resolved
		}
	}

	switch draft.Awaiting {
	case SlotNone:
		// First turn for this item; nothing to consume yet.
	case SlotDate:
		if r.EventDate == "" {
			return Result{
				Reply: "Sorry, I couldn't work out that date. Try something like \"03/15\" or \"March 15 2020\".",
				Next:  withReminder(draft, r),
			}
		}
	case SlotNote, SlotAttendees:
		if !skipPattern.MatchString(latest) {
			setSlot(&r, draft.Awaiting, strings.TrimSpace(latest))
		}
		// Any reply to the optional prompt completes the flow.
		return e.complete(r, isEditing)
	default:
		setSlot(&r, draft.Awaiting, strings.TrimSpace(latest))
	}

	for _, slot := range requiredSlots(r.ReminderType) {
		if !slotFilled(&r, slot) {
			next := withReminder(draft, r)
			next.Awaiting = slot
			return Result{Reply: slotPrompt(r.ReminderType, slot), Next: next}
		}
	}

	if !draft.OptionalPrompted {
		opt := optionalSlot(r.ReminderType)
		next := withReminder(draft, r)
		next.Awaiting = opt
		next.OptionalPrompted = true
		return Result{Reply: slotPrompt(r.ReminderType, opt), Next: next}
	}

	return e.complete(r, isEditing)
}

// complete finalizes the draft and resets the next draft to an empty shell.
// Callers must persist Completed before the next Process call.
func (e *Engine) complete(r models.Reminder, isEditing bool) Result {
	now := e.now()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	verb := "set"
	if isEditing {
		verb = "updated"
	}
	reply := fmt.Sprintf("All %s! I'll remind you about %s's %s on %s. 🎉",
		verb, r.DisplayName(), typeLabel(r.ReminderType), r.EventDate)
	if !r.ReminderType.IsPersonEvent() {
		reply = fmt.Sprintf("All %s! I'll remind you about \"%s\" on %s. ✅",
			verb, r.DisplayName(), r.EventDate)
	}

	return Result{
		Reply:     reply,
		Completed: &r,
		Next:      Draft{},
	}
}

func (e *Engine) processDelete(latest string, draft Draft, user UserContext) Result {
	typeHint := DetectEventType(latest)
	query := cleanQuery(latest)

	target := FuzzyFindReminder(user.Reminders, query, typeHint)
	if target == nil {
		return Result{
			Reply: "I couldn't find a reminder matching that. Say \"show my reminders\" to see what you have.",
			Next:  draft,
		}
	}

	return Result{
		Reply:        fmt.Sprintf("Done — I've deleted the %s reminder for %s.", typeLabel(target.ReminderType), target.DisplayName()),
		DeleteTarget: target,
		Next:         draft,
	}
}

func (e *Engine) processEditCommand(latest string, draft Draft, user UserContext) Result {
	typeHint := DetectEventType(latest)
	query := cleanQuery(latest)

	target := FuzzyFindReminder(user.Reminders, query, typeHint)
	if target == nil {
		return Result{
			Reply: "I couldn't find a reminder matching that. Which one would you like to change?",
			Next:  draft,
		}
	}

	next := Draft{
		Reminder:         *target,
		Awaiting:         SlotEditField,
		Action:           ActionEdit,
		OptionalPrompted: true,
		Editing:          true,
	}
	return Result{
		Reply: fmt.Sprintf("Sure — what would you like to change about %s's %s? You can give me a new date, name, or note.",
			target.DisplayName(), typeLabel(target.ReminderType)),
		Next: next,
	}
}

var (
	editNotePattern   = regexp.MustCompile(`(?i)^\s*note[:\s]+(.+)$`)
	editPlacePattern  = regexp.MustCompile(`(?i)^\s*(?:location|place)[:\s]+(.+)$`)
	editAmountPattern = regexp.MustCompile(`(?i)^\s*amount[:\s]+(.+)$`)
)

func (e *Engine) processEditTurn(latest string, draft Draft, user UserContext) Result {
	if cancelPattern.MatchString(latest) {
		return Result{Reply: "Okay, leaving it as it is.", Next: Draft{}}
	}

	r := draft.Reminder

	if resolved := e.dates.Resolve(latest); resolved != "" {
		r.EventDate = resolved
		return e.complete(r, true)
	}
	if m := editNotePattern.FindStringSubmatch(latest); m != nil {
		r.Note = strings.TrimSpace(m[1])
		return e.complete(r, true)
	}
	if m := editPlacePattern.FindStringSubmatch(latest); m != nil {
		r.Location = strings.TrimSpace(m[1])
		return e.complete(r, true)
	}
	if m := editAmountPattern.FindStringSubmatch(latest); m != nil {
		r.Amount = strings.TrimSpace(m[1])
		return e.complete(r, true)
	}

	// Anything else becomes the new display identifier.
	value := strings.TrimSpace(latest)
	if r.ReminderType.IsPersonEvent() {
		r.PersonName = value
	} else {
		r.Title = value
	}
	return e.complete(r, true)
}

func (e *Engine) processList(latest string, draft Draft, user UserContext) Result {
	typeFilter := DetectEventType(latest)
	todayOnly := regexp.MustCompile(`(?i)\btoday\b`).MatchString(latest)
	todayPrefix := e.now().Format("01/02")

	var listing []models.Reminder
	for _, r := range user.Reminders {
		if typeFilter != "" && r.ReminderType != typeFilter {
			continue
		}
		if todayOnly && !strings.HasPrefix(r.EventDate, todayPrefix) {
			continue
		}
		listing = append(listing, r)
	}

	if len(listing) == 0 {
		reply := "You don't have any reminders yet. Tell me about a birthday, bill, or anything else you'd like to remember."
		if typeFilter != "" || todayOnly {
			reply = "Nothing matches that — say \"show my reminders\" to see everything you have."
		}
		return Result{Reply: reply, Next: draft}
	}

	var b strings.Builder
	b.WriteString("Here's what I have:\n")
	for _, r := range listing {
		fmt.Fprintf(&b, "• %s — %s — %s\n", r.DisplayName(), typeLabel(r.ReminderType), r.EventDate)
	}
	return Result{Reply: strings.TrimRight(b.String(), "\n"), Listing: listing, Next: draft}
}

// --- slot plumbing ---

func requiredSlots(rt models.ReminderType) []Slot {
	switch rt {
	case models.ReminderTypeBirthday, models.ReminderTypeAnniversary:
		return []Slot{SlotName, SlotDate, SlotRelationship}
	case models.ReminderTypeMeeting:
		return []Slot{SlotTitle, SlotDate, SlotLocation}
	case models.ReminderTypeBill:
		return []Slot{SlotTitle, SlotDate, SlotAmount}
	default:
		return []Slot{SlotTitle, SlotDate}
	}
}

func optionalSlot(rt models.ReminderType) Slot {
	if rt == models.ReminderTypeMeeting {
		return SlotAttendees
	}
	return SlotNote
}

func slotFilled(r *models.Reminder, slot Slot) bool {
	switch slot {
	case SlotName:
		return r.PersonName != ""
	case SlotTitle:
		return r.Title != ""
	case SlotDate:
		return r.EventDate != ""
	case SlotRelationship:
		return r.Relationship != ""
	case SlotLocation:
		return r.Location != ""
	case SlotAmount:
		return r.Amount != ""
	case SlotAttendees:
		return r.Attendees != ""
	case SlotNote:
		return r.Note != ""
	}
	return true
}

func setSlot(r *models.Reminder, slot Slot, value string) {
	switch slot {
	case SlotName:
		r.PersonName = value
	case SlotTitle:
		r.Title = value
	case SlotDate:
		r.EventDate = value
	case SlotRelationship:
		r.Relationship = value
	case SlotLocation:
		r.Location = value
	case SlotAmount:
		r.Amount = value
	case SlotAttendees:
		r.Attendees = value
	case SlotNote:
		r.Note = value
	}
}

func slotPrompt(rt models.ReminderType, slot Slot) string {
	switch slot {
	case SlotName:
		if rt == models.ReminderTypeAnniversary {
			return "Whose anniversary is it?"
		}
		return "Whose birthday is it?"
	case SlotTitle:
		switch rt {
		case models.ReminderTypeMeeting:
			return "What's the meeting about?"
		case models.ReminderTypeBill:
			return "Which bill is this for?"
		case models.ReminderTypeExam:
			return "Which exam is this for?"
		case models.ReminderTypeTask:
			return "What's the task?"
		}
		return "What should I call this reminder?"
	case SlotDate:
		return "When is it? A date like \"03/15\" or \"March 15 2020\" works."
	case SlotRelationship:
		return "How do you know them? (friend, family, partner...)"
	case SlotLocation:
		return "Where is it happening?"
	case SlotAmount:
		return "How much is due?"
	case SlotAttendees:
		return "Anyone joining you? (or say \"skip\")"
	case SlotNote:
		return "Anything you'd like me to note down? (or say \"skip\")"
	}
	return "Tell me more."
}

func typeLabel(rt models.ReminderType) string {
	if rt == "" {
		return "reminder"
	}
	return string(rt)
}

func withReminder(draft Draft, r models.Reminder) Draft {
	draft.Reminder = r
	return draft
}

func latestUserMessage(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Text
		}
	}
	if len(history) > 0 {
		return history[len(history)-1].Text
	}
	return ""
}

// cleanQuery strips command verbs, type keywords, and filler words so the
// remainder can be fuzzy-matched against display names.
var fillerPattern = regexp.MustCompile(`(?i)\b(delete|remove|forget|erase|cancel|edit|change|update|modify|reschedule|fix|list|show|shw|view|display|see|my|the|a|an|please|reminder(s)?|for|of|about|birthday(s)?|bday(s)?|anniversary|anniversaries|meeting(s)?|exam(s)?|bill(s)?|task(s)?|event(s)?)\b`)

func cleanQuery(text string) string {
	cleaned := fillerPattern.ReplaceAllString(text, " ")
	cleaned = regexp.MustCompile(`\s+`).ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
