package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"ms-reminders/internal/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListUsersWithPushTokens(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockStore) ListRemindersForUser(ctx context.Context, uid string) ([]models.Reminder, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).([]models.Reminder), args.Error(1)
}

func (m *mockStore) RollForwardEventDate(ctx context.Context, id, newDate string) error {
	args := m.Called(ctx, id, newDate)
	return args.Error(0)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	args := m.Called(ctx, token, title, body, data)
	return args.Error(0)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, msg models.DispatchMessageBody) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) Publish(ctx context.Context, record models.DeliveryRecord) {
	m.Called(ctx, record)
}

var testUser = models.User{UID: "u1", PushToken: "ExponentPushToken[abc]"}

func TestRunTickSendsDueInstantExactlyOnce(t *testing.T) {
	now := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.Local)
	reminder := models.Reminder{
		ID:           "r1",
		UserID:       "u1",
		ReminderType: models.ReminderTypeBirthday,
		PersonName:   "Alex",
		EventDate:    "03/03/2000",
	}

	store := new(mockStore)
	store.On("ListUsersWithPushTokens", mock.Anything).Return([]models.User{testUser}, nil)
	store.On("ListRemindersForUser", mock.Anything, "u1").Return([]models.Reminder{reminder}, nil)

	dispatcher := new(mockDispatcher)
	dispatcher.On("Send", mock.Anything, testUser.PushToken, mock.Anything, mock.Anything,
		map[string]string{"reminder_id": "r1", "lead_label": "midnight"}).Return(nil).Once()

	r := NewRunner(store, dispatcher, nil, nil, 5*time.Minute)
	r.runTick(context.Background(), now)

	store.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
	dispatcher.AssertNumberOfCalls(t, "Send", 1)
}

func TestRunTickNothingDue(t *testing.T) {
	// Noon is hours away from every instant of a same-day event.
	now := time.Date(2024, time.March, 3, 12, 0, 0, 0, time.Local)
	reminder := models.Reminder{ID: "r1", ReminderType: models.ReminderTypeBirthday, PersonName: "Alex", EventDate: "03/03/2000"}

	store := new(mockStore)
	store.On("ListUsersWithPushTokens", mock.Anything).Return([]models.User{testUser}, nil)
	store.On("ListRemindersForUser", mock.Anything, "u1").Return([]models.Reminder{reminder}, nil)

	dispatcher := new(mockDispatcher)

	r := NewRunner(store, dispatcher, nil, nil, 5*time.Minute)
	r.runTick(context.Background(), now)

	dispatcher.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunTickRollsForwardStaleTaskOnly(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	stale := models.Reminder{ID: "t1", ReminderType: models.ReminderTypeTask, Title: "Renew passport", EventDate: "01/01/2024"}
	birthday := models.Reminder{ID: "b1", ReminderType: models.ReminderTypeBirthday, PersonName: "Alex", EventDate: "03/03/2000"}

	store := new(mockStore)
	store.On("ListUsersWithPushTokens", mock.Anything).Return([]models.User{testUser}, nil)
	store.On("ListRemindersForUser", mock.Anything, "u1").Return([]models.Reminder{stale, birthday}, nil)
	store.On("RollForwardEventDate", mock.Anything, "t1", "01/01/2025").Return(nil).Once()

	dispatcher := new(mockDispatcher)

	r := NewRunner(store, dispatcher, nil, nil, 5*time.Minute)
	r.runTick(context.Background(), now)

	store.AssertExpectations(t)
	// The birthday keeps its stored year for age display.
	store.AssertNotCalled(t, "RollForwardEventDate", mock.Anything, "b1", mock.Anything)
}

func TestRunTickPrefersEnqueuer(t *testing.T) {
	now := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.Local)
	reminder := models.Reminder{ID: "r1", ReminderType: models.ReminderTypeBirthday, PersonName: "Alex", EventDate: "03/03/2000"}

	store := new(mockStore)
	store.On("ListUsersWithPushTokens", mock.Anything).Return([]models.User{testUser}, nil)
	store.On("ListRemindersForUser", mock.Anything, "u1").Return([]models.Reminder{reminder}, nil)

	dispatcher := new(mockDispatcher)
	enqueuer := new(mockEnqueuer)
	enqueuer.On("Enqueue", mock.Anything, mock.MatchedBy(func(msg models.DispatchMessageBody) bool {
		return msg.ReminderID == "r1" && msg.LeadLabel == "midnight" && msg.PushToken == testUser.PushToken
	})).Return(nil).Once()

	r := NewRunner(store, dispatcher, enqueuer, nil, 5*time.Minute)
	r.runTick(context.Background(), now)

	enqueuer.AssertExpectations(t)
	dispatcher.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunTickAuditsFailedSend(t *testing.T) {
	now := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.Local)
	reminder := models.Reminder{ID: "r1", ReminderType: models.ReminderTypeBirthday, PersonName: "Alex", EventDate: "03/03/2000"}

	store := new(mockStore)
	store.On("ListUsersWithPushTokens", mock.Anything).Return([]models.User{testUser}, nil)
	store.On("ListRemindersForUser", mock.Anything, "u1").Return([]models.Reminder{reminder}, nil)

	dispatcher := new(mockDispatcher)
	dispatcher.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("expo unreachable")).Once()

	auditor := new(mockAuditor)
	auditor.On("Publish", mock.Anything, mock.MatchedBy(func(rec models.DeliveryRecord) bool {
		return rec.ReminderID == "r1" && rec.Status == "failed" && rec.Error == "expo unreachable"
	})).Once()

	r := NewRunner(store, dispatcher, nil, auditor, 5*time.Minute)
	r.runTick(context.Background(), now)

	dispatcher.AssertExpectations(t)
	auditor.AssertExpectations(t)
}

func TestRunTickSkipsUserOnReminderError(t *testing.T) {
	now := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.Local)
	other := models.User{UID: "u2", PushToken: "ExponentPushToken[def]"}
	reminder := models.Reminder{ID: "r2", ReminderType: models.ReminderTypeBirthday, PersonName: "Maria", EventDate: "03/03/1995"}

	store := new(mockStore)
	store.On("ListUsersWithPushTokens", mock.Anything).Return([]models.User{testUser, other}, nil)
	store.On("ListRemindersForUser", mock.Anything, "u1").Return([]models.Reminder(nil), errors.New("db down"))
	store.On("ListRemindersForUser", mock.Anything, "u2").Return([]models.Reminder{reminder}, nil)

	dispatcher := new(mockDispatcher)
	dispatcher.On("Send", mock.Anything, other.PushToken, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	r := NewRunner(store, dispatcher, nil, nil, 5*time.Minute)
	r.runTick(context.Background(), now)

	store.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}
