package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ms-reminders/internal/models"
	"ms-reminders/internal/notify"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserStore) UpdateRegenCounter(ctx context.Context, uid string, count int, date string) error {
	args := m.Called(ctx, uid, count, date)
	return args.Error(0)
}

func completionServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + text + `"}}]}`))
	}))
}

func newTestGenerator(server *httptest.Server, store *mockUserStore, now time.Time) *Generator {
	client := NewClient(server.Client(), server.URL, "test-key", "test-model")
	g := NewGenerator(client, store, 5)
	g.now = func() time.Time { return now }
	return g
}

var testReminder = models.Reminder{
	ID:           "r1",
	ReminderType: models.ReminderTypeBirthday,
	PersonName:   "Alex",
	EventDate:    "03/03/2000",
	Relationship: "friend",
}

func TestGenerateMessageSuccess(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	server := completionServer(t, "Alex's birthday is today, make it special!")
	defer server.Close()

	store := new(mockUserStore)
	store.On("GetUser", mock.Anything, "u1").
		Return(&models.User{UID: "u1", RegenCount: 2, RegenDate: "06/15/2024"}, nil)
	store.On("UpdateRegenCounter", mock.Anything, "u1", 3, "06/15/2024").Return(nil).Once()

	g := newTestGenerator(server, store, now)
	got := g.GenerateMessage(context.Background(), "u1", testReminder, notify.LabelMidnight)

	assert.Equal(t, "Alex's birthday is today, make it special!", got)
	store.AssertExpectations(t)
}

func TestGenerateMessageCounterResetsOnNewDay(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	server := completionServer(t, "Fresh day, fresh message.")
	defer server.Close()

	// Yesterday's count is at the cap, but it no longer applies.
	store := new(mockUserStore)
	store.On("GetUser", mock.Anything, "u1").
		Return(&models.User{UID: "u1", RegenCount: 5, RegenDate: "06/14/2024"}, nil)
	store.On("UpdateRegenCounter", mock.Anything, "u1", 1, "06/15/2024").Return(nil).Once()

	g := newTestGenerator(server, store, now)
	got := g.GenerateMessage(context.Background(), "u1", testReminder, notify.LabelOneDay)

	assert.Equal(t, "Fresh day, fresh message.", got)
	store.AssertExpectations(t)
}

func TestGenerateMessageLimitReached(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	server := completionServer(t, "should never be requested")
	defer server.Close()

	store := new(mockUserStore)
	store.On("GetUser", mock.Anything, "u1").
		Return(&models.User{UID: "u1", RegenCount: 5, RegenDate: "06/15/2024"}, nil)

	g := newTestGenerator(server, store, now)
	got := g.GenerateMessage(context.Background(), "u1", testReminder, notify.LabelMidnight)

	assert.Equal(t, LimitReachedMessage, got)
	store.AssertNotCalled(t, "UpdateRegenCounter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateMessageFallsBackOnAPIError(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	store := new(mockUserStore)
	store.On("GetUser", mock.Anything, "u1").
		Return(&models.User{UID: "u1", RegenCount: 0, RegenDate: ""}, nil)

	g := newTestGenerator(server, store, now)
	got := g.GenerateMessage(context.Background(), "u1", testReminder, notify.LabelMidnight)

	// Template fallback, never the limit message, and the counter is not
	// charged for a failed generation.
	variants := []string{
		"Today is Alex's day! Make it count.",
		"The day is here — it's Alex's day today!",
		"It's officially Alex's day. Don't let it slip by!",
	}
	assert.Contains(t, variants, got)
	store.AssertNotCalled(t, "UpdateRegenCounter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateMessageFallsBackOnMissingUser(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	server := completionServer(t, "should never be requested")
	defer server.Close()

	store := new(mockUserStore)
	store.On("GetUser", mock.Anything, "u1").Return((*models.User)(nil), nil)

	g := newTestGenerator(server, store, now)
	got := g.GenerateMessage(context.Background(), "u1", testReminder, notify.LabelOneHour)

	variants := []string{
		"One hour to go for Alex's day!",
		"Alex's day is almost here — just an hour left.",
		"Final reminder: Alex's day begins in an hour.",
	}
	assert.Contains(t, variants, got)
}
