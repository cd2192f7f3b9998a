package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSuccess(t *testing.T) {
	var received []expoMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"status":"ok"}]}`))
	}))
	defer server.Close()

	client := NewExpoClient(server.Client(), server.URL)
	err := client.Send(context.Background(), "ExponentPushToken[abc]", "Happy Birthday, Alex! 🎂", "Today is Alex's day!",
		map[string]string{"reminder_id": "r1"})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, "ExponentPushToken[abc]", received[0].To)
	assert.Equal(t, "default", received[0].Sound)
	assert.Equal(t, "r1", received[0].Data["reminder_id"])
}

func TestSendRejectedTicket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"status":"error","message":"DeviceNotRegistered"}]}`))
	}))
	defer server.Close()

	client := NewExpoClient(server.Client(), server.URL)
	err := client.Send(context.Background(), "ExponentPushToken[abc]", "t", "b", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DeviceNotRegistered")
}

func TestSendNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewExpoClient(server.Client(), server.URL)
	err := client.Send(context.Background(), "ExponentPushToken[abc]", "t", "b", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
