package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// ExpoClient dispatches notifications through the Expo push HTTP API.
type ExpoClient struct {
	httpClient *http.Client
	endpoint   string
}

func NewExpoClient(httpClient *http.Client, endpoint string) *ExpoClient {
	return &ExpoClient{
		httpClient: httpClient,
		endpoint:   endpoint,
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound"`
	Data  map[string]string `json:"data,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

// Send posts one push message and checks the returned ticket status.
func (c *ExpoClient) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	payload, err := json.Marshal([]expoMessage{{
		To:    token,
		Title: title,
		Body:  body,
		Sound: "default",
		Data:  data,
	}})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Printf("Error closing push response body: %v", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}
	for _, ticket := range parsed.Data {
		if ticket.Status != "ok" {
			return fmt.Errorf("push ticket rejected: %s", ticket.Message)
		}
	}
	return nil
}
