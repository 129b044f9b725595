// Package calendar publishes validated event records to the external
// calendar store's REST API.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AIworks24/calendar-agent/internal/domain"
)

// Client implements domain.EventPublisher. Failures never surface as errors:
// every call returns a PublishResult the channel reply can render.
type Client struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a calendar store client. endpoint is the full URL of the
// event creation resource; credentials go out as HTTP basic auth.
func NewClient(endpoint, username, password string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	AllDay      bool   `json:"all_day"`
	Venue       venue  `json:"venue"`
	Status      string `json:"status"`
}

type venue struct {
	Venue string `json:"venue"`
}

type createEventResponse struct {
	ID  json.Number `json:"id"`
	URL string      `json:"url"`
}

type storeError struct {
	Message string `json:"message"`
}

// Publish writes the record to the calendar store. The store wants combined
// "YYYY-MM-DD HH:MM:SS" datetimes and a venue object; events go live
// immediately via status "publish".
func (c *Client) Publish(ctx context.Context, record *domain.EventRecord) domain.PublishResult {
	body, err := json.Marshal(createEventRequest{
		Title:       record.Title,
		Description: record.Description,
		StartDate:   combine(record.StartDate, record.StartTime),
		EndDate:     combine(record.EndDate, record.EndTime),
		AllDay:      record.AllDay,
		Venue:       venue{Venue: venueName(record.Location)},
		Status:      "publish",
	})
	if err != nil {
		return domain.PublishResult{Success: false, ErrorMessage: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.PublishResult{Success: false, ErrorMessage: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("calendar store unreachable", "error", err)
		return domain.PublishResult{Success: false, ErrorMessage: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.logger.Warn("calendar store response unreadable", "error", err)
		return domain.PublishResult{Success: false, ErrorMessage: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := storeMessage(respBody, resp.StatusCode)
		c.logger.Warn("calendar store rejected event", "status", resp.StatusCode, "message", msg, "title", record.Title)
		return domain.PublishResult{Success: false, ErrorMessage: msg}
	}

	var created createEventResponse
	if err := json.Unmarshal(respBody, &created); err != nil || created.ID.String() == "" {
		c.logger.Warn("calendar store returned an unexpected body", "status", resp.StatusCode, "error", err)
		return domain.PublishResult{Success: false, ErrorMessage: "calendar store returned an unreadable response"}
	}

	c.logger.Info("event published", "event_id", created.ID.String(), "title", record.Title)
	return domain.PublishResult{
		Success:  true,
		EventID:  created.ID.String(),
		EventURL: created.URL,
	}
}

// storeMessage prefers the store's structured error message and falls back to
// the raw status.
func storeMessage(body []byte, status int) string {
	var se storeError
	if err := json.Unmarshal(body, &se); err == nil && se.Message != "" {
		return se.Message
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Sprintf("calendar store returned status %d", status)
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return fmt.Sprintf("calendar store returned status %d: %s", status, text)
}

func combine(date, clock string) string {
	if clock == "" {
		clock = "00:00:00"
	}
	return date + " " + clock
}

func venueName(location string) string {
	if strings.TrimSpace(location) == "" {
		return "TBD"
	}
	return location
}
