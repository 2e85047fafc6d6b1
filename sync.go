package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Yuma-123/cyber-calendar/internal/calendar"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"
)

const syncTimeout = 4 * time.Second

// EventSync mirrors the event list to a remote store. The local file stays
// authoritative; the remote copy is pulled once at startup and pushed after
// every change.
type EventSync struct {
	enabled  bool
	baseURL  string
	apiKey   string
	deviceID string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewEventSyncFromEnv(enabled bool, deviceID string) *EventSync {
	baseURL := strings.TrimSpace(os.Getenv("CYBERCAL_SYNC_URL"))
	if baseURL == "" {
		return nil
	}
	return NewEventSync(baseURL, strings.TrimSpace(os.Getenv("CYBERCAL_SYNC_KEY")), deviceID, enabled)
}

func NewEventSync(baseURL, apiKey, deviceID string, enabled bool) *EventSync {
	return &EventSync{
		enabled:  enabled,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		deviceID: deviceID,
		client: &http.Client{
			Timeout: syncTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

func (s *EventSync) Enabled() bool {
	return s != nil && s.enabled
}

func (s *EventSync) SetEnabled(enabled bool) {
	if s == nil {
		return
	}
	s.enabled = enabled
}

func (s *EventSync) PullEventsCmd() tea.Cmd {
	return func() tea.Msg {
		if !s.Enabled() {
			return eventsPulledMsg{}
		}
		events, err := s.pull(context.Background())
		return eventsPulledMsg{events: events, err: err}
	}
}

func (s *EventSync) PushEventsCmd(events []calendar.Event) tea.Cmd {
	return func() tea.Msg {
		if !s.Enabled() {
			return eventsPushedMsg{}
		}
		return eventsPushedMsg{err: s.push(context.Background(), events)}
	}
}

func (s *EventSync) pull(ctx context.Context) ([]calendar.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/events", nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errUnexpectedStatus(resp.StatusCode)
	}
	events := []calendar.Event{}
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventSync) push(ctx context.Context, events []calendar.Event) error {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()
	if events == nil {
		events = []calendar.Event{}
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/events", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errUnexpectedStatus(resp.StatusCode)
	}
	return nil
}

func (s *EventSync) setHeaders(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}
	if s.deviceID != "" {
		req.Header.Set("X-Device-Id", s.deviceID)
	}
}

type statusError int

func (s statusError) Error() string {
	return "unexpected status: " + http.StatusText(int(s))
}

func errUnexpectedStatus(code int) error {
	return statusError(code)
}
