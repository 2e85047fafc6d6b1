package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// StorageKey names the event list on disk.
const StorageKey = "events"

type Store struct {
	path   string
	events []Event
}

// Open loads the event list kept in dir. A missing file is an empty list.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store := &Store{
		path:   filepath.Join(dir, StorageKey+".json"),
		events: []Event{},
	}
	data, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return store, nil
	}
	if err := json.Unmarshal(data, &store.events); err != nil {
		return nil, fmt.Errorf("decode %s: %w", store.path, err)
	}
	if store.events == nil {
		store.events = []Event{}
	}
	return store, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Events() []Event {
	return append([]Event{}, s.events...)
}

func (s *Store) EventOn(date string) (Event, bool) {
	for _, event := range s.events {
		if event.Date == date {
			return event, true
		}
	}
	return Event{}, false
}

func (s *Store) Add(date, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	events := make([]Event, 0, len(s.events)+1)
	events = append(events, s.events...)
	return s.commit(append(events, Event{Date: date, Title: title}))
}

// Delete drops every event on date.
func (s *Store) Delete(date string) error {
	kept := make([]Event, 0, len(s.events))
	for _, event := range s.events {
		if event.Date != date {
			kept = append(kept, event)
		}
	}
	return s.commit(kept)
}

// Replace swaps the whole list, as when a remote copy is pulled.
func (s *Store) Replace(events []Event) error {
	return s.commit(append([]Event{}, events...))
}

// commit writes events and only then makes them the in-memory list, so a
// failed write leaves the store as it was.
func (s *Store) commit(events []Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	s.events = events
	return nil
}
