// Package calendar keeps the personal event list: one title per date, stored as
// a flat JSON array, and the month grid the calendar tab draws from it.
package calendar

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is month/day/year without zero padding, e.g. 10/17/2026.
const DateLayout = "1/2/2006"

var ErrEmptyTitle = errors.New("event title is empty")

type Event struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
}
