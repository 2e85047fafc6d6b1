package calendar

import "time"

var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type Day struct {
	Date    string
	Number  int
	Padding bool
	Today   bool
	Event   *Event
}

type MonthView struct {
	Title   string
	Year    int
	Month   time.Month
	Padding int
	Days    []Day
}

// Month lays out the month nav months away from now's month. Days starts with
// one padding cell per weekday before the 1st, Sunday first.
func Month(now time.Time, nav int, events []Event) MonthView {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, nav, 0)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	padding := int(first.Weekday())
	today := FormatDate(now)

	byDate := make(map[string]*Event, len(events))
	for i := range events {
		if _, ok := byDate[events[i].Date]; !ok {
			byDate[events[i].Date] = &events[i]
		}
	}

	view := MonthView{
		Title:   first.Format("January 2006"),
		Year:    first.Year(),
		Month:   first.Month(),
		Padding: padding,
		Days:    make([]Day, 0, padding+daysInMonth),
	}
	for i := 0; i < padding; i++ {
		view.Days = append(view.Days, Day{Padding: true})
	}
	for n := 1; n <= daysInMonth; n++ {
		date := FormatDate(time.Date(first.Year(), first.Month(), n, 0, 0, 0, 0, first.Location()))
		day := Day{
			Date:   date,
			Number: n,
			Today:  date == today,
		}
		if event, ok := byDate[date]; ok {
			copied := *event
			day.Event = &copied
		}
		view.Days = append(view.Days, day)
	}
	return view
}

// DayCount is the number of real days in the view.
func (v MonthView) DayCount() int {
	return len(v.Days) - v.Padding
}

// DayAt returns the cell for day number n (1-based).
func (v MonthView) DayAt(n int) (Day, bool) {
	if n < 1 || n > v.DayCount() {
		return Day{}, false
	}
	return v.Days[v.Padding+n-1], true
}
