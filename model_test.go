package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Yuma-123/cyber-calendar/internal/calendar"
	"github.com/Yuma-123/cyber-calendar/internal/puzzle"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 17, 9, 30, 0, 0, time.Local)

type testApp struct {
	model Model
	store *calendar.Store
	saved []Config
	clock time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store, err := calendar.Open(t.TempDir())
	require.NoError(t, err)
	app := &testApp{store: store, clock: fixedNow}
	config := defaultConfig()
	config.Sound = false
	app.model = NewModel(Options{
		Engine: puzzle.NewSeeded(7),
		Store:  store,
		Config: config,
		Now:    func() time.Time { return app.clock },
		Save: func(c Config) error {
			app.saved = append(app.saved, c)
			return nil
		},
	})
	return app
}

func (a *testApp) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := a.model.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	a.model = model
	return cmd
}

func (a *testApp) key(t *testing.T, key string) tea.Cmd {
	t.Helper()
	switch key {
	case "enter":
		return a.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return a.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		return a.send(t, tea.KeyMsg{Type: tea.KeyTab})
	case "left":
		return a.send(t, tea.KeyMsg{Type: tea.KeyLeft})
	case "right":
		return a.send(t, tea.KeyMsg{Type: tea.KeyRight})
	case "up":
		return a.send(t, tea.KeyMsg{Type: tea.KeyUp})
	case "down":
		return a.send(t, tea.KeyMsg{Type: tea.KeyDown})
	}
	return a.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func TestNewModelSpawnsPiece(t *testing.T) {
	app := newTestApp(t)
	assert.True(t, app.model.engine.Active())
	assert.Equal(t, tabGame, app.model.tab)
	assert.Equal(t, 17, app.model.cursor)
}

func TestFramesDriveGravity(t *testing.T) {
	app := newTestApp(t)
	start := app.model.engine.Piece().Pos.Y

	cmd := app.send(t, frameMsg{gen: 0, at: fixedNow})
	assert.NotNil(t, cmd)
	assert.Equal(t, start, app.model.engine.Piece().Pos.Y)

	app.send(t, frameMsg{gen: 0, at: fixedNow.Add(puzzle.DropInterval + time.Millisecond)})
	assert.Equal(t, start+1, app.model.engine.Piece().Pos.Y)
}

func TestHiddenGameTabDoesNotTick(t *testing.T) {
	app := newTestApp(t)
	app.send(t, frameMsg{gen: 0, at: fixedNow})
	start := app.model.engine.Piece().Pos

	app.key(t, "2")
	require.Equal(t, tabCalendar, app.model.tab)
	cmd := app.send(t, frameMsg{gen: 0, at: fixedNow.Add(5 * time.Second)})
	assert.Nil(t, cmd)
	assert.Equal(t, start, app.model.engine.Piece().Pos)

	cmd = app.key(t, "1")
	require.NotNil(t, cmd)
	assert.Equal(t, 1, app.model.frameGen)

	// a frame from the old loop is ignored, and the first new frame only
	// starts the clock
	assert.Nil(t, app.send(t, frameMsg{gen: 0, at: fixedNow.Add(6 * time.Second)}))
	app.send(t, frameMsg{gen: 1, at: fixedNow.Add(10 * time.Second)})
	assert.Equal(t, start, app.model.engine.Piece().Pos)
}

func TestGameKeys(t *testing.T) {
	app := newTestApp(t)
	pos := app.model.engine.Piece().Pos

	app.key(t, "left")
	assert.Equal(t, pos.X-1, app.model.engine.Piece().Pos.X)
	app.key(t, "l")
	assert.Equal(t, pos.X, app.model.engine.Piece().Pos.X)
	app.key(t, "down")
	assert.Equal(t, pos.Y+1, app.model.engine.Piece().Pos.Y)

	shape := app.model.engine.Piece().Shape
	app.key(t, "w")
	app.key(t, "q")
	assert.Equal(t, shape, app.model.engine.Piece().Shape)
}

func countFilled(board puzzle.Board) int {
	filled := 0
	for _, row := range board {
		for _, cell := range row {
			if cell != 0 {
				filled++
			}
		}
	}
	return filled
}

func TestSoftDropLocksPiece(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i <= puzzle.Height && countFilled(app.model.engine.Board()) == 0; i++ {
		app.key(t, "j")
	}

	assert.Equal(t, 4, countFilled(app.model.engine.Board()))
	assert.True(t, app.model.engine.Active())
	assert.Equal(t, 0, app.model.engine.Piece().Pos.Y)
	assert.Empty(t, app.model.lastEvent, "no lines cleared")
}

func TestTabCycling(t *testing.T) {
	app := newTestApp(t)
	app.key(t, "tab")
	assert.Equal(t, tabCalendar, app.model.tab)
	app.key(t, "tab")
	assert.Equal(t, tabSettings, app.model.tab)
	app.key(t, "tab")
	assert.Equal(t, tabGame, app.model.tab)
	app.send(t, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, tabSettings, app.model.tab)
}

func TestCalendarCursorRollsAcrossMonths(t *testing.T) {
	app := newTestApp(t)
	app.key(t, "2")

	app.key(t, "down")
	app.key(t, "down")
	assert.Equal(t, 31, app.model.cursor)
	assert.Equal(t, 0, app.model.nav)

	app.key(t, "right")
	assert.Equal(t, 1, app.model.cursor)
	assert.Equal(t, 1, app.model.nav)
	assert.Equal(t, "11/1/2026", app.model.selectedDate())

	app.key(t, "left")
	assert.Equal(t, 31, app.model.cursor)
	assert.Equal(t, 0, app.model.nav)

	app.key(t, "]")
	assert.Equal(t, 1, app.model.nav)
	assert.Equal(t, 30, app.model.cursor, "November has 30 days")

	app.key(t, "t")
	assert.Equal(t, 0, app.model.nav)
	assert.Equal(t, 17, app.model.cursor)
}

func TestAddAndDeleteEvent(t *testing.T) {
	app := newTestApp(t)
	app.key(t, "2")

	app.key(t, "enter")
	require.Equal(t, dialogNew, app.model.dialog)

	// digits go to the input, not the tab switcher
	app.key(t, "Dentist 2pm")
	assert.Equal(t, tabCalendar, app.model.tab)
	app.key(t, "enter")

	assert.Equal(t, dialogNone, app.model.dialog)
	event, ok := app.store.EventOn("10/17/2026")
	require.True(t, ok)
	assert.Equal(t, "Dentist 2pm", event.Title)
	assert.Contains(t, app.model.View(), "Dentist 2pm")

	app.key(t, "enter")
	require.Equal(t, dialogDelete, app.model.dialog)
	assert.Equal(t, "Dentist 2pm", app.model.dialogEvent.Title)
	app.key(t, "d")

	assert.Equal(t, dialogNone, app.model.dialog)
	_, ok = app.store.EventOn("10/17/2026")
	assert.False(t, ok)
}

func TestEmptyTitleKeepsDialogOpen(t *testing.T) {
	app := newTestApp(t)
	app.key(t, "2")
	app.key(t, "enter")

	app.key(t, "   ")
	app.key(t, "enter")
	assert.Equal(t, dialogNew, app.model.dialog)
	assert.True(t, app.model.inputErr)
	assert.Contains(t, app.model.View(), "Title is required")

	app.key(t, "x")
	assert.False(t, app.model.inputErr)

	app.key(t, "esc")
	assert.Equal(t, dialogNone, app.model.dialog)
	assert.Empty(t, app.store.Events())
}

func TestPulledEventsReplaceStore(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Add("10/1/2026", "old"))

	app.send(t, eventsPulledMsg{events: []calendar.Event{{Date: "10/2/2026", Title: "remote"}}})
	assert.Equal(t, []calendar.Event{{Date: "10/2/2026", Title: "remote"}}, app.store.Events())
	assert.Empty(t, app.model.syncWarning)

	app.send(t, eventsPulledMsg{err: errors.New("connection refused")})
	assert.NotEmpty(t, app.model.syncWarning)
	assert.Len(t, app.store.Events(), 1)

	app.send(t, eventsPushedMsg{})
	assert.Empty(t, app.model.syncWarning)
}

func TestEmptyRemoteKeepsLocalEvents(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Add("10/1/2026", "Standup"))
	var pushed []calendar.Event
	app.model.sync = newTestSync(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&pushed))
	})

	cmd := app.send(t, eventsPulledMsg{events: []calendar.Event{}})

	want := []calendar.Event{{Date: "10/1/2026", Title: "Standup"}}
	assert.Equal(t, want, app.store.Events())
	require.NotNil(t, cmd)
	msg, ok := cmd().(eventsPushedMsg)
	require.True(t, ok)
	assert.NoError(t, msg.err)
	assert.Equal(t, want, pushed)
}

func TestEmptyRemoteOverEmptyStore(t *testing.T) {
	app := newTestApp(t)
	cmd := app.send(t, eventsPulledMsg{events: []calendar.Event{}})
	assert.Nil(t, cmd)
	assert.Empty(t, app.store.Events())
}

func TestEventBannerExpires(t *testing.T) {
	app := newTestApp(t)
	app.send(t, frameMsg{gen: 0, at: fixedNow})
	app.model.showEvent("LINE CLEAR", 10)

	app.clock = fixedNow.Add(eventBannerTime / 2)
	app.send(t, frameMsg{gen: 0, at: time.Now()})
	assert.Equal(t, "LINE CLEAR", app.model.lastEvent)

	app.clock = fixedNow.Add(eventBannerTime + time.Millisecond)
	app.send(t, frameMsg{gen: 0, at: time.Now()})
	assert.Empty(t, app.model.lastEvent)
	assert.Zero(t, app.model.lastDelta)
}

func TestSettingsAdjustAndPersist(t *testing.T) {
	app := newTestApp(t)
	app.key(t, "3")

	app.key(t, "right")
	assert.Equal(t, themes[1].Name, app.model.config.Theme)
	assert.Equal(t, 1, app.model.themeIndex)
	app.key(t, "left")
	app.key(t, "left")
	assert.Equal(t, themes[len(themes)-1].Name, app.model.config.Theme)

	app.key(t, "down")
	app.key(t, "enter")
	assert.True(t, app.model.config.Sound)

	app.key(t, "down")
	app.key(t, "down")
	app.key(t, "right")
	assert.Equal(t, 75, app.model.config.Volume)

	app.key(t, "down")
	app.key(t, "right")
	app.key(t, "right")
	app.key(t, "right")
	assert.Equal(t, 3, app.model.config.Scale)

	require.NotEmpty(t, app.saved)
	assert.Equal(t, app.model.config, app.saved[len(app.saved)-1])
}

func TestSyncToggleWithoutServer(t *testing.T) {
	app := newTestApp(t)
	app.key(t, "3")
	for i := 0; i < settingSync; i++ {
		app.key(t, "down")
	}
	app.key(t, "enter")
	assert.True(t, app.model.config.Sync)
	assert.Contains(t, app.model.View(), "no server")
}
