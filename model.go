package main

import (
	"errors"
	"time"

	"github.com/Yuma-123/cyber-calendar/internal/calendar"
	"github.com/Yuma-123/cyber-calendar/internal/puzzle"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

type Tab int

const (
	tabGame Tab = iota
	tabCalendar
	tabSettings
)

var tabNames = []string{"Game", "Calendar", "Settings"}

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogNew
	dialogDelete
)

const (
	frameInterval   = 16 * time.Millisecond
	eventBannerTime = 900 * time.Millisecond
)

type frameMsg struct {
	gen int
	at  time.Time
}

type soundMsg struct{}

type eventsPulledMsg struct {
	events []calendar.Event
	err    error
}

type eventsPushedMsg struct {
	err error
}

// Options carries the collaborators main wires up. Sound, Music and Sync may
// be nil.
type Options struct {
	Engine *puzzle.Engine
	Store  *calendar.Store
	Config Config
	Sound  *SoundEngine
	Music  *MusicPlayer
	Sync   *EventSync
	Now    func() time.Time
	Save   func(Config) error
}

type Model struct {
	tab           Tab
	width         int
	height        int
	config        Config
	themeIndex    int
	settingsIndex int
	engine        *puzzle.Engine
	frameGen      int
	lastFrame     time.Time
	lastEvent     string
	lastDelta     int
	lastEventTil  time.Time
	store         *calendar.Store
	nav           int
	cursor        int
	dialog        dialogKind
	dialogEvent   calendar.Event
	input         textinput.Model
	inputErr      bool
	sound         *SoundEngine
	music         *MusicPlayer
	sync          *EventSync
	syncWarning   string
	now           func() time.Time
	save          func(Config) error
}

func NewModel(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	save := opts.Save
	if save == nil {
		save = saveConfig
	}
	index := themeIndexByName(opts.Config.Theme)
	if index < 0 {
		index = 0
		opts.Config.Theme = themes[index].Name
	}
	input := textinput.New()
	input.Placeholder = "Event title"
	input.CharLimit = 80
	input.Width = 40
	if opts.Engine != nil && !opts.Engine.Active() {
		opts.Engine.Spawn()
	}
	return Model{
		tab:        tabGame,
		config:     opts.Config,
		themeIndex: index,
		engine:     opts.Engine,
		store:      opts.Store,
		cursor:     now().Day(),
		input:      input,
		sound:      opts.Sound,
		music:      opts.Music,
		sync:       opts.Sync,
		now:        now,
		save:       save,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameCmd(m.frameGen)}
	if m.sync.Enabled() {
		cmds = append(cmds, m.sync.PullEventsCmd())
	}
	m.syncMusicForTab()
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case frameMsg:
		return m, m.updateFrame(msg)
	case soundMsg:
		return m, nil
	case eventsPulledMsg:
		return m, m.applyPulledEvents(msg)
	case eventsPushedMsg:
		if msg.err != nil {
			logger.WithError(msg.err).Warn("event push failed")
			m.syncWarning = "Offline: events not synced."
		} else {
			m.syncWarning = ""
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.stopMusic()
			return m, tea.Quit
		}
		if m.dialog != dialogNone {
			return m, m.updateDialog(msg)
		}
		if cmd, ok := m.updateTabKeys(msg); ok {
			return m, cmd
		}
		switch m.tab {
		case tabGame:
			return m, m.updateGame(msg)
		case tabCalendar:
			return m, m.updateCalendar(msg)
		case tabSettings:
			return m, m.updateSettings(msg)
		}
	}
	return m, nil
}

func (m Model) View() string {
	theme := themes[m.themeIndex]
	var body string
	switch m.tab {
	case tabGame:
		body = viewGame(m)
	case tabCalendar:
		body = viewCalendar(m)
	case tabSettings:
		body = viewSettings(m)
	}
	parts := []string{renderTabs(m.tab, theme), "", body}
	if m.syncWarning != "" {
		parts = append(parts, "", warningStyle().Render(m.syncWarning))
	}
	return center(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func frameCmd(gen int) tea.Cmd {
	return tea.Tick(frameInterval, func(at time.Time) tea.Msg { return frameMsg{gen: gen, at: at} })
}

// updateFrame feeds elapsed frame time into the engine. Frames only run while
// the game tab is visible; a frame from an earlier loop is dropped.
func (m *Model) updateFrame(msg frameMsg) tea.Cmd {
	if msg.gen != m.frameGen || m.tab != tabGame {
		return nil
	}
	if !m.lastEventTil.IsZero() && m.now().After(m.lastEventTil) {
		m.lastEvent = ""
		m.lastDelta = 0
		m.lastEventTil = time.Time{}
	}
	var cmd tea.Cmd
	if !m.lastFrame.IsZero() {
		cmd = m.applyResult(m.engine.Tick(msg.at.Sub(m.lastFrame)))
	}
	m.lastFrame = msg.at
	return tea.Batch(cmd, frameCmd(m.frameGen))
}

func (m *Model) updateTabKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		return m.setTab((m.tab + 1) % Tab(len(tabNames))), true
	case "shift+tab":
		return m.setTab((m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))), true
	case "1":
		return m.setTab(tabGame), true
	case "2":
		return m.setTab(tabCalendar), true
	case "3":
		return m.setTab(tabSettings), true
	}
	return nil, false
}

func (m *Model) setTab(tab Tab) tea.Cmd {
	if tab == m.tab {
		return nil
	}
	m.tab = tab
	m.lastFrame = time.Time{}
	m.syncMusicForTab()
	DebugLogf("tab switch: %s", tabNames[tab])
	if tab == tabGame {
		m.frameGen++
		return frameCmd(m.frameGen)
	}
	if tab == tabCalendar {
		m.nav = 0
		m.cursor = m.now().Day()
	}
	return nil
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		if m.engine.Move(-1) {
			return m.playSound(SoundMove)
		}
	case "right", "l":
		if m.engine.Move(1) {
			return m.playSound(SoundMove)
		}
	case "down", "j":
		return m.applyResult(m.engine.SoftDrop())
	case "q", "z":
		if m.engine.Rotate(-1) {
			return m.playSound(SoundRotate)
		}
	case "w", "x", "up":
		if m.engine.Rotate(1) {
			return m.playSound(SoundRotate)
		}
	}
	return nil
}

func (m *Model) applyResult(result puzzle.Result) tea.Cmd {
	if !result.Locked {
		return nil
	}
	fields := logrus.Fields{
		"cleared": result.Cleared,
		"points":  result.Points,
		"score":   m.engine.Score(),
	}
	switch {
	case result.Restarted:
		logger.WithFields(fields).Info("board full, restarting")
		m.showEvent("RESTART", 0)
	case result.Points > 0:
		logger.WithFields(fields).Debug("lines cleared")
		m.showEvent("LINE CLEAR", result.Points)
	}
	if event, ok := soundForResult(result); ok {
		return m.playSound(event)
	}
	return nil
}

func (m *Model) showEvent(label string, delta int) {
	m.lastEvent = label
	m.lastDelta = delta
	m.lastEventTil = m.now().Add(eventBannerTime)
}

func (m Model) monthView() calendar.MonthView {
	var events []calendar.Event
	if m.store != nil {
		events = m.store.Events()
	}
	return calendar.Month(m.now(), m.nav, events)
}

func (m Model) selectedDate() string {
	day, ok := m.monthView().DayAt(m.cursor)
	if !ok {
		return ""
	}
	return day.Date
}

func (m *Model) updateCalendar(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-7)
	case "down", "j":
		m.moveCursor(7)
	case "[", "p":
		m.changeMonth(-1)
	case "]", "n":
		m.changeMonth(1)
	case "t":
		m.nav = 0
		m.cursor = m.now().Day()
	case "enter":
		return m.openDialog()
	}
	return nil
}

// moveCursor steps the day cursor, rolling into the neighbouring month when it
// walks off either end.
func (m *Model) moveCursor(delta int) {
	target := m.cursor + delta
	days := m.monthView().DayCount()
	if target < 1 {
		m.nav--
		target += m.monthView().DayCount()
	} else if target > days {
		m.nav++
		target -= days
	}
	m.cursor = target
	m.clampCursor()
}

func (m *Model) changeMonth(delta int) {
	m.nav += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	days := m.monthView().DayCount()
	if m.cursor > days {
		m.cursor = days
	}
	if m.cursor < 1 {
		m.cursor = 1
	}
}

func (m *Model) openDialog() tea.Cmd {
	date := m.selectedDate()
	if date == "" || m.store == nil {
		return nil
	}
	if event, ok := m.store.EventOn(date); ok {
		m.dialog = dialogDelete
		m.dialogEvent = event
		return nil
	}
	m.dialog = dialogNew
	m.inputErr = false
	m.input.Reset()
	return m.input.Focus()
}

func (m *Model) closeDialog() {
	m.dialog = dialogNone
	m.dialogEvent = calendar.Event{}
	m.inputErr = false
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) updateDialog(msg tea.KeyMsg) tea.Cmd {
	switch m.dialog {
	case dialogNew:
		switch msg.Type {
		case tea.KeyEnter:
			return m.saveEvent()
		case tea.KeyEsc:
			m.closeDialog()
			return nil
		}
		m.inputErr = false
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	case dialogDelete:
		switch msg.String() {
		case "d", "delete":
			return m.deleteEvent()
		case "esc", "enter":
			m.closeDialog()
		}
	}
	return nil
}

func (m *Model) saveEvent() tea.Cmd {
	date := m.selectedDate()
	err := m.store.Add(date, m.input.Value())
	if errors.Is(err, calendar.ErrEmptyTitle) {
		m.inputErr = true
		return m.playSound(SoundInvalid)
	}
	if err != nil {
		logger.WithError(err).WithField("date", date).Error("save event")
		m.syncWarning = "Could not save event."
		m.closeDialog()
		return nil
	}
	logger.WithField("date", date).Debug("event added")
	m.closeDialog()
	return tea.Batch(m.playSound(SoundEventSaved), m.pushEvents())
}

func (m *Model) deleteEvent() tea.Cmd {
	date := m.dialogEvent.Date
	if err := m.store.Delete(date); err != nil {
		logger.WithError(err).WithField("date", date).Error("delete event")
		m.syncWarning = "Could not delete event."
		m.closeDialog()
		return nil
	}
	logger.WithField("date", date).Debug("event deleted")
	m.closeDialog()
	return tea.Batch(m.playSound(SoundEventDeleted), m.pushEvents())
}

func (m *Model) pushEvents() tea.Cmd {
	if !m.sync.Enabled() || m.store == nil {
		return nil
	}
	return m.sync.PushEventsCmd(m.store.Events())
}

// applyPulledEvents adopts the remote list. An empty remote never wipes local
// events; the local list is pushed to it instead.
func (m *Model) applyPulledEvents(msg eventsPulledMsg) tea.Cmd {
	if msg.err != nil {
		logger.WithError(msg.err).Warn("event pull failed")
		m.syncWarning = "Offline: events not synced."
		return nil
	}
	if msg.events == nil || m.store == nil {
		return nil
	}
	m.syncWarning = ""
	if len(msg.events) == 0 && len(m.store.Events()) > 0 {
		logger.Debug("remote empty, pushing local events")
		return m.pushEvents()
	}
	if err := m.store.Replace(msg.events); err != nil {
		logger.WithError(err).Error("store pulled events")
		m.syncWarning = "Could not save synced events."
		return nil
	}
	logger.WithField("count", len(msg.events)).Debug("events pulled")
	return nil
}

const (
	settingTheme = iota
	settingSound
	settingMusic
	settingVolume
	settingScale
	settingSync
)

var settingsItems = []string{
	"Theme",
	"Sound Effects",
	"Music",
	"Volume",
	"Game Scale",
	"Event Sync",
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.settingsIndex > 0 {
			m.settingsIndex--
			return m.playSound(SoundMenuMove)
		}
	case "down", "j":
		if m.settingsIndex < len(settingsItems)-1 {
			m.settingsIndex++
			return m.playSound(SoundMenuMove)
		}
	case "enter":
		return m.toggleSetting()
	case "left", "h":
		return m.adjustSetting(-1)
	case "right", "l":
		return m.adjustSetting(1)
	}
	return nil
}

func (m *Model) toggleSetting() tea.Cmd {
	var cmd tea.Cmd
	switch m.settingsIndex {
	case settingTheme, settingVolume, settingScale:
		return m.adjustSetting(1)
	case settingSound:
		m.config.Sound = !m.config.Sound
		if m.sound != nil {
			m.sound.SetEnabled(m.config.Sound)
		}
	case settingMusic:
		m.config.Music = !m.config.Music
		m.syncMusicForTab()
	case settingSync:
		m.config.Sync = !m.config.Sync
		m.sync.SetEnabled(m.config.Sync)
		if m.sync.Enabled() {
			cmd = m.sync.PullEventsCmd()
		} else {
			m.syncWarning = ""
		}
	}
	m.persistConfig()
	return tea.Batch(cmd, m.playSound(SoundMenuSelect))
}

func (m *Model) adjustSetting(delta int) tea.Cmd {
	switch m.settingsIndex {
	case settingTheme:
		m.themeIndex = (m.themeIndex + delta + len(themes)) % len(themes)
		m.config.Theme = themes[m.themeIndex].Name
	case settingVolume:
		m.config.Volume = clampVolumePercent(m.config.Volume + 5*delta)
		if m.sound != nil {
			m.sound.SetVolume(volumeFromPercent(m.config.Volume))
		}
		if m.music != nil {
			m.music.SetVolume(volumeFromPercent(m.config.Volume))
		}
	case settingScale:
		m.config.Scale = clampScale(m.config.Scale + delta)
	default:
		return nil
	}
	m.persistConfig()
	return m.playSound(SoundMenuMove)
}

func (m *Model) persistConfig() {
	if err := m.save(m.config); err != nil {
		logger.WithError(err).Warn("save config")
	}
}

func (m *Model) playSound(event SoundEvent) tea.Cmd {
	if !m.config.Sound || m.sound == nil {
		return nil
	}
	engine := m.sound
	return func() tea.Msg {
		engine.Play(event)
		return soundMsg{}
	}
}

func (m *Model) syncMusicForTab() {
	if m.music == nil {
		return
	}
	if m.config.Music && m.tab == tabGame {
		m.music.Start()
		return
	}
	m.music.Stop()
}

func (m *Model) stopMusic() {
	if m.music != nil {
		m.music.Stop()
	}
}
