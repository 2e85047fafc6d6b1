package main

import (
	"fmt"
	"strings"

	"github.com/Yuma-123/cyber-calendar/internal/calendar"
	"github.com/Yuma-123/cyber-calendar/internal/puzzle"
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name        string
	BorderColor lipgloss.Color
	TextColor   lipgloss.Color
	AccentColor lipgloss.Color
	PieceColors []lipgloss.Color
}

// PieceColors are indexed by cell value - 1.
var themes = []Theme{
	{
		Name:        "Cyber",
		BorderColor: lipgloss.Color("#0DC2FF"),
		TextColor:   lipgloss.Color("250"),
		AccentColor: lipgloss.Color("#FF0D72"),
		PieceColors: []lipgloss.Color{"#FF0D72", "#0DC2FF", "#0DFF72", "#F538FF", "#FF8E0D", "#FFE138", "#3877FF"},
	},
	{
		Name:        "Amber Terminal",
		BorderColor: lipgloss.Color("214"),
		TextColor:   lipgloss.Color("223"),
		AccentColor: lipgloss.Color("208"),
		PieceColors: []lipgloss.Color{"220", "214", "222", "208", "215", "216", "223"},
	},
	{
		Name:        "Ocean Neon",
		BorderColor: lipgloss.Color("33"),
		TextColor:   lipgloss.Color("159"),
		AccentColor: lipgloss.Color("39"),
		PieceColors: []lipgloss.Color{"45", "39", "51", "44", "50", "75", "81"},
	},
	{
		Name:        "Mono Matrix",
		BorderColor: lipgloss.Color("250"),
		TextColor:   lipgloss.Color("245"),
		AccentColor: lipgloss.Color("82"),
		PieceColors: []lipgloss.Color{"236", "239", "242", "245", "248", "251", "254"},
	},
}

func themeIndexByName(name string) int {
	for i, theme := range themes {
		if theme.Name == name {
			return i
		}
	}
	return -1
}

const calendarCellWidth = 12

func viewGame(m Model) string {
	theme := themes[m.themeIndex]
	scale := clampScale(m.config.Scale)
	minWidth, minHeight := minGameSize(scale)
	if m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight) {
		return fmt.Sprintf("Terminal too small. Need at least %dx%d. Current %dx%d.", minWidth, minHeight, m.width, m.height)
	}
	snap := m.engine.Snapshot()
	board := renderBoard(snap, theme, scale)
	info := renderInfo(snap, theme, m.lastEvent, m.lastDelta)
	if m.width > 0 && m.width < minWidth+26 {
		return lipgloss.JoinVertical(lipgloss.Left, board, info)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, board, info)
}

func renderBoard(snap puzzle.Snapshot, theme Theme, scale int) string {
	border := lipgloss.NewStyle().Foreground(theme.BorderColor)
	cellText := strings.Repeat(" ", cellWidth(scale))
	edge := border.Render("+" + strings.Repeat("-", puzzle.Width*cellWidth(scale)) + "+")
	var b strings.Builder
	b.WriteString(edge)
	b.WriteString("\n")
	for _, row := range snap.Cells {
		for repeat := 0; repeat < scale; repeat++ {
			b.WriteString(border.Render("|"))
			for _, cell := range row {
				if cell == 0 {
					b.WriteString(cellText)
					continue
				}
				b.WriteString(lipgloss.NewStyle().Background(pieceColor(theme, cell)).Render(cellText))
			}
			b.WriteString(border.Render("|"))
			b.WriteString("\n")
		}
	}
	b.WriteString(edge)
	return b.String()
}

func pieceColor(theme Theme, cell puzzle.Cell) lipgloss.Color {
	return theme.PieceColors[(int(cell)-1)%len(theme.PieceColors)]
}

func renderInfo(snap puzzle.Snapshot, theme Theme, lastEvent string, lastDelta int) string {
	var b strings.Builder
	pad := lipgloss.NewStyle().PaddingLeft(2)
	b.WriteString(pad.Render(titleStyle(theme).Render("Score")))
	b.WriteString("\n")
	b.WriteString(pad.Render(fmt.Sprintf("%d", snap.Score)))
	b.WriteString("\n\n")
	if snap.Active {
		b.WriteString(pad.Render(titleStyle(theme).Render("Piece")))
		b.WriteString("\n")
		b.WriteString(pad.Render(renderMiniPiece(snap.Piece.Kind, theme)))
		b.WriteString("\n\n")
	}
	if lastEvent != "" {
		b.WriteString(pad.Render(highlightStyle(theme).Render(lastEvent)))
		b.WriteString("\n")
		if lastDelta > 0 {
			b.WriteString(pad.Render(highlightStyle(theme).Render(fmt.Sprintf("+%d", lastDelta))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	keys := []string{
		"Left/Right: move",
		"Down: drop",
		"Q/Z: rotate left",
		"W/X/Up: rotate right",
		"Tab: switch view",
	}
	for _, line := range keys {
		b.WriteString(pad.Render(helpStyle(theme).Render(line)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderMiniPiece(kind puzzle.Kind, theme Theme) string {
	shape := puzzle.NewShape(kind)
	var b strings.Builder
	for _, row := range shape {
		empty := true
		for _, cell := range row {
			if cell != 0 {
				empty = false
			}
		}
		if empty {
			continue
		}
		for _, cell := range row {
			if cell == 0 {
				b.WriteString("  ")
				continue
			}
			b.WriteString(lipgloss.NewStyle().Background(pieceColor(theme, cell)).Render("  "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func viewCalendar(m Model) string {
	theme := themes[m.themeIndex]
	view := m.monthView()
	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		helpStyle(theme).Render("[ Back  "),
		titleStyle(theme).Render(view.Title),
		helpStyle(theme).Render("  Next ]"),
	)
	if m.dialog != dialogNone {
		return lipgloss.JoinVertical(lipgloss.Center, header, "", renderDialog(m, theme))
	}
	grid := renderMonth(view, m.cursor, theme)
	footer := helpStyle(theme).Render("Arrows: move  Enter: open  [ ]: month  T: today")
	return lipgloss.JoinVertical(lipgloss.Center, header, "", grid, "", footer)
}

func renderMonth(view calendar.MonthView, cursor int, theme Theme) string {
	cell := lipgloss.NewStyle().Width(calendarCellWidth).Height(2)
	header := make([]string, 0, len(calendar.Weekdays))
	for _, name := range calendar.Weekdays {
		header = append(header, cell.Height(1).Foreground(theme.AccentColor).Render(name[:3]))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	week := make([]string, 0, 7)
	for _, day := range view.Days {
		week = append(week, renderDay(day, day.Number == cursor, cell, theme))
		if len(week) == 7 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
			week = week[:0]
		}
	}
	if len(week) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderDay(day calendar.Day, selected bool, cell lipgloss.Style, theme Theme) string {
	if day.Padding {
		return cell.Render("")
	}
	style := cell.Foreground(theme.TextColor)
	if day.Today {
		style = style.Foreground(theme.AccentColor).Bold(true)
	}
	if selected {
		style = style.Reverse(true)
	}
	title := ""
	if day.Event != nil {
		title = truncate(day.Event.Title, calendarCellWidth-1)
	}
	return style.Render(fmt.Sprintf("%2d\n%s", day.Number, title))
}

func renderDialog(m Model, theme Theme) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(1, 2).
		Width(48)
	var b strings.Builder
	switch m.dialog {
	case dialogNew:
		b.WriteString(titleStyle(theme).Render("New Event"))
		b.WriteString("\n")
		b.WriteString(helpStyle(theme).Render(m.selectedDate()))
		b.WriteString("\n\n")
		if m.inputErr {
			b.WriteString(warningStyle().Render(m.input.View()))
			b.WriteString("\n")
			b.WriteString(warningStyle().Render("Title is required"))
		} else {
			b.WriteString(m.input.View())
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle(theme).Render("Enter: save  Esc: cancel"))
	case dialogDelete:
		b.WriteString(titleStyle(theme).Render("Event"))
		b.WriteString("\n")
		b.WriteString(helpStyle(theme).Render(m.selectedDate()))
		b.WriteString("\n\n")
		b.WriteString(highlightStyle(theme).Render(m.dialogEvent.Title))
		b.WriteString("\n\n")
		b.WriteString(helpStyle(theme).Render("D: delete  Esc: close"))
	}
	return box.Render(b.String())
}

func viewSettings(m Model) string {
	theme := themes[m.themeIndex]
	items := make([]string, 0, len(settingsItems))
	for i, item := range settingsItems {
		items = append(items, fmt.Sprintf("%s: %s", item, m.settingValue(i)))
	}
	return renderMenu("Settings", items, m.settingsIndex, "Enter to toggle, Left/Right to adjust", theme)
}

func (m Model) settingValue(index int) string {
	onOff := func(value bool) string {
		if value {
			return "ON"
		}
		return "OFF"
	}
	switch index {
	case settingTheme:
		return m.config.Theme
	case settingSound:
		return onOff(m.config.Sound)
	case settingMusic:
		if m.config.MusicPath == "" {
			return onOff(m.config.Music) + " (no file)"
		}
		return onOff(m.config.Music)
	case settingVolume:
		return fmt.Sprintf("%d%%", clampVolumePercent(m.config.Volume))
	case settingScale:
		return fmt.Sprintf("%dx", clampScale(m.config.Scale))
	case settingSync:
		if m.sync == nil {
			return onOff(m.config.Sync) + " (no server)"
		}
		return onOff(m.config.Sync)
	}
	return ""
}

func renderTabs(active Tab, theme Theme) string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf(" %d %s ", i+1, name)
		if Tab(i) == active {
			tabs = append(tabs, lipgloss.NewStyle().Reverse(true).Bold(true).Foreground(theme.AccentColor).Render(label))
			continue
		}
		tabs = append(tabs, helpStyle(theme).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func minGameSize(scale int) (int, int) {
	width := puzzle.Width*cellWidth(scale) + 4
	height := puzzle.Height*scale + 6
	return width, height
}

func titleStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
}

func highlightStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
}

func helpStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.TextColor)
}

func warningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
}

func center(width, height int, content string) string {
	if width == 0 || height == 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

func clampScale(value int) int {
	if value < 1 {
		return 1
	}
	if value > 3 {
		return 3
	}
	return value
}

func clampVolumePercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func cellWidth(scale int) int {
	if scale < 1 {
		scale = 1
	}
	return 2 * scale
}

func renderMenu(title string, items []string, selected int, footer string, theme Theme) string {
	maxWidth := lipgloss.Width(title)
	for _, item := range items {
		if width := lipgloss.Width(item); width > maxWidth {
			maxWidth = width
		}
	}
	if width := lipgloss.Width(footer); width > maxWidth {
		maxWidth = width
	}
	lineStyle := lipgloss.NewStyle().Width(maxWidth).Align(lipgloss.Center)
	var b strings.Builder
	b.WriteString(lineStyle.Render(titleStyle(theme).Render(title)))
	b.WriteString("\n\n")
	for i, line := range items {
		if i == selected {
			b.WriteString(lineStyle.Render(highlightStyle(theme).Render(line)))
		} else {
			b.WriteString(lineStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lineStyle.Render(helpStyle(theme).Render(footer)))
	return b.String()
}
