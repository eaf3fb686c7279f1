package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/sharedref/track"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	destroyedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const refreshInterval = 200 * time.Millisecond

type tickMsg time.Time

type inspectModel struct {
	reg   *track.Registry
	tbl   table.Model
	stats track.Stats
}

func newInspectModel(reg *track.Registry) *inspectModel {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "LABEL", Width: 28},
		{Title: "MODE", Width: 10},
		{Title: "AGE", Width: 12},
		{Title: "STATE", Width: 10},
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	tbl.SetStyles(styles)

	return &inspectModel{reg: reg, tbl: tbl}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *inspectModel) Init() tea.Cmd {
	m.refresh()
	return tick()
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tickMsg:
		m.refresh()
		return m, tick()
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *inspectModel) refresh() {
	m.stats = m.reg.Stats()

	snap := m.reg.Snapshot()
	rows := make([]table.Row, 0, len(snap))
	for _, rec := range snap {
		label := rec.Label
		if label == "" {
			label = "-"
		}
		state := "live"
		if rec.Destroyed {
			state = destroyedStyle.Render("destroyed")
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", rec.Block),
			label,
			rec.Mode.String(),
			time.Since(rec.CreatedAt).Truncate(time.Millisecond).String(),
			state,
		})
	}
	m.tbl.SetRows(rows)
}

func (m *inspectModel) View() string {
	title := titleStyle.Render("sharedref inspector")
	stats := statsStyle.Render(fmt.Sprintf(
		"live %d · allocated %d · destroyed %d · freed %d · promoted %d · misses %d",
		m.stats.Live, m.stats.Allocated, m.stats.Destroyed,
		m.stats.Freed, m.stats.Promoted, m.stats.PromoteMisses))
	help := helpStyle.Render("↑/↓ scroll · q quit")

	return title + "\n" + stats + "\n" +
		tableStyle.Render(m.tbl.View()) + "\n" + help + "\n"
}

func runInteractive(reg *track.Registry) error {
	p := tea.NewProgram(newInspectModel(reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
