// Package tui implements the interactive dashboard: a single-screen
// bubbletea program showing test progress, the rounding-error gauge and
// memory usage while the Fermat loop runs in the background.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/gfncheck/internal/fermat"
	"github.com/agbru/gfncheck/internal/metrics"
)

// tickInterval paces dashboard refreshes between progress messages.
const tickInterval = 250 * time.Millisecond

// progressBarWidth is the width in characters of the progress bar.
const progressBarWidth = 40

// keyMap defines the dashboard key bindings.
type keyMap struct {
	Quit key.Binding
}

// ShortHelp returns the bindings shown in the mini help view.
func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Quit} }

// FullHelp returns the bindings for the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Quit}} }

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ProgressMsg carries a progress update into the model.
type ProgressMsg fermat.Progress

// DoneMsg signals test completion.
type DoneMsg struct {
	Result fermat.Result
	Err    error
}

type tickMsg time.Time

// Model is the root bubbletea model of the dashboard.
type Model struct {
	target string
	keys   keyMap
	help   help.Model
	mem    *metrics.MemoryCollector

	progress fermat.Progress
	result   *fermat.Result
	err      error
	started  time.Time
	quitting bool

	// Cancel stops the underlying test when the user quits early.
	Cancel func()
}

// NewModel creates the dashboard for the named target.
func NewModel(target string, cancel func()) Model {
	return Model{
		target:  target,
		keys:    keys,
		help:    help.New(),
		mem:     metrics.NewMemoryCollector(),
		started: time.Now(),
		Cancel:  cancel,
	}
}

// Init schedules the first refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles key, tick, progress and completion messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			if m.Cancel != nil {
				m.Cancel()
			}
			return m, tea.Quit
		}
	case ProgressMsg:
		m.progress = fermat.Progress(msg)
		return m, nil
	case DoneMsg:
		m.result = &msg.Result
		m.err = msg.Err
		return m, tea.Quit
	case tickMsg:
		return m, tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("gfncheck") + " " + targetStyle.Render(m.target) + "\n\n")

	pct := 0.0
	if m.progress.Total > 0 {
		pct = float64(m.progress.Done) / float64(m.progress.Total)
	}
	b.WriteString(renderBar(pct) + fmt.Sprintf("  %6.2f%%\n\n", 100*pct))

	snap := m.mem.Snapshot()
	b.WriteString(labelStyle.Render("iterations ") + valueStyle.Render(fmt.Sprintf("%d / %d", m.progress.Done, m.progress.Total)) + "\n")
	b.WriteString(labelStyle.Render("max error  ") + errStyle(m.progress.MaxError).Render(fmt.Sprintf("%.4f", m.progress.MaxError)) + "\n")
	b.WriteString(labelStyle.Render("elapsed    ") + valueStyle.Render(time.Since(m.started).Truncate(time.Second).String()) + "\n")
	b.WriteString(labelStyle.Render("heap       ") + valueStyle.Render(fmt.Sprintf("%d MiB", snap.HeapAlloc>>20)) + "\n\n")

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderBar(pct float64) string {
	filled := int(pct * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	return barStyle.Render(strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled))
}

// Style definitions for the dashboard panels.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// errStyle picks the value style for a rounding-error reading.
func errStyle(e float64) lipgloss.Style {
	switch {
	case e >= 0.4:
		return alertStyle
	case e >= 0.25:
		return warnStyle
	default:
		return valueStyle
	}
}
