// Package ui renders live build progress with Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cargomate/internal/pipeline"
)

// stageMessages rotate in the header while the compiler works.
var stageMessages = []string{
	"charting course through dependency seas",
	"forging dependencies in the shipyard",
	"compiling crates at flank speed",
	"navigating compilation waters",
	"measuring twice, compiling once",
	"inspecting code under magnification",
	"hauling cargo across the digital dock",
	"sweeping the deck of stale artifacts",
	"polishing binaries to a mirror shine",
	"plotting course through the error log",
}

// stageRotateEvery is how long one header message stays up.
const stageRotateEvery = 2 * time.Second

type progressModel struct {
	title      string
	events     <-chan pipeline.Event
	counters   *pipeline.Counters
	spinner    spinner.Model
	detail     string
	stageIndex int
	lastRotate time.Time
	width      int
	done       bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders live counters and
// the latest event detail. The counters instance is the one the pipeline
// updates; the model reads it on every spinner tick.
func NewProgressModel(title string, counters *pipeline.Counters, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &progressModel{
		title:      title,
		events:     events,
		counters:   counters,
		spinner:    sp,
		lastRotate: time.Now(),
		width:      80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		ev := pipeline.Event(msg)
		if ev.Detail != "" {
			m.detail = ev.Detail
		}
		return m, m.listenForEvent()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		if time.Since(m.lastRotate) > stageRotateEvery {
			m.stageIndex = (m.stageIndex + 1) % len(stageMessages)
			m.lastRotate = time.Now()
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s | %s", m.title, stageMessages[m.stageIndex])
	if m.done {
		header = fmt.Sprintf("done: %s", m.title)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width-2)))
	b.WriteString("\n\n")

	counts := m.counters.Snapshot()
	b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		styleCount("errors", counts.Errors, "1"),
		styleCount("warnings", counts.Warnings, "3"),
		styleCount("artifacts", counts.Artifacts, "2"),
	))
	if m.detail != "" {
		detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		b.WriteString("  ")
		b.WriteString(detailStyle.Render(truncate(m.detail, m.width-4)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func styleCount(label string, n int, colorCode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	if n > 0 {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorCode)).Bold(true)
	}
	return style.Render(fmt.Sprintf("%d %s", n, label))
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
