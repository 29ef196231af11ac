package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"typeconv/internal/stress"
)

type progressModel struct {
	title   string
	events  <-chan stress.Event
	spinner spinner.Model
	prog    progress.Model
	workers []workerItem
	width   int
	done    bool
}

type workerItem struct {
	name       string
	status     stress.Status
	done       uint64
	total      uint64
	mismatches uint64
}

type eventMsg stress.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders stress worker
// progress until events is closed.
func NewProgressModel(title string, workers int, events <-chan stress.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]workerItem, workers)
	for i := range items {
		items[i] = workerItem{name: fmt.Sprintf("worker %d", i), status: stress.StatusQueued}
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		workers: items,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(stress.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.workers) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-40, 12)
	for _, w := range m.workers {
		status := styleStatus(w.status).Render(fmt.Sprintf("%8s", w.status))
		counts := fmt.Sprintf("%d/%d", w.done, w.total)
		if w.mismatches > 0 {
			counts += fmt.Sprintf("  %d mismatches", w.mismatches)
		}
		fmt.Fprintf(&b, "  %s %s %s\n", status, pad(truncate(w.name, nameWidth), nameWidth), counts)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
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

func (m *progressModel) applyEvent(ev stress.Event) tea.Cmd {
	if ev.Worker < 0 || ev.Worker >= len(m.workers) {
		return nil
	}
	w := &m.workers[ev.Worker]
	w.status = ev.Status
	w.done = ev.Done
	w.total = ev.Total
	w.mismatches = ev.Mismatches
	return m.prog.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	var done, total float64
	for _, w := range m.workers {
		if w.status == stress.StatusDone || w.status == stress.StatusError {
			done += 1
		} else if w.total > 0 {
			done += float64(w.done) / float64(w.total)
		}
		total += 1
	}
	if total == 0 {
		return 0
	}
	return done / total
}

func styleStatus(status stress.Status) lipgloss.Style {
	switch status {
	case stress.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case stress.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case stress.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
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
	return runewidth.Truncate(value, width, "...")
}

func pad(value string, width int) string {
	return runewidth.FillRight(value, width)
}
