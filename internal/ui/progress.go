package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/job"
)

// DefaultLogLines is how many log lines the progress view keeps on screen
const DefaultLogLines = 12

// SpinnerFrames is the animation used while a report is generating
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

var logBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorMuted).
	Padding(0, 1)

// LevelStyle colours a log line by level
func LevelStyle(level logrus.Level) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch {
	case level <= logrus.ErrorLevel:
		return style.Foreground(ColorError)
	case level == logrus.WarnLevel:
		return style.Foreground(ColorWarning)
	case level >= logrus.DebugLevel:
		return style.Foreground(ColorMuted)
	default:
		return style
	}
}

// FormatEvent renders an event as a coloured "HH:MM:SS - message" line
func FormatEvent(ev job.Event) string {
	return LevelStyle(ev.Level).Render(ev.Line())
}

type eventMsg job.Event

type doneMsg struct {
	rest []job.Event
}

// waitForEvent delivers the next event, or doneMsg with any events still
// buffered once the job has finished.
func waitForEvent(events <-chan job.Event, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-events:
			return eventMsg(ev)
		case <-done:
			return doneMsg{rest: drainEvents(events)}
		}
	}
}

func drainEvents(events <-chan job.Event) []job.Event {
	var rest []job.Event
	for {
		select {
		case ev := <-events:
			rest = append(rest, ev)
		default:
			return rest
		}
	}
}

// Progress is a Bubble Tea model showing a spinner above a log box fed by
// job events.
type Progress struct {
	spinner     spinner.Model
	title       string
	lines       []job.Event
	maxLines    int
	events      <-chan job.Event
	done        <-chan struct{}
	cancel      context.CancelFunc
	finished    bool
	interrupted bool
}

// NewProgress creates the progress model. cancel is called on Ctrl+C.
func NewProgress(title string, events <-chan job.Event, done <-chan struct{}, cancel context.CancelFunc) Progress {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return Progress{
		spinner:  sp,
		title:    title,
		maxLines: DefaultLogLines,
		events:   events,
		done:     done,
		cancel:   cancel,
	}
}

// Init starts the spinner and the event pump
func (p Progress) Init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, waitForEvent(p.events, p.done))
}

// Update handles events, ticks, and Ctrl+C
func (p Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !p.interrupted {
			p.interrupted = true
			if p.cancel != nil {
				p.cancel()
			}
		}
		return p, nil

	case eventMsg:
		p.lines = append(p.lines, job.Event(msg))
		return p, waitForEvent(p.events, p.done)

	case doneMsg:
		p.lines = append(p.lines, msg.rest...)
		p.finished = true
		return p, tea.Quit

	case spinner.TickMsg:
		if p.finished {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}
	return p, nil
}

// View renders the log box and, while running, the spinner line
func (p Progress) View() string {
	var b strings.Builder

	if len(p.lines) > 0 {
		start := 0
		if len(p.lines) > p.maxLines {
			start = len(p.lines) - p.maxLines
		}
		rendered := make([]string, 0, len(p.lines)-start)
		for _, ev := range p.lines[start:] {
			rendered = append(rendered, FormatEvent(ev))
		}
		b.WriteString(logBoxStyle.Render(strings.Join(rendered, "\n")))
		b.WriteString("\n")
	}

	if !p.finished {
		title := p.title
		if p.interrupted {
			title = "Stopping..."
		}
		b.WriteString(p.spinner.View() + " " + title + "\n")
	}
	return b.String()
}

// Finished reports whether the job has completed
func (p Progress) Finished() bool {
	return p.finished
}

// Follow shows the progress of the runner's current job on out until it
// finishes. With animate false it prints plain lines instead of running a
// Bubble Tea program.
func Follow(runner *job.Runner, cancel context.CancelFunc, out io.Writer, animate bool) (job.Result, error) {
	done := runner.Done()
	if done == nil {
		return job.Result{}, fmt.Errorf("no job started")
	}

	if !animate {
		for {
			select {
			case ev := <-runner.Events():
				fmt.Fprintln(out, FormatEvent(ev))
			case <-done:
				for _, ev := range drainEvents(runner.Events()) {
					fmt.Fprintln(out, FormatEvent(ev))
				}
				return runner.Wait(), nil
			}
		}
	}

	model := NewProgress("Generating...", runner.Events(), done, cancel)
	if _, err := tea.NewProgram(model, tea.WithOutput(out)).Run(); err != nil {
		if cancel != nil {
			cancel()
		}
		runner.Wait()
		return job.Result{}, err
	}
	return runner.Wait(), nil
}
