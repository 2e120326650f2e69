package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spm/internal/stream"
)

const (
	minSpeed = 0.25
	maxSpeed = 64
)

type TickMsg time.Time

// Replay steps through a recorded session one sample per interval,
// showing the current watts, the elapsed time and the plot so far. It
// starts paused.
type Replay struct {
	trace    *stream.Trace
	interval time.Duration
	speed    float64
	pos      int
	running  bool
}

func NewReplay(tr *stream.Trace, interval time.Duration) Replay {
	if interval <= 0 {
		interval = stream.DefaultInterval
	}
	return Replay{trace: tr, interval: interval, speed: 1}
}

func (m Replay) tick() tea.Cmd {
	d := time.Duration(float64(m.interval) / m.speed)
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Replay) Init() tea.Cmd {
	return m.tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.running = !m.running
		case "r":
			m.pos = 0
		case "+", "=":
			m.speed = math.Min(m.speed*2, maxSpeed)
		case "-":
			m.speed = math.Max(m.speed/2, minSpeed)
		}
		return m, nil

	case TickMsg:
		if m.running && m.pos < m.trace.Len() {
			m.pos++
		}
		return m, m.tick()
	}

	return m, nil
}

// Position is the number of samples shown so far.
func (m Replay) Position() int { return m.pos }

func (m Replay) Running() bool { return m.running }

func (m Replay) Speed() float64 { return m.speed }

func (m Replay) Done() bool { return m.pos >= m.trace.Len() }

func (m Replay) currentWatts() float64 {
	if m.pos == 0 {
		return 0
	}
	return m.trace.Watts[m.pos-1]
}

func (m Replay) elapsed() time.Duration {
	if m.pos == 0 {
		return 0
	}
	return time.Duration(m.trace.Times[m.pos-1] * float64(time.Second))
}

// FormatClock renders d as HH:MM:SS.
func FormatClock(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func (m Replay) View() string {
	status := StatusPaused.Render("PAUSED")
	if m.running {
		status = StatusRunning.Render("PLAYING")
	}
	if m.Done() {
		status = StatusPaused.Render("DONE")
	}

	hud := lipgloss.JoinHorizontal(lipgloss.Top,
		status, "   ",
		MetricLabel.Render("WATTS:"), MetricValue.Render(fmt.Sprintf("%4.0f", m.currentWatts())), "   ",
		MetricLabel.Render("TIME:"), MetricValue.Render(FormatClock(m.elapsed())), "   ",
		MetricLabel.Render("SPEED:"), MetricValue.Render(fmt.Sprintf("%gx", m.speed)),
	)

	var sb strings.Builder
	sb.WriteString(hud)
	sb.WriteString("\n\n")

	if m.pos >= 2 {
		sb.WriteString(asciigraph.Plot(m.trace.Watts[:m.pos],
			asciigraph.Height(12),
			asciigraph.Width(plotWidth),
			asciigraph.Precision(0),
			asciigraph.Caption("power [watts]"),
		))
	} else {
		sb.WriteString(KeyHint.Render("waiting for samples..."))
	}
	sb.WriteString("\n\n")

	progress := 0.0
	if m.trace.Len() > 0 {
		progress = float64(m.pos) / float64(m.trace.Len())
	}
	sb.WriteString(ProgressBar(progress, plotWidth))
	sb.WriteString("\n")
	sb.WriteString(KeyHint.Render("space play/pause · r restart · +/- speed · q quit"))
	sb.WriteString("\n")

	return sb.String()
}
