package viz

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/spm/internal/stream"
	"github.com/san-kum/spm/internal/sweep"
)

func TestResample(t *testing.T) {
	// unsorted input on the line y = 2x
	xs := []float64{3, 1, 2, 0}
	ys := []float64{6, 2, 4, 0}

	outX, outY, err := Resample(xs, ys, 7)
	if err != nil {
		t.Fatal(err)
	}
	if outX[0] != 0 || outX[6] != 3 {
		t.Errorf("unexpected range %v", outX)
	}
	for i := range outX {
		if math.Abs(outY[i]-2*outX[i]) > 1e-12 {
			t.Errorf("point %d: expected %f, got %f", i, 2*outX[i], outY[i])
		}
	}

	if _, _, err := Resample([]float64{1, 2}, []float64{1}, 5); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, _, err := Resample([]float64{1}, []float64{1}, 5); err == nil {
		t.Error("expected error for a single point")
	}
}

func TestPowerCurve(t *testing.T) {
	res, err := sweep.Run(context.Background(), sweep.Config{
		StartMicros: 2.5e4, StopMicros: 1e6, Samples: 200, CylinderDiameterKm: 54.2e-6,
	})
	if err != nil {
		t.Fatal(err)
	}

	graph, err := PowerCurve(res)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(graph, "power [watts] vs speed") {
		t.Errorf("expected caption in graph:\n%s", graph)
	}
}

func TestTracePlot(t *testing.T) {
	if _, err := TracePlot(&stream.Trace{}); err == nil {
		t.Error("expected error for empty trace")
	}

	graph, err := TracePlot(&stream.Trace{Times: []float64{1}, Watts: []float64{42}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(graph, "power [watts]") {
		t.Errorf("expected caption in graph:\n%s", graph)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61 * time.Second, "00:01:01"},
		{3*time.Hour + 2*time.Minute + 1*time.Second, "03:02:01"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.d); got != tt.want {
			t.Errorf("%v: expected %s, got %s", tt.d, tt.want, got)
		}
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReplayPlayback(t *testing.T) {
	tr := &stream.Trace{
		Times: []float64{1, 2, 3},
		Watts: []float64{10, 20, 30},
	}
	var m tea.Model = NewReplay(tr, time.Second)

	// paused replays ignore ticks
	m, _ = m.Update(TickMsg(time.Now()))
	if got := m.(Replay).Position(); got != 0 {
		t.Fatalf("expected position 0 while paused, got %d", got)
	}

	m, _ = m.Update(key(" "))
	if !m.(Replay).Running() {
		t.Fatal("expected replay to be running after space")
	}

	for i := 0; i < 5; i++ {
		m, _ = m.Update(TickMsg(time.Now()))
	}
	r := m.(Replay)
	if r.Position() != 3 || !r.Done() {
		t.Errorf("expected replay to stop at the end, got position %d", r.Position())
	}
	if !strings.Contains(r.View(), "00:00:03") {
		t.Errorf("expected timer in view:\n%s", r.View())
	}

	m, _ = m.Update(key("r"))
	if m.(Replay).Position() != 0 {
		t.Error("expected restart to rewind")
	}
}

func TestReplaySpeedBounds(t *testing.T) {
	var m tea.Model = NewReplay(&stream.Trace{}, 0)
	for i := 0; i < 20; i++ {
		m, _ = m.Update(key("+"))
	}
	if got := m.(Replay).Speed(); got != maxSpeed {
		t.Errorf("expected speed capped at %v, got %v", float64(maxSpeed), got)
	}
	for i := 0; i < 20; i++ {
		m, _ = m.Update(key("-"))
	}
	if got := m.(Replay).Speed(); got != minSpeed {
		t.Errorf("expected speed floored at %v, got %v", minSpeed, got)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestSummary(t *testing.T) {
	out := Summary("sweep", F("samples", "%d", 1000), F("max watts", "%.1f", 147.7))
	for _, want := range []string{"sweep", "samples", "1000", "147.7"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary:\n%s", want, out)
		}
	}
}
