package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/articulate/internal/catalog"
	"github.com/verte-zerg/articulate/internal/generator"
	"github.com/verte-zerg/articulate/internal/model"
	"github.com/verte-zerg/articulate/internal/progress"
	"github.com/verte-zerg/articulate/internal/store"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newModel(t *testing.T) (*Model, *fakeClock, *progress.Tracker) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	cat := catalog.Default()
	tr := progress.NewTracker(store.NewMemory(), cat,
		progress.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		progress.WithClock(clk.Now),
	)
	exercise, ok := cat.Exercise("impromptu-response")
	if !ok {
		t.Fatalf("missing exercise")
	}
	cfg := model.Config{UserID: "u", ExerciseID: exercise.ID, Minutes: 1, LogLevel: "info"}
	m := NewModel(cfg, exercise, tr, generator.NewWithSeed(7), WithClock(clk.Now))
	return m, clk, tr
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestSubmitRecordsAttempt(t *testing.T) {
	m, clk, tr := newModel(t)
	if m.prompt == "" {
		t.Fatalf("expected a prompt")
	}
	typeText(m, "Um I believe remote work helps because people focus better.")
	if !m.started {
		t.Fatalf("expected timer to start on first keystroke")
	}
	clk.now = clk.now.Add(30 * time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.state != stateResults || m.result == nil {
		t.Fatalf("expected results state, error: %s", m.errMsg)
	}
	if m.result.attempt.Duration != 30 {
		t.Fatalf("expected 30s duration, got %d", m.result.attempt.Duration)
	}
	if m.result.analysis.Filler.TotalFillerWords != 1 {
		t.Fatalf("expected one filler, got %d", m.result.analysis.Filler.TotalFillerWords)
	}
	if m.progress.TotalSessions != 1 {
		t.Fatalf("expected progress to update, got %d sessions", m.progress.TotalSessions)
	}
	if got := tr.Progress(context.Background(), "u").TotalSessions; got != 1 {
		t.Fatalf("expected stored progress, got %d sessions", got)
	}
	view := m.View()
	if !strings.Contains(view, "Score") || !strings.Contains(view, "n: next prompt") {
		t.Fatalf("expected results view, got %q", view)
	}
}

func TestSubmitEmptyResponse(t *testing.T) {
	m, _, _ := newModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.state != stateSpeaking {
		t.Fatalf("expected to stay in speaking state")
	}
	if m.errMsg == "" {
		t.Fatalf("expected error message for empty response")
	}
}

func TestTimerSubmitsWhenTimeIsUp(t *testing.T) {
	m, clk, _ := newModel(t)
	typeText(m, "So basically I think it works.")
	clk.now = clk.now.Add(20 * time.Second)
	m.Update(tickMsg(clk.now))
	if m.state != stateSpeaking {
		t.Fatalf("expected to keep speaking before the limit")
	}
	if m.elapsed != 20*time.Second {
		t.Fatalf("expected elapsed 20s, got %s", m.elapsed)
	}
	clk.now = clk.now.Add(45 * time.Second)
	m.Update(tickMsg(clk.now))
	if m.state != stateResults {
		t.Fatalf("expected automatic submit, error: %s", m.errMsg)
	}
	if m.result.attempt.Duration != 65 {
		t.Fatalf("expected 65s duration, got %d", m.result.attempt.Duration)
	}
}

func TestNextPromptResets(t *testing.T) {
	m, clk, _ := newModel(t)
	first := m.prompt
	typeText(m, "I believe so.")
	clk.now = clk.now.Add(10 * time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	if m.state != stateSpeaking || m.started || m.result != nil {
		t.Fatalf("expected a fresh session")
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input to be cleared")
	}
	if m.prompt == first {
		t.Fatalf("expected a different prompt")
	}
}

func TestRenderFooter(t *testing.T) {
	m, _, _ := newModel(t)
	m.progress = model.UserProgress{
		CurrentStreak:      3,
		TotalXP:            120,
		CommunicationScore: model.CommunicationScore{Overall: 64},
		Archetype:          model.Archetype{Name: "Hedger"},
	}
	m.elapsed = 42 * time.Second
	out := m.renderFooter()
	for _, want := range []string{"Time 0:42/1:00", "Streak 3", "XP 120", "Overall 64", "Hedger"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestClock(t *testing.T) {
	if got := clock(125 * time.Second); got != "2:05" {
		t.Fatalf("unexpected clock %q", got)
	}
}
