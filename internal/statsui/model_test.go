package statsui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/articulate/internal/catalog"
	"github.com/verte-zerg/articulate/internal/model"
	"github.com/verte-zerg/articulate/internal/progress"
	"github.com/verte-zerg/articulate/internal/store"
)

func newTracker(t *testing.T, attempts int) *progress.Tracker {
	t.Helper()
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tr := progress.NewTracker(store.NewMemory(), catalog.Default(),
		progress.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		progress.WithClock(func() time.Time { return at }),
	)
	for i := 0; i < attempts; i++ {
		tr.Ingest(context.Background(), "u", model.ExerciseAttempt{
			ID:             "a" + string(rune('0'+i)),
			ExerciseID:     "filler-words",
			Score:          50 + i*10,
			ImpactedScores: map[model.Subscore]int{model.Fluency: 50 + i*10},
			XPEarned:       20,
			Duration:       60,
			Timestamp:      at.AddDate(0, 0, i-attempts),
		})
	}
	return tr
}

func TestParseFilter(t *testing.T) {
	base := model.StatsConfig{UserID: "u", CurveWindow: 3}
	cfg, err := parseFilter(base, [4]string{"filler-words", "2026-01-02", "5", "4"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.UserID != "u" || cfg.ExerciseID != "filler-words" || cfg.Last != 5 || cfg.CurveWindow != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Format("2006-01-02") != "2026-01-02" {
		t.Fatalf("unexpected since: %v", cfg.Since)
	}

	bad := [][4]string{
		{"", "02/01/2026", "", ""},
		{"", "", "-1", ""},
		{"", "", "", "0"},
	}
	for _, values := range bad {
		got, err := parseFilter(base, values)
		if err == nil {
			t.Fatalf("expected error for %v", values)
		}
		if got.CurveWindow != base.CurveWindow {
			t.Fatalf("config should be unchanged on error")
		}
	}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("next(%d): expected %d, got %d", tc.in, tc.next, got)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prev(%d): expected %d, got %d", tc.in, tc.prev, got)
		}
	}
}

func TestModelRendersOverview(t *testing.T) {
	m := NewModel(newTracker(t, 3), model.StatsConfig{UserID: "u", CurveWindow: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})

	view := m.View()
	if !strings.Contains(view, "Overview") {
		t.Fatalf("expected tabs in view")
	}
	if !strings.Contains(view, "Sessions") {
		t.Fatalf("expected summary cards in view")
	}
	if len(strings.Split(view, "\n")) != 60 {
		t.Fatalf("expected view to fill the window height")
	}
}

func TestModelTabsAndHistory(t *testing.T) {
	m := NewModel(newTracker(t, 2), model.StatsConfig{UserID: "u", CurveWindow: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabAchievements {
		t.Fatalf("expected achievements tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "Requirement") {
		t.Fatalf("expected achievement table header")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "Filler Word Cleanup") {
		t.Fatalf("expected history rows with exercise names")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap to overview, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabHistory {
		t.Fatalf("expected wrap to history, got %d", m.activeTab)
	}
}

func TestModelFilterForm(t *testing.T) {
	m := NewModel(newTracker(t, 3), model.StatsConfig{UserID: "u", CurveWindow: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[fieldLast].SetValue("1")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter mode to close, error: %s", m.filterError)
	}
	if len(m.report.Attempts) != 1 {
		t.Fatalf("expected 1 filtered attempt, got %d", len(m.report.Attempts))
	}
	if m.report.Progress.TotalSessions != 3 {
		t.Fatalf("filters should not change progress totals")
	}
}

func TestModelEmpty(t *testing.T) {
	m := NewModel(newTracker(t, 0), model.StatsConfig{UserID: "nobody"})
	if m.cfg.CurveWindow != 1 {
		t.Fatalf("expected curve window clamp, got %d", m.cfg.CurveWindow)
	}
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "No sessions found.") {
		t.Fatalf("expected empty message")
	}
}
