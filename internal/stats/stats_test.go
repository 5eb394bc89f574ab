package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/articulate/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if got := MovingAverage([]float64{1, 5}, 1); got[1] != 5 {
		t.Fatalf("window 1 should copy values, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "===" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestScoreSeriesSkipsUnmeasured(t *testing.T) {
	attempts := []model.ExerciseAttempt{
		{ImpactedScores: map[model.Subscore]int{model.Fluency: 40}},
		{ImpactedScores: map[model.Subscore]int{model.Clarity: 70}},
		{ImpactedScores: map[model.Subscore]int{model.Fluency: 60, model.Clarity: 80}},
	}
	got := ScoreSeries(attempts, model.Fluency)
	if len(got) != 2 || got[0] != 40 || got[1] != 60 {
		t.Fatalf("unexpected fluency series %v", got)
	}
	if got := ScoreSeries(attempts, model.Impact); len(got) != 0 {
		t.Fatalf("expected empty impact series, got %v", got)
	}
}

func TestWeakestSubscores(t *testing.T) {
	score := model.CommunicationScore{
		Fluency:    model.Measured(70),
		Clarity:    model.Measured(40),
		Precision:  model.Measured(40),
		Confidence: model.Unmeasured(),
		Impact:     model.Measured(90),
	}
	got := WeakestSubscores(score, 3)
	want := []model.Subscore{model.Clarity, model.Precision, model.Fluency}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if got := WeakestSubscores(model.CommunicationScore{}, 2); len(got) != 0 {
		t.Fatalf("expected nothing for unmeasured profile, got %v", got)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, model.UserProgress{}, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}

	buf.Reset()
	p := model.UserProgress{
		CommunicationScore: model.CommunicationScore{Overall: 64},
		Archetype:          model.Archetype{Name: "Hedger", Icon: "~"},
		TotalSessions:      2,
		TotalPracticeTime:  150,
		TotalXP:            40,
		CurrentStreak:      2,
		LongestStreak:      5,
	}
	attempts := []model.ExerciseAttempt{{Score: 50}, {Score: 70}}
	if err := RenderSummary(&buf, p, attempts); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Overall: 64", "Archetype: ~ Hedger", "Practice time: 2m30s", "Streak: 2 (longest 5)", "Trend:  @"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestRenderScores(t *testing.T) {
	var buf bytes.Buffer
	score := model.CommunicationScore{Fluency: model.Measured(72)}
	if err := RenderScores(&buf, score); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Fluency       72") {
		t.Fatalf("expected fluency row in %q", out)
	}
	if !strings.Contains(out, "Impact         -") {
		t.Fatalf("expected unmeasured impact row in %q", out)
	}
}

func TestRenderHistoryNewestFirst(t *testing.T) {
	var buf bytes.Buffer
	attempts := []model.ExerciseAttempt{
		attempt("a1", "filler-words", 0, 40),
		attempt("a2", "impromptu-response", 1, 60),
	}
	names := func(id string) string { return strings.ToUpper(id) }
	if err := RenderHistory(&buf, attempts, names); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	first := strings.Index(out, "IMPROMPTU-RESPONSE")
	second := strings.Index(out, "FILLER-WORDS")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected newest attempt first in %q", out)
	}
	if !strings.Contains(out, "1m0s") {
		t.Fatalf("expected duration in %q", out)
	}
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	attempts := []model.ExerciseAttempt{
		attempt("a1", "filler-words", 0, 40),
		attempt("a2", "filler-words", 1, 60),
	}
	if err := RenderCurvesWithSize(&buf, attempts, 2, 40, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Session Scores") || !strings.Contains(out, "Subscores") {
		t.Fatalf("expected both plots in %q", out)
	}
	if !strings.Contains(out, "Fluency (solid)") {
		t.Fatalf("expected fluency legend in %q", out)
	}
	if strings.Contains(out, "Impact") {
		t.Fatalf("unmeasured subscores should not be plotted")
	}
}

func TestLabel(t *testing.T) {
	if got := Label(model.Confidence); got != "Confidence" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestRenderCatalog(t *testing.T) {
	var buf bytes.Buffer
	exercises := []model.Exercise{
		{ID: "filler-words", Name: "Filler", Category: "fluency", Tier: "foundation", EstimatedTime: 60},
		{ID: "blue-sky-detector", Name: "Blue Sky", Category: "precision", Tier: "advanced", EstimatedTime: 120},
	}
	ready := func(id string) bool { return id == "filler-words" }
	if err := RenderCatalog(&buf, exercises, ready); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[1], " 60s yes") {
		t.Fatalf("expected implemented marker, got %q", lines[1])
	}
	if strings.Contains(lines[2], "yes") {
		t.Fatalf("unexpected marker on %q", lines[2])
	}
}
