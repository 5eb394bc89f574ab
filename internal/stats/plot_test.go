package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 5, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotFixedRange(t *testing.T) {
	var buf bytes.Buffer
	err := Plot(&buf, "Scores", []Series{
		{Name: "Fluency", Values: []float64{40, 60, 80}},
		{Name: "Empty"},
	}, PlotOptions{Width: 12, Height: 5, Range: &ScoreRange})
	if err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Scaled per series") {
		t.Fatalf("fixed range plot should not print a scale note")
	}
	if strings.Contains(out, "Empty") {
		t.Fatalf("empty series should be skipped")
	}
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[1], " 100 │ ") {
		t.Fatalf("unexpected top axis line: %q", lines[1])
	}
	if !strings.HasPrefix(lines[5], "   0 │ ") {
		t.Fatalf("unexpected bottom axis line: %q", lines[5])
	}
	if got := runewidth.StringWidth(lines[1]); got != axisLabelWidth+3+12 {
		t.Fatalf("unexpected row width %d", got)
	}
}

func TestPlotNothingToDraw(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "None", []Series{{Name: "A"}}, 10, 4); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	expected := 80 - axisLabelWidth - runewidth.StringWidth(axisSeparator)
	if got := PlotWidthFor(80); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResample(t *testing.T) {
	if got := resample([]float64{1, 3}, 3); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("unexpected stretch: %v", got)
	}
	if got := resample([]float64{1, 3, 5, 7}, 2); got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected average: %v", got)
	}
	if got := resample([]float64{4}, 3); got[0] != 4 || got[2] != 4 {
		t.Fatalf("unexpected fill: %v", got)
	}
}
