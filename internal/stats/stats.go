// Package stats contains progress summaries, curves and report tables.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/articulate/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	r := Range{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	if r.Max-r.Min < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	last := len(sparkChars) - 1
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - r.Min) / (r.Max - r.Min) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(idx, last))])
	}
	return b.String()
}

// ScoreSeries returns the per-attempt values of one subscore, skipping
// attempts that did not measure it.
func ScoreSeries(attempts []model.ExerciseAttempt, s model.Subscore) []float64 {
	out := make([]float64, 0, len(attempts))
	for _, a := range attempts {
		if v, ok := a.ImpactedScores[s]; ok {
			out = append(out, float64(v))
		}
	}
	return out
}

// OverallSeries returns the attempt scores in order.
func OverallSeries(attempts []model.ExerciseAttempt) []float64 {
	out := make([]float64, len(attempts))
	for i, a := range attempts {
		out[i] = float64(a.Score)
	}
	return out
}

// RenderSummary prints the headline numbers of a progress record.
func RenderSummary(w io.Writer, p model.UserProgress, attempts []model.ExerciseAttempt) error {
	if p.TotalSessions == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	archetype := p.Archetype.Name
	if p.Archetype.Icon != "" {
		archetype = p.Archetype.Icon + " " + archetype
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Overall: %d", p.CommunicationScore.Overall),
		fmt.Sprintf("Archetype: %s", archetype),
		fmt.Sprintf("Sessions: %d", p.TotalSessions),
		fmt.Sprintf("Practice time: %s", (time.Duration(p.TotalPracticeTime) * time.Second).String()),
		fmt.Sprintf("XP: %d", p.TotalXP),
		fmt.Sprintf("Streak: %d (longest %d)", p.CurrentStreak, p.LongestStreak),
		fmt.Sprintf("Achievements: %d", len(p.Achievements)),
	}
	if len(attempts) > 1 {
		lines = append(lines, fmt.Sprintf("Trend: %s", Sparkline(OverallSeries(attempts))))
	}
	return writeLines(w, append(lines, "")...)
}

// RenderScores prints the subscore table of a score profile.
func RenderScores(w io.Writer, score model.CommunicationScore) error {
	rows := make([][]string, 0, len(model.Subscores))
	for _, s := range model.Subscores {
		rows = append(rows, []string{Label(s), score.Get(s).String()})
	}
	lines := formatTable([]string{"Subscore", "Score"}, rows, map[int]bool{1: true})
	return writeLines(w, append(append([]string{"Scores"}, lines...), "")...)
}

// RenderCurves prints smoothed overall and subscore curves for attempts.
func RenderCurves(w io.Writer, attempts []model.ExerciseAttempt, window int) error {
	return RenderCurvesWithSize(w, attempts, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints the curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, attempts []model.ExerciseAttempt, window, totalWidth, height int, useColor bool) error {
	if len(attempts) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	opts := PlotOptions{Width: width, Height: height, Color: useColor, Range: &ScoreRange}
	if err := Plot(w, "Session Scores", []Series{
		{Name: "Score", Values: MovingAverage(OverallSeries(attempts), window)},
	}, opts); err != nil {
		return err
	}
	series := make([]Series, 0, len(model.Subscores))
	for _, s := range model.Subscores {
		series = append(series, Series{
			Name:   Label(s),
			Values: MovingAverage(ScoreSeries(attempts, s), window),
		})
	}
	return Plot(w, "Subscores", series, opts)
}

// RenderHistory prints one row per attempt, newest first.
// name maps exercise ids to display names and may be nil.
func RenderHistory(w io.Writer, attempts []model.ExerciseAttempt, name func(string) string) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := formatTable(
		[]string{"When", "Exercise", "Score", "XP", "Duration"},
		HistoryRows(attempts, name),
		map[int]bool{2: true, 3: true, 4: true},
	)
	return writeLines(w, append(append([]string{"History"}, lines...), "")...)
}

// HistoryRows returns table cells for attempts, newest first.
func HistoryRows(attempts []model.ExerciseAttempt, name func(string) string) [][]string {
	rows := make([][]string, 0, len(attempts))
	for i := len(attempts) - 1; i >= 0; i-- {
		a := attempts[i]
		exercise := a.ExerciseID
		if name != nil {
			exercise = name(a.ExerciseID)
		}
		rows = append(rows, []string{
			a.Timestamp.Local().Format("2006-01-02 15:04"),
			exercise,
			fmt.Sprintf("%d", a.Score),
			fmt.Sprintf("+%d", a.XPEarned),
			(time.Duration(a.Duration) * time.Second).String(),
		})
	}
	return rows
}

// RenderAchievements prints the achievement table with unlock progress.
func RenderAchievements(w io.Writer, rows []AchievementRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No achievements defined.")
		return err
	}
	lines := formatTable(
		[]string{"", "Achievement", "Status", "XP", "Requirement"},
		AchievementCells(rows),
		map[int]bool{3: true},
	)
	return writeLines(w, append(append([]string{"Achievements"}, lines...), "")...)
}

// AchievementCells returns table cells for achievement rows.
func AchievementCells(rows []AchievementRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Def.Icon,
			r.Def.Name,
			r.Status(),
			fmt.Sprintf("%d", r.Def.XPReward),
			r.Def.Requirement,
		})
	}
	return out
}

// Label returns the display name of a subscore.
func Label(s model.Subscore) string {
	name := string(s)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
