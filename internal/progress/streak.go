package progress

import (
	"time"

	"github.com/verte-zerg/articulate/internal/model"
)

const dateLayout = "2006-01-02"

// Milestones are the streak lengths that award a streak achievement on ingestion.
var Milestones = []int{7, 14, 30, 60, 100}

// DateKey returns the UTC calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// DayDiff returns the whole-day difference b-a between two date keys.
// ok is false if either key is malformed.
func DayDiff(a, b string) (int, bool) {
	ta, err := time.Parse(dateLayout, a)
	if err != nil {
		return 0, false
	}
	tb, err := time.Parse(dateLayout, b)
	if err != nil {
		return 0, false
	}
	return int(tb.Sub(ta).Hours() / 24), true
}

// ApplyStreak advances the streak for a practice at practiceDate.
// A missing or malformed lastPracticeDate starts a new streak. A practice
// dated before lastPracticeDate leaves the streak unchanged.
func ApplyStreak(p model.UserProgress, practiceDate time.Time) model.UserProgress {
	today := DateKey(practiceDate)
	diff, ok := DayDiff(p.LastPracticeDate, today)
	switch {
	case p.LastPracticeDate == "" || !ok:
		p.CurrentStreak = 1
		p.LongestStreak = max(1, p.LongestStreak)
		p.LastPracticeDate = today
	case diff <= 0:
	case diff == 1:
		p.CurrentStreak++
		p.LongestStreak = max(p.LongestStreak, p.CurrentStreak)
		p.LastPracticeDate = today
	default:
		p.CurrentStreak = 1
		p.LongestStreak = max(p.LongestStreak, 1)
		p.LastPracticeDate = today
	}
	return p
}

// DecayStreak zeroes the current streak when more than one day has passed
// since the last practice. lastPracticeDate is never modified.
func DecayStreak(p model.UserProgress, now time.Time) (model.UserProgress, bool) {
	if p.LastPracticeDate == "" {
		return p, false
	}
	diff, ok := DayDiff(p.LastPracticeDate, DateKey(now))
	if !ok || diff <= 1 || p.CurrentStreak == 0 {
		return p, false
	}
	p.CurrentStreak = 0
	return p, true
}

// CrossedMilestone returns the smallest milestone m with prev < m <= next.
func CrossedMilestone(prev, next int) (int, bool) {
	for _, m := range Milestones {
		if prev < m && next >= m {
			return m, true
		}
	}
	return 0, false
}

// RecalcOverall returns the rounded mean of the measured subscores, or the
// current overall when none are measured.
func RecalcOverall(score model.CommunicationScore) int {
	sum, n := 0, 0
	for _, s := range model.Subscores {
		if v, ok := score.Get(s).Value(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return score.Overall
	}
	return model.RoundHalfUp(float64(sum) / float64(n))
}

// BlendScores folds impacted values into score in subscore order.
// Unknown subscores are ignored.
func BlendScores(score model.CommunicationScore, impacted map[model.Subscore]int) model.CommunicationScore {
	for _, s := range model.Subscores {
		v, ok := impacted[s]
		if !ok {
			continue
		}
		score.Set(s, score.Get(s).Blend(v))
	}
	score.Overall = RecalcOverall(score)
	return score
}
