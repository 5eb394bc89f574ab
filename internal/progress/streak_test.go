package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/articulate/internal/model"
)

func day(d int) time.Time {
	return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC).AddDate(0, 0, d)
}

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2026, 3, 2, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-01", DateKey(local))
}

func TestDayDiff(t *testing.T) {
	diff, ok := DayDiff("2026-02-28", "2026-03-01")
	assert.True(t, ok)
	assert.Equal(t, 1, diff)

	diff, ok = DayDiff("2026-03-05", "2026-03-01")
	assert.True(t, ok)
	assert.Equal(t, -4, diff)

	_, ok = DayDiff("yesterday", "2026-03-01")
	assert.False(t, ok)
}

func TestApplyStreak(t *testing.T) {
	p := ApplyStreak(model.UserProgress{}, day(0))
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.LongestStreak)
	assert.Equal(t, "2026-03-01", p.LastPracticeDate)

	same := ApplyStreak(p, day(0).Add(10*time.Hour))
	assert.Equal(t, p, same)

	next := ApplyStreak(p, day(1))
	assert.Equal(t, 2, next.CurrentStreak)
	assert.Equal(t, 2, next.LongestStreak)

	broken := ApplyStreak(p, day(3))
	assert.Equal(t, 1, broken.CurrentStreak)
	assert.Equal(t, "2026-03-04", broken.LastPracticeDate)

	long := model.UserProgress{CurrentStreak: 4, LongestStreak: 9, LastPracticeDate: "2026-02-20"}
	long = ApplyStreak(long, day(0))
	assert.Equal(t, 1, long.CurrentStreak)
	assert.Equal(t, 9, long.LongestStreak)

	earlier := ApplyStreak(next, day(-5))
	assert.Equal(t, next, earlier)

	garbled := ApplyStreak(model.UserProgress{CurrentStreak: 5, LongestStreak: 5, LastPracticeDate: "n/a"}, day(0))
	assert.Equal(t, 1, garbled.CurrentStreak)
	assert.Equal(t, 5, garbled.LongestStreak)
}

func TestDecayStreak(t *testing.T) {
	p := model.UserProgress{CurrentStreak: 4, LongestStreak: 4, LastPracticeDate: "2026-03-01"}

	same, changed := DecayStreak(p, day(1))
	assert.False(t, changed)
	assert.Equal(t, p, same)

	lapsed, changed := DecayStreak(p, day(2))
	assert.True(t, changed)
	assert.Zero(t, lapsed.CurrentStreak)
	assert.Equal(t, 4, lapsed.LongestStreak)
	assert.Equal(t, "2026-03-01", lapsed.LastPracticeDate)

	_, changed = DecayStreak(model.UserProgress{}, day(10))
	assert.False(t, changed)

	malformed := model.UserProgress{CurrentStreak: 4, LastPracticeDate: "not-a-date"}
	kept, changed := DecayStreak(malformed, day(10))
	assert.False(t, changed)
	assert.Equal(t, malformed, kept)
}

func TestCrossedMilestone(t *testing.T) {
	tests := []struct {
		prev, next int
		want       int
		ok         bool
	}{
		{6, 7, 7, true},
		{7, 8, 0, false},
		{5, 30, 7, true},
		{13, 14, 14, true},
		{99, 100, 100, true},
		{100, 101, 0, false},
		{0, 1, 0, false},
	}
	for _, tt := range tests {
		got, ok := CrossedMilestone(tt.prev, tt.next)
		assert.Equal(t, tt.ok, ok, "%d->%d", tt.prev, tt.next)
		assert.Equal(t, tt.want, got, "%d->%d", tt.prev, tt.next)
	}
}

func TestBlendScores(t *testing.T) {
	var score model.CommunicationScore
	score = BlendScores(score, map[model.Subscore]int{model.Fluency: 60})
	assert.Equal(t, model.Measured(60), score.Fluency)

	score = BlendScores(score, map[model.Subscore]int{model.Fluency: 90})
	assert.Equal(t, model.Measured(69), score.Fluency)
	assert.Equal(t, 69, score.Overall)

	score = BlendScores(score, map[model.Subscore]int{model.Clarity: 150, "volume": 10})
	assert.Equal(t, model.Measured(100), score.Clarity)
	assert.False(t, score.Precision.IsMeasured())
}

func TestRecalcOverall(t *testing.T) {
	var score model.CommunicationScore
	score.Overall = 42
	assert.Equal(t, 42, RecalcOverall(score))

	score.Fluency = model.Measured(80)
	score.Clarity = model.Measured(60)
	assert.Equal(t, 70, RecalcOverall(score))

	score.Impact = model.Measured(61)
	assert.Equal(t, 67, RecalcOverall(score))
}
