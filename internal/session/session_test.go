package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/articulate/internal/catalog"
	"github.com/verte-zerg/articulate/internal/model"
)

const transcript = "Um, I think remote work is, like, here to stay because teams ship faster. " +
	"For example, my team cut meetings in half. So, basically, I believe it works."

func TestAnalyzeFeedsFillerCountIntoFluency(t *testing.T) {
	a := Analyze(transcript, 0.5)

	require.Positive(t, a.Filler.TotalFillerWords)
	assert.InDelta(t, float64(a.Filler.TotalFillerWords), a.Diagnostics.Fluency.Signals["fillerWordCount"], 1e-9)
	assert.Equal(t, 2, a.Structure.PositionCount)
	assert.Equal(t, 28, a.Words)
	assert.Equal(t, 0.5, a.Minutes)
}

func TestNewAttemptRestrictsToImpactedScores(t *testing.T) {
	ex, ok := catalog.Default().Exercise("filler-words")
	require.True(t, ok)
	a := Analyze(transcript, 0.5)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	attempt, err := NewAttempt(ex, a, 95*time.Second+600*time.Millisecond, at)
	require.NoError(t, err)

	_, err = uuid.Parse(attempt.ID)
	assert.NoError(t, err)
	assert.Equal(t, "filler-words", attempt.ExerciseID)
	assert.Equal(t, 96, attempt.Duration)
	assert.Equal(t, at, attempt.Timestamp)
	require.Len(t, attempt.ImpactedScores, 2)
	assert.Equal(t, a.Diagnostics.Subscores[model.Fluency], attempt.ImpactedScores[model.Fluency])
	assert.Equal(t, a.Diagnostics.Subscores[model.Clarity], attempt.ImpactedScores[model.Clarity])

	want := model.RoundHalfUp(float64(attempt.ImpactedScores[model.Fluency]+attempt.ImpactedScores[model.Clarity]) / 2)
	assert.Equal(t, want, attempt.Score)
	assert.Equal(t, BaseXP+want/5, attempt.XPEarned)
}

func TestNewAttemptWithoutImpactsUsesAllSubscores(t *testing.T) {
	a := Analyze("", 1)
	attempt, err := NewAttempt(model.Exercise{ID: "free"}, a, time.Minute, time.Now())
	require.NoError(t, err)
	assert.Empty(t, attempt.ImpactedScores)
	assert.Equal(t, meanScore(a.Diagnostics.Subscores), attempt.Score)
}

func TestNewAttemptValidation(t *testing.T) {
	a := Analyze("hello there", 1)

	_, err := NewAttempt(model.Exercise{}, a, time.Minute, time.Now())
	assert.Error(t, err)

	_, err = NewAttempt(model.Exercise{ID: "x"}, a, -time.Minute, time.Now())
	assert.Error(t, err)

	_, err = NewAttempt(model.Exercise{ID: "x"}, a, time.Minute, time.Time{})
	assert.Error(t, err)
}

func TestValidateRejectsUnknownSubscore(t *testing.T) {
	err := Validate(model.ExerciseAttempt{
		ID:             "a",
		ExerciseID:     "x",
		Score:          50,
		ImpactedScores: map[model.Subscore]int{"volume": 10},
		Timestamp:      time.Now(),
	})
	assert.Error(t, err)

	err = Validate(model.ExerciseAttempt{
		ID:             "a",
		ExerciseID:     "x",
		Score:          101,
		ImpactedScores: map[model.Subscore]int{model.Impact: 10},
		Timestamp:      time.Now(),
	})
	assert.Error(t, err)
}
