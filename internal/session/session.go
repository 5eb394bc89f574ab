// Package session turns a transcript into an analysis and an exercise attempt.
package session

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/verte-zerg/articulate/internal/diagnostics"
	"github.com/verte-zerg/articulate/internal/filler"
	"github.com/verte-zerg/articulate/internal/model"
	"github.com/verte-zerg/articulate/internal/structure"
)

// BaseXP is awarded for every attempt before the score bonus.
const BaseXP = 10

// Analysis bundles every analyzer result for one transcript.
type Analysis struct {
	Transcript  string             `json:"-"`
	Minutes     float64            `json:"minutes"`
	Words       int                `json:"words"`
	Filler      filler.Result      `json:"filler"`
	Structure   structure.Result   `json:"structure"`
	Diagnostics diagnostics.Result `json:"diagnostics"`
}

// Analyze runs all analyzers over transcript spoken for minutes. The filler
// count feeds the fluency diagnostic.
func Analyze(transcript string, minutes float64) Analysis {
	fill := filler.Analyze(transcript, minutes)
	return Analysis{
		Transcript:  transcript,
		Minutes:     minutes,
		Words:       len(diagnostics.Words(transcript)),
		Filler:      fill,
		Structure:   structure.Analyze(transcript, minutes),
		Diagnostics: diagnostics.Analyze(transcript, minutes, diagnostics.WithFillerCount(fill.TotalFillerWords)),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewAttempt builds a validated attempt for exercise from a. Only the
// subscores the exercise trains are recorded; the attempt score is their
// rounded mean, or the mean of all public subscores when the exercise lists none.
func NewAttempt(exercise model.Exercise, a Analysis, duration time.Duration, at time.Time) (model.ExerciseAttempt, error) {
	impacted := make(map[model.Subscore]int, len(exercise.ImpactsScores))
	for _, s := range exercise.ImpactsScores {
		if v, ok := a.Diagnostics.Subscores[s]; ok {
			impacted[s] = v
		}
	}
	scored := impacted
	if len(scored) == 0 {
		scored = a.Diagnostics.Subscores
	}

	score := meanScore(scored)
	attempt := model.ExerciseAttempt{
		ID:             uuid.NewString(),
		ExerciseID:     exercise.ID,
		Score:          score,
		ImpactedScores: impacted,
		XPEarned:       BaseXP + score/5,
		Duration:       int(math.Round(duration.Seconds())),
		Timestamp:      at,
	}
	if err := Validate(attempt); err != nil {
		return model.ExerciseAttempt{}, err
	}
	return attempt, nil
}

// Validate checks the field constraints of an attempt.
func Validate(a model.ExerciseAttempt) error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("session: invalid attempt: %w", err)
	}
	return nil
}

func meanScore(scores map[model.Subscore]int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, v := range scores {
		sum += v
	}
	return model.RoundHalfUp(float64(sum) / float64(len(scores)))
}
