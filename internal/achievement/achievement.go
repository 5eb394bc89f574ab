// Package achievement decides which achievement definitions a user has unlocked.
package achievement

import (
	"github.com/verte-zerg/articulate/internal/model"
)

// Kind defaults applied when a definition leaves Target unset.
const (
	DefaultImprovementTarget = 20
	DefaultMasteryTarget     = 10
	DefaultPerfectTarget     = 100
)

// Catalog supplies achievement definitions and category membership.
type Catalog interface {
	Achievements() []model.Achievement
	ExercisesByCategory(category string) []model.Exercise
}

// Evaluator applies the per-kind unlock predicates. It holds no per-user state.
type Evaluator struct {
	catalog Catalog
}

// NewEvaluator returns an Evaluator over c.
func NewEvaluator(c Catalog) *Evaluator {
	return &Evaluator{catalog: c}
}

// Evaluate returns, in catalog order, the definitions that are unlocked for
// progress and history and not already owned.
func (e *Evaluator) Evaluate(progress model.UserProgress, history []model.ExerciseAttempt) []model.Achievement {
	owned := make(map[string]struct{}, len(progress.Achievements))
	for _, id := range progress.Achievements {
		owned[id] = struct{}{}
	}
	var out []model.Achievement
	for _, def := range e.catalog.Achievements() {
		if _, ok := owned[def.ID]; ok {
			continue
		}
		if e.Unlocked(def, progress, history) {
			out = append(out, def)
		}
	}
	return out
}

// Unlocked reports whether def's condition holds, ignoring ownership.
func (e *Evaluator) Unlocked(def model.Achievement, progress model.UserProgress, history []model.ExerciseAttempt) bool {
	switch def.Kind {
	case model.KindStreak:
		return progress.CurrentStreak >= def.TargetOr(0)
	case model.KindSessions:
		return progress.TotalSessions >= def.TargetOr(0)
	case model.KindScore:
		return progress.CommunicationScore.Overall >= def.TargetOr(0)
	case model.KindImprovement:
		if !def.Subscore.Valid() {
			return false
		}
		spread, ok := improvement(history, def.Subscore)
		return ok && spread >= def.TargetOr(DefaultImprovementTarget)
	case model.KindExerciseMastery:
		if def.ExerciseID == "" {
			return false
		}
		return attemptCounts(history)[def.ExerciseID] >= def.TargetOr(DefaultMasteryTarget)
	case model.KindPerfect:
		target := def.TargetOr(DefaultPerfectTarget)
		for _, a := range history {
			if a.Score >= target {
				return true
			}
		}
		return false
	case model.KindCategoryMastery:
		if def.Category == "" {
			return false
		}
		members := e.catalog.ExercisesByCategory(def.Category)
		if len(members) == 0 {
			return false
		}
		counts := attemptCounts(history)
		for _, ex := range members {
			if counts[ex.ID] == 0 {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Progress is how far a user is toward a countable achievement.
type Progress struct {
	Current int
	Target  int
}

// Done reports whether Current has reached Target.
func (p Progress) Done() bool {
	return p.Current >= p.Target
}

// Progress reports counting progress for def. ok is false for kinds without
// a meaningful counter (improvement, perfect) or incomplete definitions.
func (e *Evaluator) Progress(def model.Achievement, progress model.UserProgress, history []model.ExerciseAttempt) (Progress, bool) {
	switch def.Kind {
	case model.KindStreak:
		return Progress{Current: progress.CurrentStreak, Target: def.TargetOr(1)}, true
	case model.KindSessions:
		return Progress{Current: progress.TotalSessions, Target: def.TargetOr(1)}, true
	case model.KindScore:
		return Progress{Current: progress.CommunicationScore.Overall, Target: def.TargetOr(1)}, true
	case model.KindExerciseMastery:
		if def.ExerciseID == "" {
			return Progress{}, false
		}
		return Progress{Current: attemptCounts(history)[def.ExerciseID], Target: def.TargetOr(DefaultMasteryTarget)}, true
	case model.KindCategoryMastery:
		if def.Category == "" {
			return Progress{}, false
		}
		members := e.catalog.ExercisesByCategory(def.Category)
		counts := attemptCounts(history)
		done := 0
		for _, ex := range members {
			if counts[ex.ID] > 0 {
				done++
			}
		}
		return Progress{Current: done, Target: max(len(members), 1)}, true
	default:
		return Progress{}, false
	}
}

// improvement returns max-min of the recorded values for s. ok is false with
// fewer than two recorded values.
func improvement(history []model.ExerciseAttempt, s model.Subscore) (int, bool) {
	n, lo, hi := 0, 0, 0
	for _, a := range history {
		v, ok := a.ImpactedScores[s]
		if !ok {
			continue
		}
		if n == 0 || v < lo {
			lo = v
		}
		if n == 0 || v > hi {
			hi = v
		}
		n++
	}
	if n < 2 {
		return 0, false
	}
	return hi - lo, true
}

func attemptCounts(history []model.ExerciseAttempt) map[string]int {
	counts := make(map[string]int)
	for _, a := range history {
		counts[a.ExerciseID]++
	}
	return counts
}
