package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/verte-zerg/articulate/internal/achievement"
	"github.com/verte-zerg/articulate/internal/catalog"
	"github.com/verte-zerg/articulate/internal/model"
)

// Source is the progress data a report reads.
type Source interface {
	Progress(ctx context.Context, userID string) model.UserProgress
	History(ctx context.Context, userID string) []model.ExerciseAttempt
	Evaluator() *achievement.Evaluator
	Catalog() *catalog.Catalog
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Progress     model.UserProgress
	Attempts     []model.ExerciseAttempt
	Achievements []AchievementRow
	Exercises    []ExerciseTotal
}

// AchievementRow pairs an achievement with the user's standing on it.
type AchievementRow struct {
	Def         model.Achievement
	Owned       bool
	Progress    achievement.Progress
	HasProgress bool
}

// Status renders the row state for tables.
func (r AchievementRow) Status() string {
	switch {
	case r.Owned:
		return "unlocked"
	case r.HasProgress && r.Progress.Done():
		return fmt.Sprintf("%d/%d", r.Progress.Target, r.Progress.Target)
	case r.HasProgress:
		return fmt.Sprintf("%d/%d", r.Progress.Current, r.Progress.Target)
	default:
		return "locked"
	}
}

// ExerciseTotal aggregates the filtered attempts of one exercise.
type ExerciseTotal struct {
	ExerciseID string
	Name       string
	Attempts   int
	Best       int
	Average    float64
}

// BuildReport loads and prepares data for stats rendering. Filters only
// narrow the attempt list; achievement progress is judged on full history.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	progress := src.Progress(ctx, cfg.UserID)
	history := src.History(ctx, cfg.UserID)
	return Report{
		Progress:     progress,
		Attempts:     FilterAttempts(history, cfg),
		Achievements: achievementRows(src.Evaluator(), src.Catalog().Achievements(), progress, history),
		Exercises:    exerciseTotals(src.Catalog(), FilterAttempts(history, cfg)),
	}, nil
}

// FilterAttempts applies the exercise, since and last filters in that order.
func FilterAttempts(history []model.ExerciseAttempt, cfg model.StatsConfig) []model.ExerciseAttempt {
	out := make([]model.ExerciseAttempt, 0, len(history))
	for _, a := range history {
		if cfg.ExerciseID != "" && a.ExerciseID != cfg.ExerciseID {
			continue
		}
		if cfg.Since != nil && a.Timestamp.Before(*cfg.Since) {
			continue
		}
		out = append(out, a)
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out
}

func achievementRows(e *achievement.Evaluator, defs []model.Achievement, p model.UserProgress, history []model.ExerciseAttempt) []AchievementRow {
	rows := make([]AchievementRow, 0, len(defs))
	for _, def := range defs {
		row := AchievementRow{Def: def, Owned: p.HasAchievement(def.ID)}
		row.Progress, row.HasProgress = e.Progress(def, p, history)
		rows = append(rows, row)
	}
	return rows
}

func exerciseTotals(cat *catalog.Catalog, attempts []model.ExerciseAttempt) []ExerciseTotal {
	byID := map[string]*ExerciseTotal{}
	for _, a := range attempts {
		t, ok := byID[a.ExerciseID]
		if !ok {
			t = &ExerciseTotal{ExerciseID: a.ExerciseID, Name: a.ExerciseID}
			if ex, found := cat.Exercise(a.ExerciseID); found {
				t.Name = ex.Name
			}
			byID[a.ExerciseID] = t
		}
		t.Average = (t.Average*float64(t.Attempts) + float64(a.Score)) / float64(t.Attempts+1)
		t.Attempts++
		t.Best = max(t.Best, a.Score)
	}
	out := make([]ExerciseTotal, 0, len(byID))
	for _, t := range byID {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Attempts == out[j].Attempts {
			return out[i].ExerciseID < out[j].ExerciseID
		}
		return out[i].Attempts > out[j].Attempts
	})
	return out
}
