package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/articulate/internal/model"
)

// WeakestSubscores returns up to n measured subscores, lowest first.
// Ties keep display order.
func WeakestSubscores(score model.CommunicationScore, n int) []model.Subscore {
	if n <= 0 {
		return nil
	}
	type item struct {
		s model.Subscore
		v int
	}
	items := make([]item, 0, len(model.Subscores))
	for _, s := range model.Subscores {
		if v, ok := score.Get(s).Value(); ok {
			items = append(items, item{s: s, v: v})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].v < items[j].v
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]model.Subscore, n)
	for i := range out {
		out[i] = items[i].s
	}
	return out
}

// RenderExercises prints per-exercise attempt totals.
func RenderExercises(w io.Writer, totals []ExerciseTotal) error {
	if len(totals) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			t.Name,
			fmt.Sprintf("%d", t.Attempts),
			fmt.Sprintf("%d", t.Best),
			fmt.Sprintf("%.1f", t.Average),
		})
	}
	lines := formatTable([]string{"Exercise", "Attempts", "Best", "Avg"}, rows, map[int]bool{1: true, 2: true, 3: true})
	return writeLines(w, append(append([]string{"Exercises"}, lines...), "")...)
}

// RenderCatalog prints exercises with their category, tier and whether they
// can be practiced. implemented may be nil.
func RenderCatalog(w io.Writer, exercises []model.Exercise, implemented func(string) bool) error {
	rows := make([][]string, 0, len(exercises))
	for _, ex := range exercises {
		ready := ""
		if implemented != nil && implemented(ex.ID) {
			ready = "yes"
		}
		rows = append(rows, []string{
			ex.ID,
			ex.Name,
			ex.Category,
			ex.Tier,
			fmt.Sprintf("%ds", ex.EstimatedTime),
			ready,
		})
	}
	lines := formatTable([]string{"ID", "Name", "Category", "Tier", "Time", "Ready"}, rows, map[int]bool{4: true})
	return writeLines(w, lines...)
}
