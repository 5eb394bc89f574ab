// Package generator picks practice prompts and exercises.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/articulate/internal/model"
)

// RecentFactor scales the weight of prompts seen recently.
const RecentFactor = 0.2

// Generator produces randomized practice prompts.
type Generator struct {
	rnd  *rand.Rand
	last string
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Prompt selects a prompt, never repeating the previous one when more than
// one is available. Prompts listed in recent are picked less often.
func (g *Generator) Prompt(prompts []string, recent []string) string {
	if len(prompts) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(recent))
	for _, p := range recent {
		seen[p] = struct{}{}
	}
	weights := make([]float64, len(prompts))
	for i, p := range prompts {
		w := 1.0
		if _, ok := seen[p]; ok {
			w = RecentFactor
		}
		if p == g.last && len(prompts) > 1 {
			w = 0
		}
		weights[i] = w
	}
	prompt := prompts[g.weightedIndex(weights)]
	g.last = prompt
	return prompt
}

// Pick returns the exercise with the fewest attempts in history, breaking
// ties at random. ok is false when exercises is empty.
func (g *Generator) Pick(exercises []model.Exercise, history []model.ExerciseAttempt) (model.Exercise, bool) {
	if len(exercises) == 0 {
		return model.Exercise{}, false
	}
	counts := make(map[string]int, len(exercises))
	for _, a := range history {
		counts[a.ExerciseID]++
	}
	best := -1
	var ties []int
	for i, ex := range exercises {
		c := counts[ex.ID]
		switch {
		case best < 0 || c < best:
			best = c
			ties = []int{i}
		case c == best:
			ties = append(ties, i)
		}
	}
	return exercises[ties[g.rnd.Intn(len(ties))]], true
}

func (g *Generator) weightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return g.rnd.Intn(len(weights))
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	idx := len(weights) - 1
	for j, w := range weights {
		if w == 0 {
			continue
		}
		acc += w
		if r <= acc {
			idx = j
			break
		}
	}
	// Rounding can leave r past the last bucket; fall back to a positive weight.
	for weights[idx] == 0 && idx > 0 {
		idx--
	}
	return idx
}
