package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/articulate/internal/model"
)

func TestPromptNeverRepeatsImmediately(t *testing.T) {
	g := NewWithSeed(1)
	prompts := []string{"a", "b", "c"}
	prev := g.Prompt(prompts, nil)
	for i := 0; i < 200; i++ {
		next := g.Prompt(prompts, nil)
		require.NotEqual(t, prev, next)
		prev = next
	}
}

func TestPromptSingleAndEmpty(t *testing.T) {
	g := NewWithSeed(1)
	assert.Equal(t, "", g.Prompt(nil, nil))
	assert.Equal(t, "only", g.Prompt([]string{"only"}, nil))
	assert.Equal(t, "only", g.Prompt([]string{"only"}, nil))
}

func TestPromptPrefersUnseen(t *testing.T) {
	g := NewWithSeed(7)
	prompts := []string{"seen", "fresh"}
	counts := map[string]int{}
	for i := 0; i < 400; i++ {
		g.last = ""
		counts[g.Prompt(prompts, []string{"seen"})]++
	}
	assert.Greater(t, counts["fresh"], counts["seen"])
}

func TestPickLeastAttempted(t *testing.T) {
	g := NewWithSeed(3)
	exercises := []model.Exercise{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	history := []model.ExerciseAttempt{{ExerciseID: "a"}, {ExerciseID: "b"}, {ExerciseID: "b"}, {ExerciseID: "a"}}

	ex, ok := g.Pick(exercises, history)
	require.True(t, ok)
	assert.Equal(t, "c", ex.ID)

	history = append(history, model.ExerciseAttempt{ExerciseID: "c"}, model.ExerciseAttempt{ExerciseID: "c"})
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ex, _ := g.Pick(exercises, history)
		seen[ex.ID] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, seen)

	_, ok = g.Pick(nil, history)
	assert.False(t, ok)
}
