package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeNoElements(t *testing.T) {
	res := Analyze("The weather was fine today.", DefaultMinutes)
	assert.Zero(t, res.TotalStructuralElements)
	assert.Equal(t, InsightNone, res.Insight)
	assert.NotNil(t, res.AllElements)
	assert.Empty(t, res.AllElements)
}

func TestAnalyzeStrongStructure(t *testing.T) {
	transcript := "I believe remote work helps because people focus better. For example, my team shipped faster."
	res := Analyze(transcript, 2)

	require.Equal(t, 1, res.PositionCount)
	require.Equal(t, 2, res.SupportingCount)
	assert.Equal(t, 3, res.TotalStructuralElements)
	assert.InDelta(t, 1.5, res.ElementsPerMinute, 1e-9)
	assert.Equal(t, InsightStrong, res.Insight)

	assert.Equal(t, "I believe", res.PositionStatements[0].Phrase)
	assert.Equal(t, 0, res.PositionStatements[0].Position)
	assert.Equal(t, "position", res.PositionStatements[0].Category)

	require.Len(t, res.AllElements, 3)
	assert.Equal(t, []string{"I believe", "because", "For example"}, []string{
		res.AllElements[0].Phrase, res.AllElements[1].Phrase, res.AllElements[2].Phrase,
	})
}

func TestInsightTable(t *testing.T) {
	tests := []struct {
		name                 string
		position, supporting int
		want                 string
	}{
		{"empty", 0, 0, InsightNone},
		{"support only", 0, 3, InsightNoPosition},
		{"position only", 2, 0, InsightNoSupport},
		{"strong", 1, 2, InsightStrong},
		{"one of each", 1, 1, InsightNeedsReasoning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Insight(tt.position, tt.supporting))
		})
	}
}

func TestAnalyzeWordBoundaries(t *testing.T) {
	res := Analyze("Thusly, the becauseway is closed.", 1)
	assert.Zero(t, res.SupportingCount)
}

// Position and supporting phrases are not deduplicated against each other,
// so a phrase listed in one set never suppresses a match from the other.
func TestAnalyzeKeepsOverlappingCategories(t *testing.T) {
	res := Analyze("Personally, like when I travel, I think it helps so that I rest.", 1)
	assert.Equal(t, 2, res.PositionCount)
	assert.Equal(t, 2, res.SupportingCount)
	assert.Len(t, res.AllElements, 4)
	for i := 1; i < len(res.AllElements); i++ {
		assert.LessOrEqual(t, res.AllElements[i-1].Position, res.AllElements[i].Position)
	}
}

func TestAnalyzeZeroDuration(t *testing.T) {
	res := Analyze("I think so because it works.", 0)
	assert.Zero(t, res.ElementsPerMinute)
	assert.Equal(t, 2, res.TotalStructuralElements)
}
