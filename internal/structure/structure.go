// Package structure detects position statements and supporting phrases in
// impromptu responses.
package structure

import (
	"github.com/verte-zerg/articulate/internal/lexicon"
)

// DefaultMinutes is the duration callers use when none is known.
const DefaultMinutes = 1.0

// Insight messages, selected by Insight.
const (
	InsightNone           = "Try using phrases like 'I believe' or 'in my opinion' to state your position, and 'because' or 'for instance' to support it."
	InsightNoPosition     = "You used supporting phrases well. Consider starting with a clear position (e.g., 'I believe...') to frame your response."
	InsightNoSupport      = "You stated your position clearly. Try adding supporting phrases like 'because,' 'for example,' or 'however' to strengthen your argument."
	InsightStrong         = "Strong structure: you stated your position and backed it up with reasoning and examples."
	InsightNeedsReasoning = "Good start. Adding more supporting phrases like 'because' and 'for instance' will make your argument more persuasive."
)

// Element is a detected phrase. Category is "position" or "supporting".
type Element struct {
	Phrase   string `json:"phrase"`
	Position int    `json:"position"`
	Category string `json:"category"`
}

// Result is the outcome of Analyze.
type Result struct {
	PositionStatements      []Element `json:"positionStatements"`
	SupportingPhrases       []Element `json:"supportingPhrases"`
	AllElements             []Element `json:"allElements"`
	PositionCount           int       `json:"positionCount"`
	SupportingCount         int       `json:"supportingCount"`
	TotalStructuralElements int       `json:"totalStructuralElements"`
	ElementsPerMinute       float64   `json:"elementsPerMinute"`
	Insight                 string    `json:"insight"`
}

var (
	positionTable   *lexicon.Table
	supportingTable *lexicon.Table
)

func init() {
	position, supporting := lexicon.StructuralEntries()
	positionTable = lexicon.NewTable(position)
	supportingTable = lexicon.NewTable(supporting)
}

// Analyze finds structural elements in transcript. The two phrase sets are
// matched independently: an element may appear in both lists at the same
// offset. ElementsPerMinute is zero when durationMinutes is not positive.
func Analyze(transcript string, durationMinutes float64) Result {
	position := find(positionTable, transcript)
	supporting := find(supportingTable, transcript)

	all := make([]lexicon.Match, 0, len(position)+len(supporting))
	all = append(all, position...)
	all = append(all, supporting...)
	lexicon.SortByPosition(all)

	total := len(position) + len(supporting)
	res := Result{
		PositionStatements:      toElements(position),
		SupportingPhrases:       toElements(supporting),
		AllElements:             toElements(all),
		PositionCount:           len(position),
		SupportingCount:         len(supporting),
		TotalStructuralElements: total,
		Insight:                 Insight(len(position), len(supporting)),
	}
	if durationMinutes > 0 {
		res.ElementsPerMinute = float64(total) / durationMinutes
	}
	return res
}

// Insight picks the feedback line for the given element counts.
func Insight(positionCount, supportingCount int) string {
	switch {
	case positionCount+supportingCount == 0:
		return InsightNone
	case positionCount == 0 && supportingCount > 0:
		return InsightNoPosition
	case positionCount > 0 && supportingCount == 0:
		return InsightNoSupport
	case positionCount >= 1 && supportingCount >= 2:
		return InsightStrong
	default:
		return InsightNeedsReasoning
	}
}

func find(t *lexicon.Table, transcript string) []lexicon.Match {
	matches := t.FindAll(transcript)
	lexicon.SortByPosition(matches)
	return matches
}

func toElements(matches []lexicon.Match) []Element {
	out := make([]Element, 0, len(matches))
	for _, m := range matches {
		out = append(out, Element{Phrase: m.Text, Position: m.Position, Category: m.Category})
	}
	return out
}
