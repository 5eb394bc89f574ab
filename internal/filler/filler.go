// Package filler detects filler words and phrases in a transcript.
//
// Matching is case-insensitive with word boundaries. Multi-word fillers such
// as "let me think" win over the single words they contain, so no character
// of the transcript is counted twice.
package filler

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/articulate/internal/lexicon"
)

// Position records where a filler occurred (character offset).
type Position struct {
	Word     string `json:"word"`
	Position int    `json:"position"`
}

// Distribution counts fillers in the beginning, middle and end thirds of a transcript.
type Distribution struct {
	Beginning int `json:"beginning"`
	Middle    int `json:"middle"`
	End       int `json:"end"`
}

// Total returns the number of fillers across all thirds.
func (d Distribution) Total() int {
	return d.Beginning + d.Middle + d.End
}

// Result is the outcome of Analyze. Every category is present in
// CategoryCounts, and the maps and slices are never nil.
type Result struct {
	TotalFillerWords int                            `json:"totalFillerWords"`
	FillersPerMinute float64                        `json:"fillersPerMinute"`
	CategoryCounts   map[lexicon.FillerCategory]int `json:"categoryCounts"`
	SpecificCounts   map[string]int                 `json:"specificFillerCounts"`
	Positions        []Position                     `json:"fillerPositions"`
	Distribution     Distribution                   `json:"distributionAnalysis"`
}

// WordCount pairs a filler with its count.
type WordCount struct {
	Word  string
	Count int
}

var table = lexicon.NewTable(lexicon.FillerEntries())

// Analyze scans transcript for fillers. FillersPerMinute is zero when
// durationMinutes is not positive.
func Analyze(transcript string, durationMinutes float64) Result {
	matches := lexicon.ResolveOverlaps(table.FindAll(transcript))

	res := Result{
		TotalFillerWords: len(matches),
		CategoryCounts:   make(map[lexicon.FillerCategory]int, len(lexicon.FillerCategories)),
		SpecificCounts:   map[string]int{},
		Positions:        make([]Position, 0, len(matches)),
	}
	for _, cat := range lexicon.FillerCategories {
		res.CategoryCounts[cat] = 0
	}
	if durationMinutes > 0 {
		res.FillersPerMinute = float64(len(matches)) / durationMinutes
	}

	offsets := make([]int, 0, len(matches))
	for _, m := range matches {
		res.CategoryCounts[lexicon.FillerCategory(m.Category)]++
		res.SpecificCounts[strings.ToLower(m.Text)]++
		res.Positions = append(res.Positions, Position{Word: m.Text, Position: m.Position})
		offsets = append(offsets, m.Position)
	}
	res.Distribution = distribute(utf8.RuneCountInString(transcript), offsets)
	return res
}

func distribute(length int, offsets []int) Distribution {
	var d Distribution
	if length <= 0 {
		return d
	}
	third := float64(length) / 3
	for _, pos := range offsets {
		switch p := float64(pos); {
		case p < third:
			d.Beginning++
		case p < 2*third:
			d.Middle++
		default:
			d.End++
		}
	}
	return d
}

// TopFillers returns up to n fillers by descending count, ties broken alphabetically.
func (r Result) TopFillers(n int) []WordCount {
	if n <= 0 || len(r.SpecificCounts) == 0 {
		return nil
	}
	items := make([]WordCount, 0, len(r.SpecificCounts))
	for word, count := range r.SpecificCounts {
		items = append(items, WordCount{Word: word, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Word < items[j].Word
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// DistributionInsight describes where fillers cluster.
func DistributionInsight(d Distribution) string {
	if d.Total() == 0 {
		return "No fillers detected."
	}
	if d.Beginning == d.Middle && d.Middle == d.End {
		return "Fillers are spread evenly through your speech."
	}
	maxCount := max(d.Beginning, d.Middle, d.End)
	switch maxCount {
	case d.Beginning:
		return "You use more fillers at the beginning. Consider pausing to gather your thoughts before starting."
	case d.Middle:
		return "Most fillers appear in the middle. Practicing mid-speech pauses could help."
	default:
		return "You use more fillers toward the end. Try wrapping up with a clear conclusion."
	}
}
