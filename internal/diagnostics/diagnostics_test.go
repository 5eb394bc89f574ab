package diagnostics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/articulate/internal/model"
)

func TestAnalyzeEmptyTranscript(t *testing.T) {
	res := Analyze("", 1)

	assert.Equal(t, 92, res.Fluency.Score)
	assert.Equal(t, 66, res.Clarity.Score)
	assert.Equal(t, 21, res.Pace.Score)
	assert.Equal(t, 35, res.Precision.Score)
	assert.Equal(t, 100, res.Confidence.Score)
	assert.Equal(t, 52, res.Impact.Score)

	require.Len(t, res.Subscores, len(model.Subscores))
	assert.InDelta(t, 53, res.Subscores[model.Clarity], 1)
	assert.Equal(t, 92, res.Subscores[model.Fluency])
}

func TestScoresStayInRange(t *testing.T) {
	inputs := []string{
		"",
		"maybe maybe maybe maybe, I guess probably perhaps.",
		strings.Repeat("definitely clearly certainly will must always ", 40),
		"For example, once I saw it like when there was a storm. I remember feeling excited, proud and nervous!",
		"... -- — ... ,,,, !!! ???",
	}
	for _, in := range inputs {
		for _, minutes := range []float64{0, 0.1, 1, 10} {
			res := Analyze(in, minutes, WithFillerCount(7))
			for _, b := range []Breakdown{res.Fluency, res.Clarity, res.Pace, res.Precision, res.Confidence, res.Impact} {
				assert.GreaterOrEqual(t, b.Score, 0)
				assert.LessOrEqual(t, b.Score, 100)
			}
			for s, v := range res.Subscores {
				assert.True(t, s.Valid())
				assert.GreaterOrEqual(t, v, 0)
				assert.LessOrEqual(t, v, 100)
			}
		}
	}
}

func TestFluencyUsesFillerCount(t *testing.T) {
	transcript := strings.Repeat("word ", 150)
	res := Analyze(transcript, 1, WithFillerCount(3))

	assert.InDelta(t, 150, res.Fluency.Signals["wpm"], 1e-9)
	assert.InDelta(t, 0.02, res.Fluency.Signals["fillerRate"], 1e-9)
	assert.Equal(t, 92, res.Fluency.Score)
	assert.Equal(t, []string{"Detected 3 fillers.", "Approximate speaking pace 150 wpm."}, res.Fluency.Notes)
}

func TestPaceAtTarget(t *testing.T) {
	res := Analyze(strings.Repeat("word ", 150), 1)
	assert.InDelta(t, 0, res.Pace.Signals["pauseFrequency"], 1e-9)
	assert.InDelta(t, 60, res.Pace.Signals["paceConsistency"], 1e-9)
	assert.Equal(t, 86, res.Pace.Score)
}

func TestZeroDurationDegradesRates(t *testing.T) {
	res := Analyze("a short sentence here", 0)
	assert.Zero(t, res.Fluency.Signals["wpm"])
	assert.Zero(t, res.Pace.Signals["wordsPerMinute"])
}

func TestHedgingCountsMaybeTwice(t *testing.T) {
	res := Analyze("Maybe we go.", 1)
	assert.InDelta(t, 2, res.Confidence.Signals["hedgingCount"], 1e-9)
	assert.Equal(t, 0, res.Confidence.Score)
	assert.Equal(t, "Detected 2 hedging cues.", res.Confidence.Notes[0])
}

func TestImpactCuesCountOncePerCue(t *testing.T) {
	res := Analyze("For example, like when I went. For example, again.", 1)
	assert.InDelta(t, 2, res.Impact.Signals["exampleCues"], 1e-9)
	assert.InDelta(t, 1, res.Impact.Signals["storyCues"], 1e-9)
	assert.InDelta(t, 1, res.Impact.Signals["analogyCues"], 1e-9)
	assert.Equal(t, 52+16+10+8, res.Impact.Score)
}

func TestPrecisionPenalisesVagueWords(t *testing.T) {
	res := Analyze("good good good", 1)
	assert.InDelta(t, 3, res.Precision.Signals["vagueWordCount"], 1e-9)
	assert.Equal(t, 59, res.Precision.Score)
}

func TestClarityRepetition(t *testing.T) {
	res := Analyze("The cat sat here. The cat sat here.", 1)
	assert.InDelta(t, 1, res.Clarity.Signals["repetitionRatio"], 1e-9)
	assert.Equal(t, "Some repeated ideas were detected.", res.Clarity.Notes[1])
}

func TestSentences(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"Hello there. How are you?  Fine...  ok", []string{"Hello there.", "How are you?", "Fine...", "ok"}},
		{"Pi is 3.14 roughly.", []string{"Pi is 3.14 roughly."}},
		{"Wow!\nNext line.", []string{"Wow!", "Next line."}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sentences(tt.in), tt.in)
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"don't", "stop", "now"}, Words("Don't STOP, now!"))
	assert.Empty(t, Words("123 456"))
}
