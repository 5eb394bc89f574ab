// Package diagnostics scores a transcript on fluency, clarity, pace,
// precision, confidence and impact using lexicon and token statistics.
//
// Every score is an integer in [0,100]. Public clarity blends the clarity
// and pace breakdowns 70/30; pace is not reported as its own subscore.
package diagnostics

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/articulate/internal/lexicon"
	"github.com/verte-zerg/articulate/internal/model"
)

// Breakdown is the score of one dimension with the signals behind it.
type Breakdown struct {
	Score   int                `json:"score"`
	Signals map[string]float64 `json:"signals"`
	Notes   []string           `json:"notes"`
}

// Result holds all six breakdowns and the five public subscores.
type Result struct {
	Fluency    Breakdown              `json:"fluency"`
	Clarity    Breakdown              `json:"clarity"`
	Pace       Breakdown              `json:"pace"`
	Precision  Breakdown              `json:"precision"`
	Confidence Breakdown              `json:"confidence"`
	Impact     Breakdown              `json:"impact"`
	Subscores  map[model.Subscore]int `json:"subscores"`
}

type options struct {
	fillerCount int
}

// Option configures Analyze.
type Option func(*options)

// WithFillerCount supplies a precomputed filler-word count for fluency scoring.
func WithFillerCount(n int) Option {
	return func(o *options) {
		o.fillerCount = n
	}
}

var (
	wordPattern      = regexp.MustCompile(`[a-z']+`)
	pausePattern     = regexp.MustCompile(`[,.!?;:]`)
	longPausePattern = regexp.MustCompile(`\.\.\.|—|--`)
)

// Analyze scores transcript spoken over durationMinutes. Rate-based signals
// degrade to zero when durationMinutes is not positive.
func Analyze(transcript string, durationMinutes float64, opts ...Option) Result {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	words := Words(transcript)
	sentences := Sentences(transcript)

	fluency := analyzeFluency(words, durationMinutes, o.fillerCount)
	clarity := analyzeClarity(sentences, words)
	pace := analyzePace(transcript, words, durationMinutes)
	precision := analyzePrecision(words)
	confidence := analyzeConfidence(transcript, words)
	impact := analyzeImpact(transcript, words)

	return Result{
		Fluency:    fluency,
		Clarity:    clarity,
		Pace:       pace,
		Precision:  precision,
		Confidence: confidence,
		Impact:     impact,
		Subscores: map[model.Subscore]int{
			model.Fluency:    fluency.Score,
			model.Clarity:    clamp(float64(clarity.Score)*0.7 + float64(pace.Score)*0.3),
			model.Precision:  precision.Score,
			model.Confidence: confidence.Score,
			model.Impact:     impact.Score,
		},
	}
}

// Words returns the lowercase alphabetic tokens of text, apostrophes kept.
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Sentences splits text after '.', '!' or '?' when followed by whitespace.
// Pieces are trimmed and empty pieces dropped.
func Sentences(text string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(text); {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			j := i + 1
			for j < len(text) {
				r, size := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r) {
					break
				}
				j += size
			}
			if j > i+1 {
				parts = append(parts, text[start:i+1])
				start = j
				i = j
				continue
			}
		}
		i++
	}
	parts = append(parts, text[start:])

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func clamp(v float64) int {
	return model.ClampInt(model.RoundHalfUp(v), 0, 100)
}

func wordsPerMinute(words []string, durationMinutes float64) float64 {
	if durationMinutes <= 0 {
		return 0
	}
	return float64(len(words)) / durationMinutes
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func analyzeFluency(words []string, durationMinutes float64, fillerCount int) Breakdown {
	wpm := wordsPerMinute(words, durationMinutes)
	fillerRate := ratio(float64(fillerCount), float64(len(words)))
	wpmPenalty := 0.0
	if wpm < 90 || wpm > 190 {
		wpmPenalty = 8
	}
	score := clamp(100 - float64(fillerCount)*2 - wpmPenalty - fillerRate*100)
	return Breakdown{
		Score: score,
		Signals: map[string]float64{
			"wpm":             wpm,
			"fillerWordCount": float64(fillerCount),
			"fillerRate":      fillerRate,
		},
		Notes: []string{
			fmt.Sprintf("Detected %d fillers.", fillerCount),
			fmt.Sprintf("Approximate speaking pace %d wpm.", model.RoundHalfUp(wpm)),
		},
	}
}

func analyzeClarity(sentences, words []string) Breakdown {
	lengthSum, lengthCount := 0, 0
	for _, s := range sentences {
		if n := len(Words(s)); n > 0 {
			lengthSum += n
			lengthCount++
		}
	}
	avgSentenceLength := ratio(float64(lengthSum), float64(lengthCount))

	repeated := 0
	for i := 1; i < len(sentences); i++ {
		if jaccard(Words(sentences[i-1]), Words(sentences[i])) > 0.7 {
			repeated++
		}
	}
	repetitionRatio := 0.0
	if len(sentences) > 1 {
		repetitionRatio = float64(repeated) / float64(len(sentences)-1)
	}

	coherence := 0
	if len(words) > 0 {
		coherence = clamp(float64(uniqueCount(words)) / float64(len(words)) * 100)
	}
	lengthPenalty := 0.0
	if avgSentenceLength > 24 || avgSentenceLength < 6 {
		lengthPenalty = 12
	}
	score := clamp(78 + float64(coherence)*0.18 - repetitionRatio*40 - lengthPenalty)

	repetitionNote := "Low repeated-idea signals."
	if repetitionRatio > 0.2 {
		repetitionNote = "Some repeated ideas were detected."
	}
	return Breakdown{
		Score: score,
		Signals: map[string]float64{
			"avgSentenceLength": avgSentenceLength,
			"repetitionRatio":   repetitionRatio,
			"topicCoherence":    float64(coherence),
		},
		Notes: []string{
			fmt.Sprintf("Average sentence length: %.1f words.", avgSentenceLength),
			repetitionNote,
		},
	}
}

func analyzePace(text string, words []string, durationMinutes float64) Breakdown {
	wpm := wordsPerMinute(words, durationMinutes)
	pauses := len(pausePattern.FindAllStringIndex(text, -1))
	longPauses := len(longPausePattern.FindAllStringIndex(text, -1))
	pauseFrequency := ratio(float64(pauses+longPauses*2), float64(len(words)))
	paceFit := clamp(100 - math.Abs(150-wpm)*1.2)
	consistency := clamp(100 - math.Abs(pauseFrequency-0.08)*500)
	score := clamp(float64(paceFit)*0.65 + float64(consistency)*0.35)

	return Breakdown{
		Score: score,
		Signals: map[string]float64{
			"wordsPerMinute":      wpm,
			"pauseFrequency":      pauseFrequency,
			"estimatedLongPauses": float64(longPauses),
			"paceConsistency":     float64(consistency),
		},
		Notes: []string{
			fmt.Sprintf("Pace target is 140-160 wpm; estimated %d wpm.", model.RoundHalfUp(wpm)),
			fmt.Sprintf("Detected %d pause markers.", pauses+longPauses),
		},
	}
}

func analyzePrecision(words []string) Breakdown {
	unique := uniqueCount(words)
	diversity := ratio(float64(unique), float64(len(words)))
	vague := lexicon.VagueWords.Count(words)
	abstract, concrete := 0, 0
	for _, w := range words {
		switch {
		case lexicon.AbstractWords.Contains(w):
			abstract++
		case len(w) > 4:
			concrete++
		}
	}
	abstractConcrete := float64(abstract)
	if concrete > 0 {
		abstractConcrete = float64(abstract) / float64(concrete)
	}
	score := clamp(diversity*100 - float64(vague)*3 - abstractConcrete*8 + 35)

	vagueNote := "No high-priority vague words detected."
	if vague > 0 {
		vagueNote = fmt.Sprintf("%d vague words detected.", vague)
	}
	return Breakdown{
		Score: score,
		Signals: map[string]float64{
			"vocabularyDiversity":   diversity,
			"vagueWordCount":        float64(vague),
			"abstractConcreteRatio": abstractConcrete,
			"uniqueWords":           float64(unique),
			"totalWords":            float64(len(words)),
		},
		Notes: []string{
			fmt.Sprintf("Vocabulary diversity %.1f%%.", diversity*100),
			vagueNote,
		},
	}
}

func analyzeConfidence(text string, words []string) Breakdown {
	lower := strings.ToLower(text)
	hedging := 0
	for _, phrase := range lexicon.HedgingPhrases {
		hedging += strings.Count(lower, phrase)
	}
	// Standalone "maybe" tokens count again on top of the literal phrase hits.
	for _, w := range words {
		if w == "maybe" {
			hedging++
		}
	}
	certainty := lexicon.CertaintyWords.Count(words)
	hedgingFrequency := ratio(float64(hedging), float64(len(words)))
	score := clamp(100 - hedgingFrequency*500 + float64(certainty)*2 - float64(hedging)*3)

	hedgingNote := "Low hedging language detected."
	if hedging > 0 {
		hedgingNote = fmt.Sprintf("Detected %d hedging cues.", hedging)
	}
	certaintyNote := "Few certainty cues detected."
	if certainty > 0 {
		certaintyNote = fmt.Sprintf("%d certainty cues used.", certainty)
	}
	return Breakdown{
		Score: score,
		Signals: map[string]float64{
			"hedgingCount":       float64(hedging),
			"certaintyWordCount": float64(certainty),
			"hedgingFrequency":   hedgingFrequency,
		},
		Notes: []string{hedgingNote, certaintyNote},
	}
}

func analyzeImpact(text string, words []string) Breakdown {
	lower := strings.ToLower(text)
	examples := countCues(lower, lexicon.ExampleCues)
	stories := countCues(lower, lexicon.StoryCues)
	analogies := countCues(lower, lexicon.AnalogyCues)
	sensory := lexicon.SensoryWords.Count(words)
	emotional := lexicon.EmotionWords.Count(words)

	score := clamp(52 + float64(examples)*8 + float64(stories)*10 + float64(analogies)*8 +
		float64(sensory)*1.5 + float64(emotional)*2)

	return Breakdown{
		Score: score,
		Signals: map[string]float64{
			"exampleCues":    float64(examples),
			"storyCues":      float64(stories),
			"analogyCues":    float64(analogies),
			"sensoryWords":   float64(sensory),
			"emotionalWords": float64(emotional),
		},
		Notes: []string{
			fmt.Sprintf("Examples: %d, stories: %d, analogies: %d.", examples, stories, analogies),
			fmt.Sprintf("Sensory/emotional language tokens: %d.", sensory+emotional),
		},
	}
}

// countCues counts how many cues appear anywhere in lower, each at most once.
func countCues(lower string, cues []string) int {
	n := 0
	for _, cue := range cues {
		if strings.Contains(lower, cue) {
			n++
		}
	}
	return n
}

func uniqueCount(words []string) int {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return len(seen)
}

func jaccard(a, b []string) float64 {
	sa := make(map[string]struct{}, len(a))
	for _, w := range a {
		sa[w] = struct{}{}
	}
	sb := make(map[string]struct{}, len(b))
	for _, w := range b {
		sb[w] = struct{}{}
	}
	inter := 0
	for w := range sa {
		if _, ok := sb[w]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
