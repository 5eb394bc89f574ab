package lexicon

// FillerCategory groups filler words and phrases.
type FillerCategory string

// Filler categories.
const (
	Hesitation FillerCategory = "hesitation"
	Discourse  FillerCategory = "discourse"
	Temporal   FillerCategory = "temporal"
	Thinking   FillerCategory = "thinking"
)

// FillerCategories lists filler categories in reporting order.
var FillerCategories = []FillerCategory{Hesitation, Discourse, Temporal, Thinking}

// FillerPhrases maps each filler category to its canonical lowercase phrases.
var FillerPhrases = map[FillerCategory][]string{
	Hesitation: {"um", "uh", "er", "ah", "hmm"},
	Discourse: {
		"like",
		"you know",
		"i mean",
		"sort of",
		"kind of",
		"basically",
		"actually",
		"literally",
	},
	Temporal: {"so", "well", "now", "then", "okay", "alright"},
	Thinking: {"let me think", "let me see", "how do i say"},
}

// Structural element categories.
const (
	PositionCategory   = "position"
	SupportingCategory = "supporting"
)

// PositionPhrases signal that the speaker is stating a position or opinion.
var PositionPhrases = []string{
	"i believe",
	"i think",
	"in my opinion",
	"i feel that",
	"i would say",
	"from my perspective",
	"i'd say",
	"my view is",
	"i argue that",
	"it seems to me",
	"in my view",
	"personally",
	"to my mind",
	"as i see it",
	"i maintain that",
	"i contend that",
}

// SupportingPhrases support an argument with reasoning, examples or contrast.
var SupportingPhrases = []string{
	"because",
	"however",
	"for instance",
	"for example",
	"on the other hand",
	"in addition",
	"furthermore",
	"moreover",
	"therefore",
	"thus",
	"as a result",
	"specifically",
	"in other words",
	"that said",
	"nevertheless",
	"despite this",
	"in contrast",
	"by contrast",
	"alternatively",
	"such as",
	"like when",
	"the reason",
	"which means",
	"so that",
	"in order to",
	"this shows",
	"this means",
}

// Diagnostic lexicons. Word sets are matched against whole tokens; phrase
// and cue lists are matched as literal substrings.
var (
	VagueWords     = NewWordSet("thing", "things", "stuff", "good", "bad", "really", "very")
	CertaintyWords = NewWordSet("clearly", "definitely", "certainly", "will", "must", "always")
	SensoryWords   = NewWordSet("see", "saw", "look", "hear", "heard", "sound", "feel", "felt", "touch", "taste", "smell")
	EmotionWords   = NewWordSet("excited", "worried", "frustrated", "happy", "sad", "nervous", "proud", "confident", "afraid")
	AbstractWords  = NewWordSet("idea", "concept", "system", "process", "strategy", "approach", "value", "culture", "quality")

	HedgingPhrases = []string{"i think", "maybe", "kind of", "sort of", "probably", "i guess", "perhaps", "might be"}
	ExampleCues    = []string{"for example", "for instance", "like when", "such as"}
	StoryCues      = []string{"once", "last week", "yesterday", "when i", "there was", "i remember"}
	AnalogyCues    = []string{"like", "as if", "similar to", "just as"}
)

// FillerEntries flattens FillerPhrases in category order.
func FillerEntries() []Entry {
	var out []Entry
	for _, cat := range FillerCategories {
		for _, phrase := range FillerPhrases[cat] {
			out = append(out, Entry{Phrase: phrase, Category: string(cat)})
		}
	}
	return out
}

// StructuralEntries returns position entries followed by supporting entries.
func StructuralEntries() (position, supporting []Entry) {
	position = make([]Entry, 0, len(PositionPhrases))
	for _, p := range PositionPhrases {
		position = append(position, Entry{Phrase: p, Category: PositionCategory})
	}
	supporting = make([]Entry, 0, len(SupportingPhrases))
	for _, p := range SupportingPhrases {
		supporting = append(supporting, Entry{Phrase: p, Category: SupportingCategory})
	}
	return position, supporting
}
