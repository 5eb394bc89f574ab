// Package archetype classifies a communication profile into a named style.
package archetype

import (
	"github.com/verte-zerg/articulate/internal/model"
)

// Archetype ids known to Rules.
const (
	PolishedPro  = "polished-pro"
	Hedger       = "hedger"
	Wanderer     = "wanderer"
	RapidThinker = "rapid-thinker"
)

// MinMeasured is the number of measured subscores needed before classifying.
const MinMeasured = 3

// Classifier maps a score profile to an archetype. ok is false when no
// archetype applies and the caller should use its default.
type Classifier interface {
	Classify(score model.CommunicationScore) (model.Archetype, bool)
}

// Lookup resolves archetype ids to display data.
type Lookup interface {
	Archetype(id string) (model.Archetype, bool)
}

// Rules is a threshold-based Classifier.
type Rules struct {
	lookup Lookup
}

// NewRules returns a Rules classifier resolving ids through lookup.
func NewRules(lookup Lookup) *Rules {
	return &Rules{lookup: lookup}
}

// Classify implements Classifier.
func (r *Rules) Classify(score model.CommunicationScore) (model.Archetype, bool) {
	id := classify(score)
	if id == "" {
		return model.Archetype{}, false
	}
	return r.lookup.Archetype(id)
}

func classify(score model.CommunicationScore) string {
	measured := make(map[model.Subscore]int, len(model.Subscores))
	for _, s := range model.Subscores {
		if v, ok := score.Get(s).Value(); ok {
			measured[s] = v
		}
	}
	if len(measured) < MinMeasured {
		return ""
	}

	allHigh := true
	lowest, lowestVal := model.Subscore(""), 101
	for _, s := range model.Subscores {
		v, ok := measured[s]
		if !ok {
			continue
		}
		if v < 80 {
			allHigh = false
		}
		if v < lowestVal {
			lowest, lowestVal = s, v
		}
	}
	if allHigh {
		return PolishedPro
	}

	switch {
	case lowest == model.Confidence && lowestVal < 60:
		return Hedger
	case (lowest == model.Clarity || lowest == model.Precision) && lowestVal < 60:
		return Wanderer
	}

	fluency, hasFluency := measured[model.Fluency]
	clarity, hasClarity := measured[model.Clarity]
	if hasFluency && hasClarity && fluency >= 75 && clarity < 65 {
		return RapidThinker
	}
	return ""
}
