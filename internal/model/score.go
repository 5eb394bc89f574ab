package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Subscore names one of the five public communication dimensions.
type Subscore string

// Public subscores.
const (
	Fluency    Subscore = "fluency"
	Clarity    Subscore = "clarity"
	Precision  Subscore = "precision"
	Confidence Subscore = "confidence"
	Impact     Subscore = "impact"
)

// Subscores lists the public dimensions in display order.
var Subscores = []Subscore{Fluency, Clarity, Precision, Confidence, Impact}

// Valid reports whether s is one of the five public dimensions.
func (s Subscore) Valid() bool {
	switch s {
	case Fluency, Clarity, Precision, Confidence, Impact:
		return true
	}
	return false
}

// Score is a subscore value that is either measured or not yet measured.
// It encodes to JSON as a number or null.
type Score struct {
	value    int
	measured bool
}

// Measured returns a measured score.
func Measured(v int) Score {
	return Score{value: v, measured: true}
}

// Unmeasured returns a score no attempt has contributed to yet.
func Unmeasured() Score {
	return Score{}
}

// Value returns the score and whether it has been measured.
func (s Score) Value() (int, bool) {
	return s.value, s.measured
}

// IsMeasured reports whether at least one attempt contributed to s.
func (s Score) IsMeasured() bool {
	return s.measured
}

// Blend folds a new observation into s: measured scores move 30% toward v,
// unmeasured scores take v directly. The result is clamped to [0,100].
func (s Score) Blend(v int) Score {
	next := v
	if s.measured {
		next = RoundHalfUp(float64(s.value)*0.7 + float64(v)*0.3)
	}
	return Measured(ClampInt(next, 0, 100))
}

// String renders the score or "-" when unmeasured.
func (s Score) String() string {
	if !s.measured {
		return "-"
	}
	return fmt.Sprintf("%d", s.value)
}

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.measured {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Unmeasured()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("score: %w", err)
	}
	*s = Measured(RoundHalfUp(f))
	return nil
}

// RoundHalfUp rounds to the nearest integer with halves rounded toward +Inf.
func RoundHalfUp(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v + 0.5))
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
