// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings resolved from flags and the config file.
type Config struct {
	UserID     string  `validate:"required"`
	ExerciseID string  `validate:"required"`
	Minutes    float64 `validate:"gt=0"`
	LogLevel   string  `validate:"oneof=debug info warn error"`
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	UserID      string
	Since       *time.Time
	Last        int
	CurveWindow int
	ExerciseID  string
}

// CommunicationScore is the running per-user score profile.
type CommunicationScore struct {
	Overall     int       `json:"overall"`
	Fluency     Score     `json:"fluency"`
	Clarity     Score     `json:"clarity"`
	Precision   Score     `json:"precision"`
	Confidence  Score     `json:"confidence"`
	Impact      Score     `json:"impact"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Get returns the stored value for a subscore.
func (c CommunicationScore) Get(s Subscore) Score {
	switch s {
	case Fluency:
		return c.Fluency
	case Clarity:
		return c.Clarity
	case Precision:
		return c.Precision
	case Confidence:
		return c.Confidence
	case Impact:
		return c.Impact
	default:
		return Unmeasured()
	}
}

// Set replaces the stored value for a subscore. Unknown subscores are ignored.
func (c *CommunicationScore) Set(s Subscore, v Score) {
	switch s {
	case Fluency:
		c.Fluency = v
	case Clarity:
		c.Clarity = v
	case Precision:
		c.Precision = v
	case Confidence:
		c.Confidence = v
	case Impact:
		c.Impact = v
	}
}

// ExerciseAttempt records one completed practice session. Duration is in seconds.
type ExerciseAttempt struct {
	ID             string           `json:"id" validate:"required"`
	ExerciseID     string           `json:"exerciseId" validate:"required"`
	Score          int              `json:"score" validate:"gte=0,lte=100"`
	ImpactedScores map[Subscore]int `json:"impactedScores" validate:"dive,keys,oneof=fluency clarity precision confidence impact,endkeys,gte=0,lte=100"`
	XPEarned       int              `json:"xpEarned" validate:"gte=0"`
	Duration       int              `json:"duration" validate:"gte=0"`
	Timestamp      time.Time        `json:"timestamp" validate:"required"`
}

// Archetype is a named communication-style classification.
type Archetype struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`
}

// UserProgress is the persisted per-user progress record.
// LastPracticeDate is a UTC YYYY-MM-DD key, empty before the first practice.
type UserProgress struct {
	UserID             string             `json:"userId"`
	CommunicationScore CommunicationScore `json:"communicationScore"`
	Archetype          Archetype          `json:"archetype"`
	CurrentStreak      int                `json:"currentStreak"`
	LongestStreak      int                `json:"longestStreak"`
	LastPracticeDate   string             `json:"lastPracticeDate,omitempty"`
	TotalXP            int                `json:"totalXP"`
	TotalSessions      int                `json:"totalSessions"`
	TotalPracticeTime  int                `json:"totalPracticeTime"`
	Achievements       []string           `json:"achievements"`
}

// HasAchievement reports whether the achievement id is owned.
func (p UserProgress) HasAchievement(id string) bool {
	for _, owned := range p.Achievements {
		if owned == id {
			return true
		}
	}
	return false
}

// AchievementKind selects the unlock predicate of an achievement.
type AchievementKind string

// Achievement kinds.
const (
	KindStreak          AchievementKind = "streak"
	KindSessions        AchievementKind = "sessions"
	KindScore           AchievementKind = "score"
	KindImprovement     AchievementKind = "improvement"
	KindExerciseMastery AchievementKind = "exercise-mastery"
	KindPerfect         AchievementKind = "perfect"
	KindCategoryMastery AchievementKind = "category-mastery"
)

// Valid reports whether k is a known kind.
func (k AchievementKind) Valid() bool {
	switch k {
	case KindStreak, KindSessions, KindScore, KindImprovement, KindExerciseMastery, KindPerfect, KindCategoryMastery:
		return true
	}
	return false
}

// Achievement is a static achievement definition. A zero Target means "use the kind default".
type Achievement struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Icon        string          `json:"icon" yaml:"icon"`
	Requirement string          `json:"requirement" yaml:"requirement"`
	XPReward    int             `json:"xpReward" yaml:"xp_reward"`
	Kind        AchievementKind `json:"kind" yaml:"kind"`
	Target      int             `json:"target,omitempty" yaml:"target"`
	Subscore    Subscore        `json:"subscore,omitempty" yaml:"subscore"`
	ExerciseID  string          `json:"exerciseId,omitempty" yaml:"exercise_id"`
	Category    string          `json:"category,omitempty" yaml:"category"`
}

// TargetOr returns the configured target or def when unset.
func (a Achievement) TargetOr(def int) int {
	if a.Target == 0 {
		return def
	}
	return a.Target
}

// Exercise is a static exercise catalog entry. EstimatedTime is in seconds.
type Exercise struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	Description      string     `json:"description" yaml:"description"`
	ShortDescription string     `json:"shortDescription" yaml:"short_description"`
	EstimatedTime    int        `json:"estimatedTime" yaml:"estimated_time"`
	Type             string     `json:"type" yaml:"type"`
	Category         string     `json:"category" yaml:"category"`
	Tier             string     `json:"tier" yaml:"tier"`
	Icon             string     `json:"icon" yaml:"icon"`
	ImpactsScores    []Subscore `json:"impactsScores" yaml:"impacts_scores"`
}
