// Package progress folds exercise attempts into persisted per-user progress:
// score blending, streaks, XP and achievement awards.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/verte-zerg/articulate/internal/achievement"
	"github.com/verte-zerg/articulate/internal/archetype"
	"github.com/verte-zerg/articulate/internal/catalog"
	"github.com/verte-zerg/articulate/internal/model"
	"github.com/verte-zerg/articulate/internal/observe"
	"github.com/verte-zerg/articulate/internal/store"
)

// Key prefixes of the two per-user records.
const (
	ProgressKeyPrefix = "user_progress:"
	AttemptsKeyPrefix = "exercise_attempts:"
)

// atRiskHour is the local hour after which an unpracticed day puts the streak at risk.
const atRiskHour = 18

var legacyAchievements = map[string]string{
	"🔥 7-Day Streak":   "streak-7",
	"🔥 14-Day Streak":  "streak-14",
	"🔥 30-Day Streak":  "streak-30",
	"🔥 60-Day Streak":  "streak-60",
	"🔥 100-Day Streak": "streak-100",
}

// Tracker reads and updates progress records in a key-value store.
// Store failures are logged and treated as absent values or dropped writes.
type Tracker struct {
	kv         store.KV
	catalog    *catalog.Catalog
	classifier archetype.Classifier
	evaluator  *achievement.Evaluator
	metrics    *observe.Metrics
	logger     *slog.Logger
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClassifier replaces the rule-based archetype classifier.
func WithClassifier(c archetype.Classifier) Option {
	return func(t *Tracker) { t.classifier = c }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithClock sets the time source used for lastUpdated stamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker returns a Tracker over kv using cat for reference data.
func NewTracker(kv store.KV, cat *catalog.Catalog, opts ...Option) *Tracker {
	t := &Tracker{
		kv:         kv,
		catalog:    cat,
		classifier: archetype.NewRules(cat),
		evaluator:  achievement.NewEvaluator(cat),
		metrics:    observe.DefaultMetrics(),
		logger:     slog.Default(),
		now:        time.Now,
		locks:      map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Evaluator returns the achievement evaluator used by the tracker.
func (t *Tracker) Evaluator() *achievement.Evaluator {
	return t.evaluator
}

// Catalog returns the reference data used by the tracker.
func (t *Tracker) Catalog() *catalog.Catalog {
	return t.catalog
}

func (t *Tracker) lockUser(userID string) func() {
	t.mu.Lock()
	l, ok := t.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[userID] = l
	}
	t.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Progress returns the stored progress of userID or a fresh default record.
func (t *Tracker) Progress(ctx context.Context, userID string) model.UserProgress {
	p, _ := t.loadProgress(ctx, userID)
	return p
}

// History returns every recorded attempt of userID in insertion order.
func (t *Tracker) History(ctx context.Context, userID string) []model.ExerciseAttempt {
	return t.loadHistory(ctx, userID)
}

// ExerciseAttempts returns the attempts of userID for one exercise.
func (t *Tracker) ExerciseAttempts(ctx context.Context, userID, exerciseID string) []model.ExerciseAttempt {
	var out []model.ExerciseAttempt
	for _, a := range t.loadHistory(ctx, userID) {
		if a.ExerciseID == exerciseID {
			out = append(out, a)
		}
	}
	return out
}

type ingestOptions struct {
	archetype *model.Archetype
}

// IngestOption configures a single Ingest call.
type IngestOption func(*ingestOptions)

// WithArchetype forces the archetype instead of classifying the new score.
func WithArchetype(a model.Archetype) IngestOption {
	return func(o *ingestOptions) { o.archetype = &a }
}

// Ingest folds attempt into the progress of userID, appends it to history and
// returns the updated progress together with the achievements it unlocked.
func (t *Tracker) Ingest(ctx context.Context, userID string, attempt model.ExerciseAttempt, opts ...IngestOption) (model.UserProgress, []model.Achievement) {
	o := ingestOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	unlock := t.lockUser(userID)
	defer unlock()

	p, _ := t.loadProgress(ctx, userID)
	previousStreak := p.CurrentStreak
	p = ApplyStreak(p, attempt.Timestamp)
	milestone, crossed := CrossedMilestone(previousStreak, p.CurrentStreak)

	p.CommunicationScore = BlendScores(p.CommunicationScore, attempt.ImpactedScores)
	p.CommunicationScore.LastUpdated = t.now()

	p.TotalXP += attempt.XPEarned
	p.TotalSessions++
	p.TotalPracticeTime += attempt.Duration

	var unlocked []model.Achievement
	if crossed {
		if def, ok := t.catalog.StreakAchievement(milestone); ok && !p.HasAchievement(def.ID) {
			p.Achievements = append(p.Achievements, def.ID)
			p.TotalXP += def.XPReward
			unlocked = append(unlocked, def)
		}
	}

	if o.archetype != nil {
		p.Archetype = *o.archetype
	} else {
		p.Archetype = t.classify(p.CommunicationScore)
	}

	history := append(t.loadHistory(ctx, userID), attempt)
	for _, def := range t.evaluator.Evaluate(p, history) {
		p.Achievements = append(p.Achievements, def.ID)
		p.TotalXP += def.XPReward
		unlocked = append(unlocked, def)
	}

	t.save(ctx, userID, map[string]string{
		ProgressKeyPrefix + userID: t.encode(p),
		AttemptsKeyPrefix + userID: t.encode(history),
	})

	t.metrics.RecordIngest(ctx, attempt.ExerciseID)
	for _, def := range unlocked {
		t.metrics.RecordUnlock(ctx, def.ID)
		t.logger.Info("achievement unlocked", "user", userID, "achievement", def.ID, "xp", def.XPReward)
	}
	t.logger.Debug("attempt ingested",
		"user", userID,
		"exercise", attempt.ExerciseID,
		"score", attempt.Score,
		"streak", p.CurrentStreak,
		"overall", p.CommunicationScore.Overall,
	)
	return p, unlocked
}

// RefreshStreak zeroes a lapsed streak as of now and persists the change.
func (t *Tracker) RefreshStreak(ctx context.Context, userID string, now time.Time) model.UserProgress {
	unlock := t.lockUser(userID)
	defer unlock()

	p, found := t.loadProgress(ctx, userID)
	if !found {
		return p
	}
	p, changed := DecayStreak(p, now)
	if changed {
		t.save(ctx, userID, map[string]string{ProgressKeyPrefix + userID: t.encode(p)})
		t.logger.Debug("streak lapsed", "user", userID, "last_practice", p.LastPracticeDate)
	}
	return p
}

// Status summarizes the streak of a user at a point in time.
type Status struct {
	Current        int  `json:"current"`
	Longest        int  `json:"longest"`
	PracticedToday bool `json:"practicedToday"`
	AtRisk         bool `json:"atRisk"`
}

// StreakStatus refreshes the streak and reports it as of now. AtRisk uses the
// hour of now in its own location.
func (t *Tracker) StreakStatus(ctx context.Context, userID string, now time.Time) Status {
	p := t.RefreshStreak(ctx, userID, now)
	practiced := p.LastPracticeDate != "" && p.LastPracticeDate == DateKey(now)
	return Status{
		Current:        p.CurrentStreak,
		Longest:        p.LongestStreak,
		PracticedToday: practiced,
		AtRisk:         !practiced && p.CurrentStreak > 0 && now.Hour() >= atRiskHour,
	}
}

// Award grants achievementID and its XP. It returns false for unknown ids,
// users without a stored record and achievements already owned.
func (t *Tracker) Award(ctx context.Context, userID, achievementID string) bool {
	def, ok := t.catalog.Achievement(achievementID)
	if !ok {
		return false
	}
	unlock := t.lockUser(userID)
	defer unlock()

	p, found := t.loadProgress(ctx, userID)
	if !found || p.HasAchievement(achievementID) {
		return false
	}
	p.Achievements = append(p.Achievements, achievementID)
	p.TotalXP += def.XPReward
	if !t.save(ctx, userID, map[string]string{ProgressKeyPrefix + userID: t.encode(p)}) {
		return false
	}
	t.metrics.RecordUnlock(ctx, achievementID)
	return true
}

// HasAchievement reports whether the stored record of userID owns achievementID.
func (t *Tracker) HasAchievement(ctx context.Context, userID, achievementID string) bool {
	p, found := t.loadProgress(ctx, userID)
	return found && p.HasAchievement(achievementID)
}

// Reset removes both records of userID.
func (t *Tracker) Reset(ctx context.Context, userID string) {
	unlock := t.lockUser(userID)
	defer unlock()
	if err := t.kv.Delete(ctx, ProgressKeyPrefix+userID, AttemptsKeyPrefix+userID); err != nil {
		t.storeFailed(ctx, "delete", userID, err)
	}
}

type keyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Users lists user ids with a stored progress record. It returns nil when the
// store cannot enumerate keys.
func (t *Tracker) Users(ctx context.Context) []string {
	kl, ok := t.kv.(keyLister)
	if !ok {
		return nil
	}
	keys, err := kl.Keys(ctx, ProgressKeyPrefix)
	if err != nil {
		t.storeFailed(ctx, "keys", "", err)
		return nil
	}
	users := make([]string, 0, len(keys))
	for _, k := range keys {
		users = append(users, k[len(ProgressKeyPrefix):])
	}
	return users
}

func (t *Tracker) classify(score model.CommunicationScore) model.Archetype {
	if a, ok := t.classifier.Classify(score); ok {
		return a
	}
	return t.catalog.DefaultArchetype()
}

func (t *Tracker) defaultProgress(userID string) model.UserProgress {
	score := model.CommunicationScore{LastUpdated: t.now()}
	return model.UserProgress{
		UserID:             userID,
		CommunicationScore: score,
		Archetype:          t.classify(score),
		Achievements:       []string{},
	}
}

// loadProgress returns the stored record, or a default one with found=false
// when the record is absent, unreadable or malformed.
func (t *Tracker) loadProgress(ctx context.Context, userID string) (model.UserProgress, bool) {
	raw, ok := t.get(ctx, ProgressKeyPrefix+userID)
	if !ok {
		return t.defaultProgress(userID), false
	}
	var p model.UserProgress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.logger.Warn("discarding malformed progress record", "user", userID, "err", err)
		return t.defaultProgress(userID), false
	}
	p.UserID = userID
	p.Achievements = migrateAchievements(p.Achievements)
	if p.Archetype.ID == "" {
		p.Archetype = t.classify(p.CommunicationScore)
	}
	return p, true
}

func (t *Tracker) loadHistory(ctx context.Context, userID string) []model.ExerciseAttempt {
	raw, ok := t.get(ctx, AttemptsKeyPrefix+userID)
	if !ok {
		return nil
	}
	var history []model.ExerciseAttempt
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		t.logger.Warn("discarding malformed attempt history", "user", userID, "err", err)
		return nil
	}
	return history
}

// migrateAchievements renames legacy streak names and drops duplicates.
func migrateAchievements(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if renamed, ok := legacyAchievements[id]; ok {
			id = renamed
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (t *Tracker) get(ctx context.Context, key string) (string, bool) {
	raw, err := t.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", false
	}
	if err != nil {
		t.storeFailed(ctx, "get", key, err)
		return "", false
	}
	return raw, true
}

func (t *Tracker) save(ctx context.Context, userID string, entries map[string]string) bool {
	if err := t.kv.SetMany(ctx, entries); err != nil {
		t.storeFailed(ctx, "set", userID, err)
		return false
	}
	return true
}

func (t *Tracker) encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		t.logger.Error("encode record", "err", err)
		return ""
	}
	return string(data)
}

func (t *Tracker) storeFailed(ctx context.Context, op, subject string, err error) {
	t.metrics.RecordStoreError(ctx, op)
	t.logger.Warn("store unavailable", "op", op, "subject", subject, "err", err)
}
