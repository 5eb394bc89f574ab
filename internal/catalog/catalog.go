// Package catalog loads the static exercise, achievement, prompt and archetype data.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/articulate/internal/model"
)

//go:embed catalog.yaml
var defaultData []byte

// DefaultArchetypeID names the archetype used when no classification applies.
const DefaultArchetypeID = "generic-speaker"

// File is the on-disk layout of a catalog YAML document.
type File struct {
	Exercises    []model.Exercise    `yaml:"exercises"`
	Implemented  []string            `yaml:"implemented"`
	Achievements []model.Achievement `yaml:"achievements"`
	Prompts      []string            `yaml:"prompts"`
	Archetypes   []model.Archetype   `yaml:"archetypes"`
}

// Catalog is a validated, indexed view of a File. It is read-only after construction.
type Catalog struct {
	exercises    []model.Exercise
	achievements []model.Achievement
	prompts      []string
	archetypes   []model.Archetype

	exerciseByID    map[string]int
	achievementByID map[string]int
	archetypeByID   map[string]int
	implemented     map[string]struct{}
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog. It panics if the embedded data is invalid.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(bytes.NewReader(defaultData))
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded data: %v", defaultErr))
	}
	return defaultCat
}

// LoadFile reads and validates a catalog YAML file from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	return c, nil
}

// Load decodes catalog YAML from r and validates it.
func Load(r io.Reader) (*Catalog, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return New(f)
}

// New indexes f. It returns a joined error listing every problem found.
func New(f File) (*Catalog, error) {
	c := &Catalog{
		exercises:       f.Exercises,
		achievements:    f.Achievements,
		prompts:         f.Prompts,
		archetypes:      f.Archetypes,
		exerciseByID:    make(map[string]int, len(f.Exercises)),
		achievementByID: make(map[string]int, len(f.Achievements)),
		archetypeByID:   make(map[string]int, len(f.Archetypes)),
		implemented:     make(map[string]struct{}, len(f.Implemented)),
	}

	var errs []error
	for i, ex := range f.Exercises {
		if ex.ID == "" {
			errs = append(errs, fmt.Errorf("exercises[%d]: missing id", i))
			continue
		}
		if _, dup := c.exerciseByID[ex.ID]; dup {
			errs = append(errs, fmt.Errorf("exercise %q: duplicate id", ex.ID))
			continue
		}
		for _, s := range ex.ImpactsScores {
			if !s.Valid() {
				errs = append(errs, fmt.Errorf("exercise %q: unknown subscore %q", ex.ID, s))
			}
		}
		c.exerciseByID[ex.ID] = i
	}
	for _, id := range f.Implemented {
		if _, ok := c.exerciseByID[id]; !ok {
			errs = append(errs, fmt.Errorf("implemented: unknown exercise %q", id))
			continue
		}
		c.implemented[id] = struct{}{}
	}
	for i, a := range f.Achievements {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("achievements[%d]: missing id", i))
			continue
		}
		if _, dup := c.achievementByID[a.ID]; dup {
			errs = append(errs, fmt.Errorf("achievement %q: duplicate id", a.ID))
			continue
		}
		if !a.Kind.Valid() {
			errs = append(errs, fmt.Errorf("achievement %q: unknown kind %q", a.ID, a.Kind))
		}
		if a.Kind == model.KindImprovement && !a.Subscore.Valid() {
			errs = append(errs, fmt.Errorf("achievement %q: improvement needs a valid subscore", a.ID))
		}
		c.achievementByID[a.ID] = i
	}
	for i, a := range f.Archetypes {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("archetypes[%d]: missing id", i))
			continue
		}
		if _, dup := c.archetypeByID[a.ID]; dup {
			errs = append(errs, fmt.Errorf("archetype %q: duplicate id", a.ID))
			continue
		}
		c.archetypeByID[a.ID] = i
	}
	if _, ok := c.archetypeByID[DefaultArchetypeID]; !ok {
		errs = append(errs, fmt.Errorf("archetypes: missing %q", DefaultArchetypeID))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("catalog: invalid: %w", err)
	}
	return c, nil
}

// Exercises returns all exercises in catalog order.
func (c *Catalog) Exercises() []model.Exercise {
	return append([]model.Exercise(nil), c.exercises...)
}

// Exercise looks up an exercise by id.
func (c *Catalog) Exercise(id string) (model.Exercise, bool) {
	i, ok := c.exerciseByID[id]
	if !ok {
		return model.Exercise{}, false
	}
	return c.exercises[i], true
}

// ExercisesByCategory returns the exercises of one category in catalog order.
func (c *Catalog) ExercisesByCategory(category string) []model.Exercise {
	var out []model.Exercise
	for _, ex := range c.exercises {
		if ex.Category == category {
			out = append(out, ex)
		}
	}
	return out
}

// Foundation returns the foundation-tier exercises.
func (c *Catalog) Foundation() []model.Exercise {
	var out []model.Exercise
	for _, ex := range c.exercises {
		if ex.Tier == "foundation" {
			out = append(out, ex)
		}
	}
	return out
}

// IsImplemented reports whether the exercise can be practiced interactively.
func (c *Catalog) IsImplemented(id string) bool {
	_, ok := c.implemented[id]
	return ok
}

// Implemented returns the practicable exercises in catalog order.
func (c *Catalog) Implemented() []model.Exercise {
	var out []model.Exercise
	for _, ex := range c.exercises {
		if c.IsImplemented(ex.ID) {
			out = append(out, ex)
		}
	}
	return out
}

// Achievements returns all achievement definitions in catalog order.
func (c *Catalog) Achievements() []model.Achievement {
	return append([]model.Achievement(nil), c.achievements...)
}

// Achievement looks up an achievement by id.
func (c *Catalog) Achievement(id string) (model.Achievement, bool) {
	i, ok := c.achievementByID[id]
	if !ok {
		return model.Achievement{}, false
	}
	return c.achievements[i], true
}

// StreakAchievement returns the streak achievement for an exact target.
func (c *Catalog) StreakAchievement(target int) (model.Achievement, bool) {
	for _, a := range c.achievements {
		if a.Kind == model.KindStreak && a.Target == target {
			return a, true
		}
	}
	return model.Achievement{}, false
}

// Prompts returns the impromptu prompts.
func (c *Catalog) Prompts() []string {
	return append([]string(nil), c.prompts...)
}

// Archetypes returns all archetypes in catalog order.
func (c *Catalog) Archetypes() []model.Archetype {
	return append([]model.Archetype(nil), c.archetypes...)
}

// Archetype looks up an archetype by id.
func (c *Catalog) Archetype(id string) (model.Archetype, bool) {
	i, ok := c.archetypeByID[id]
	if !ok {
		return model.Archetype{}, false
	}
	return c.archetypes[i], true
}

// DefaultArchetype returns the fallback archetype.
func (c *Catalog) DefaultArchetype() model.Archetype {
	a, _ := c.Archetype(DefaultArchetypeID)
	return a
}
