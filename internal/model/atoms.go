package model

import (
	"fmt"
	"strings"
)

// AtomCategory classifies the narrative role of a story atom.
type AtomCategory string

const (
	CategoryAgent    AtomCategory = "agent"
	CategoryObject   AtomCategory = "object"
	CategoryLocation AtomCategory = "location"
	CategoryTension  AtomCategory = "tension"
	CategoryTrigger  AtomCategory = "trigger"
	CategoryQuality  AtomCategory = "quality"
)

// AllCategories lists every atom category in declaration order.
func AllCategories() []AtomCategory {
	return []AtomCategory{
		CategoryAgent,
		CategoryObject,
		CategoryLocation,
		CategoryTension,
		CategoryTrigger,
		CategoryQuality,
	}
}

// ParseAtomCategory maps a raw string onto a known category. Unknown values
// are a data error and must be rejected at load time.
func ParseAtomCategory(s string) (AtomCategory, error) {
	switch AtomCategory(strings.ToLower(s)) {
	case CategoryAgent, CategoryObject, CategoryLocation, CategoryTension, CategoryTrigger, CategoryQuality:
		return AtomCategory(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown atom category: %q", s)
	}
}

// AtomSource records how an atom was produced.
type AtomSource string

const (
	SourceCatalogue  AtomSource = "catalogue"
	SourceLetterSoup AtomSource = "letter_soup"
	SourceDictionary AtomSource = "dictionary"
	SourceNeologism  AtomSource = "neologism"
	SourceWildCard   AtomSource = "wild_card"
	SourceEvolved    AtomSource = "evolved"
)

func ParseAtomSource(s string) (AtomSource, error) {
	switch AtomSource(strings.ToLower(s)) {
	case SourceCatalogue, SourceLetterSoup, SourceDictionary, SourceNeologism, SourceWildCard, SourceEvolved:
		return AtomSource(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown atom source: %q", s)
	}
}

// StoryAtom is a single narrative element. Atoms held by a catalogue are
// shared read templates; atoms held by a skeleton are owned copies.
type StoryAtom struct {
	Name     string            `json:"name" yaml:"name"`
	Category AtomCategory      `json:"category" yaml:"category"`
	Source   AtomSource        `json:"source" yaml:"source"`
	Tags     []string          `json:"tags" yaml:"tags"`
	Rarity   float64           `json:"rarity" yaml:"rarity"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// HasTag reports whether the atom carries the given tag.
func (a StoryAtom) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag unless it is already present. Returns true when the
// tag list actually changed.
func (a *StoryAtom) AddTag(tag string) bool {
	if a.HasTag(tag) {
		return false
	}
	a.Tags = append(a.Tags, tag)
	return true
}

// AffinityEntry is a sparse, symmetric affinity between two atom names.
// Strength ranges from -1 (repulsion) to 1 (strong affinity).
type AffinityEntry struct {
	AtomA    string   `json:"atom_a" yaml:"atom_a"`
	AtomB    string   `json:"atom_b" yaml:"atom_b"`
	Strength float64  `json:"strength" yaml:"strength"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Key returns the canonical sorted name pair used for lookup.
func (e AffinityEntry) Key() (string, string) {
	if e.AtomB < e.AtomA {
		return e.AtomB, e.AtomA
	}
	return e.AtomA, e.AtomB
}
