// Package catalogue holds the read-only store of narrative atoms with
// category/tag indices and pairwise affinity lookup.
package catalogue

import (
	"math/rand"

	"fabula/internal/model"
)

type affinityKey struct {
	a, b string
}

// Catalogue is an in-memory catalogue of story atoms. Atoms returned from
// queries are shared read templates; callers that place an atom into a
// skeleton must clone it first.
type Catalogue struct {
	atoms      []model.StoryAtom
	byCategory map[model.AtomCategory][]model.StoryAtom
	byTag      map[string][]model.StoryAtom
	affinities map[affinityKey]model.AffinityEntry
}

// New builds a catalogue from atom and affinity entries.
func New(atoms []model.StoryAtom, affinities []model.AffinityEntry) *Catalogue {
	c := &Catalogue{
		byCategory: make(map[model.AtomCategory][]model.StoryAtom),
		byTag:      make(map[string][]model.StoryAtom),
		affinities: make(map[affinityKey]model.AffinityEntry, len(affinities)),
	}
	for _, atom := range atoms {
		c.AddAtom(atom)
	}
	for _, entry := range affinities {
		a, b := entry.Key()
		c.affinities[affinityKey{a, b}] = entry
	}
	return c
}

// AddAtom appends an atom and updates all indices.
func (c *Catalogue) AddAtom(atom model.StoryAtom) {
	c.atoms = append(c.atoms, atom)
	c.byCategory[atom.Category] = append(c.byCategory[atom.Category], atom)
	for _, tag := range atom.Tags {
		c.byTag[tag] = append(c.byTag[tag], atom)
	}
}

// GetByCategory returns all atoms matching the category.
func (c *Catalogue) GetByCategory(category model.AtomCategory) []model.StoryAtom {
	return append([]model.StoryAtom(nil), c.byCategory[category]...)
}

// GetByTag returns all atoms carrying the tag.
func (c *Catalogue) GetByTag(tag string) []model.StoryAtom {
	return append([]model.StoryAtom(nil), c.byTag[tag]...)
}

// GetAffinity looks up the symmetric affinity strength between two atom
// names. Returns 0 when no entry exists.
func (c *Catalogue) GetAffinity(atomA, atomB string) float64 {
	if atomB < atomA {
		atomA, atomB = atomB, atomA
	}
	entry, ok := c.affinities[affinityKey{atomA, atomB}]
	if !ok {
		return 0
	}
	return entry.Strength
}

// SampleWeighted samples n atoms from a category with replacement, weighted
// by inverse rarity so common atoms are more likely to be chosen. Returns
// fewer than n atoms only when the category pool is smaller than n.
func (c *Catalogue) SampleWeighted(category model.AtomCategory, rng *rand.Rand, n int) []model.StoryAtom {
	pool := c.byCategory[category]
	if len(pool) == 0 {
		return nil
	}
	weights := make([]float64, len(pool))
	for i, atom := range pool {
		w := 1 - atom.Rarity
		if w < 0.01 {
			w = 0.01
		}
		weights[i] = w
	}
	if n > len(pool) {
		n = len(pool)
	}
	picked := make([]model.StoryAtom, 0, n)
	for i := 0; i < n; i++ {
		picked = append(picked, pool[weightedIndex(rng, weights)])
	}
	return picked
}

// Atoms returns a copy of every loaded atom.
func (c *Catalogue) Atoms() []model.StoryAtom {
	return append([]model.StoryAtom(nil), c.atoms...)
}

// Len reports the number of loaded atoms.
func (c *Catalogue) Len() int {
	return len(c.atoms)
}

func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	target := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}
