// Package seed funnels all randomness through deterministic, per-component
// generators derived from one master seed.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"
)

// Manager derives child generators from a master seed. Every component that
// needs randomness asks for ChildRNG("component_name") and gets a *rand.Rand
// seeded from SHA-256("{seed}:{name}"); re-running with the same master seed
// and component names reproduces identical sequences.
type Manager struct {
	masterSeed int64
	rng        *rand.Rand
}

// New builds a manager from an explicit master seed.
func New(masterSeed int64) *Manager {
	return &Manager{
		masterSeed: masterSeed,
		rng:        rand.New(rand.NewSource(masterSeed)),
	}
}

// NewRandom builds a manager with a time-derived master seed for callers
// that did not pin one.
func NewRandom() *Manager {
	return New(time.Now().UnixNano())
}

// MasterSeed returns the seed the manager was built from.
func (m *Manager) MasterSeed() int64 {
	return m.masterSeed
}

// ChildRNG derives a deterministic child generator for the named component.
func (m *Manager) ChildRNG(name string) *rand.Rand {
	digest := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", m.masterSeed, name)))
	childSeed := int64(binary.BigEndian.Uint64(digest[:8]))
	return rand.New(rand.NewSource(childSeed))
}

// NextInt draws the next value in [min, max] from the master generator.
func (m *Manager) NextInt(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + m.rng.Int63n(max-min+1)
}
