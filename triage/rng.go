package triage

import (
	"hash/fnv"
	"math/rand"
)

// === Subsystems ===

const (
	// SubsystemGenerator draws synthetic district metrics.
	// Uses the seed directly so --seed alone pins the generated batch.
	SubsystemGenerator = "generator"

	// SubsystemKMeans draws centroid seeds for every k-means restart.
	SubsystemKMeans = "kmeans"
)

// PartitionedRNG hands out one deterministically-seeded *rand.Rand per
// pipeline stage, so draws in one stage never shift the sequence of another.
//
// Derivation:
//   - SubsystemGenerator: seed
//   - everything else: seed XOR fnv1a64(name)
//
// Not safe for concurrent use.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG for the given seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the RNG for name, creating it on first use.
// Repeated calls with the same name return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derived := p.seed
	if name != SubsystemGenerator {
		derived = p.seed ^ fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(derived))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the seed the partitions derive from.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
