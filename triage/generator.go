package triage

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// IntRange is a half-open integer range [Min, Max).
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Sample draws uniformly from the range. An empty range returns Min.
func (r IntRange) Sample(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min)
}

// FloatRange is a half-open real range [Min, Max).
type FloatRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws uniformly from the range. An empty range returns Min.
func (r FloatRange) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// GeneratorConfig bounds the synthetic district metrics.
type GeneratorConfig struct {
	Districts      int        `yaml:"districts"`
	Requests       IntRange   `yaml:"requests"`
	Successful     IntRange   `yaml:"successful"`
	RejectionRate  FloatRange `yaml:"rejection_rate"`
	UploadDelayHrs FloatRange `yaml:"upload_delay_hrs"`
}

// DefaultGeneratorConfig returns the demonstration ranges: 750 districts,
// 1000-50000 requests, 500-48000 successes, 1%-35% rejection, 2-72h delay.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Districts:      750,
		Requests:       IntRange{Min: 1000, Max: 50000},
		Successful:     IntRange{Min: 500, Max: 48000},
		RejectionRate:  FloatRange{Min: 0.01, Max: 0.35},
		UploadDelayHrs: FloatRange{Min: 2, Max: 72},
	}
}

// Generate creates cfg.Districts synthetic records.
// Deterministic given the same config and seed. IDs are District_001,
// District_002, ... in index order. Each district draws requests, successful,
// rejection rate, then delay; successful is clamped to requests.
func Generate(cfg GeneratorConfig, seed int64) Batch {
	if cfg.Districts <= 0 {
		return Batch{}
	}
	rng := NewPartitionedRNG(seed).ForSubsystem(SubsystemGenerator)

	batch := make(Batch, 0, cfg.Districts)
	for i := 1; i <= cfg.Districts; i++ {
		requests := cfg.Requests.Sample(rng)
		successful := cfg.Successful.Sample(rng)
		rejection := cfg.RejectionRate.Sample(rng)
		delay := cfg.UploadDelayHrs.Sample(rng)

		batch = append(batch, &District{
			DistrictID:           fmt.Sprintf("District_%03d", i),
			TotalUpdateRequests:  requests,
			SuccessfulUpdates:    min(successful, requests),
			AvgRejectionRate:     rejection,
			PacketUploadDelayHrs: delay,
		})
	}

	logrus.Debugf("generated %d districts (seed=%d)", len(batch), seed)
	return batch
}
