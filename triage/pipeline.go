package triage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result is one complete pipeline run, ready for the presentation layer.
type Result struct {
	RunID   string
	Seed    int64
	Batch   Batch
	Elapsed time.Duration
}

// Run validates cfg, then generates, scores and clusters a fresh batch.
// Either every district carries a risk tier or an error is returned.
func Run(cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	runID := uuid.NewString()
	log := logrus.WithField("run_id", runID)
	start := time.Now()

	batch := Generate(cfg.Generator, cfg.Seed)
	Score(batch)
	batch, err := Cluster(batch, cfg.Clustering, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("clustering %d districts: %w", cfg.Generator.Districts, err)
	}

	elapsed := time.Since(start)
	counts := batch.CountByCategory()
	log.Infof("triaged %d districts in %v: stable=%d watchlist=%d critical=%d",
		len(batch), elapsed, counts[RiskStable], counts[RiskWatchlist], counts[RiskCritical])

	return &Result{
		RunID:   runID,
		Seed:    cfg.Seed,
		Batch:   batch,
		Elapsed: elapsed,
	}, nil
}
