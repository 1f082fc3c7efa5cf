package app

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/engine"
	"github.com/hasura/data-generator-sub003/internal/hashing"
	"github.com/hasura/data-generator-sub003/internal/keys"
	"github.com/hasura/data-generator-sub003/internal/logging"
	"github.com/hasura/data-generator-sub003/internal/plans"
	"github.com/hasura/data-generator-sub003/internal/registry"
	"github.com/hasura/data-generator-sub003/internal/rules"
	"github.com/hasura/data-generator-sub003/internal/run"
	"github.com/hasura/data-generator-sub003/internal/validation"
)

type PreviewRequest struct {
	Plan         *domain.Plan
	RowOverrides map[string]int64
	Seed         *int64
	Keys         KeySourceConfig
}

// PreviewService runs plans through the reference driver against one
// assembled catalog list.
type PreviewService struct {
	catalogs    []domain.Catalog
	set         *rules.Set
	catalogHash string
	validator   *validation.Validator
	logger      *logging.Logger
	batchSize   int
}

// NewPreviewService validates and binds catalogs once; a failure here means
// no run can start.
func NewPreviewService(catalogs []domain.Catalog, genRegistry *registry.GeneratorRegistry, logger *logging.Logger, batchSize int) (*PreviewService, error) {
	validator := validation.NewValidator(genRegistry)
	if err := validator.ValidateCatalogs(catalogs); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}
	set, err := rules.Build(catalogs, genRegistry)
	if err != nil {
		return nil, err
	}
	hash, err := hashing.HashCatalogs(catalogs)
	if err != nil {
		return nil, fmt.Errorf("failed to hash catalogs: %w", err)
	}
	return &PreviewService{
		catalogs:    catalogs,
		set:         set,
		catalogHash: hash,
		validator:   validator,
		logger:      logger.WithComponent("preview"),
		batchSize:   batchSize,
	}, nil
}

func (s *PreviewService) Rules() *rules.Set { return s.set }

func (s *PreviewService) CatalogHash() string { return s.catalogHash }

func (s *PreviewService) Preview(ctx context.Context, req *PreviewRequest, sink engine.Sink) (*domain.RunStats, error) {
	if req.Plan == nil {
		return nil, fmt.Errorf("plan is required")
	}
	plan := req.Plan
	if len(req.RowOverrides) > 0 {
		var err error
		plan, err = plans.ApplyRowOverrides(plan, req.RowOverrides)
		if err != nil {
			return nil, err
		}
	}
	if err := s.validator.ValidatePlan(plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	if err := validation.ValidatePlanRules(plan, s.set); err != nil {
		return nil, fmt.Errorf("plan does not resolve against catalogs: %w", err)
	}

	seed := int64(0)
	if req.Seed != nil {
		seed = *req.Seed
	} else if plan.Seed != nil {
		seed = *plan.Seed
	} else {
		seed = generateSeed()
	}

	counts := make(map[string]int64, len(plan.Tables))
	for _, t := range plan.Tables {
		counts[t.Table] = t.Rows
	}
	configHash, err := hashing.HashRunConfig(s.catalogHash, plan, counts, req.Keys.Kind, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash run config: %w", err)
	}

	mem := keys.NewMemory()
	src, closeSrc, err := OpenKeySource(ctx, req.Keys, mem, s.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeSrc(); err != nil {
			s.logger.Warn("failed to close key source: %v", err)
		}
	}()

	runID := uuid.NewString()
	s.logger.Infow("run.started", map[string]any{
		"run_id":       runID,
		"plan":         plan.ID,
		"seed":         seed,
		"catalog_hash": s.catalogHash,
		"config_hash":  configHash,
		"keys_kind":    req.Keys.Kind,
	})

	start := time.Now()
	state := run.NewState(src, seed, s.logger)
	stats, err := engine.NewDriver(s.set, s.logger, s.batchSize).Execute(ctx, plan, state, mem, sink)
	if err != nil {
		s.logger.Errorw("run.failed", map[string]any{"run_id": runID, "error": err.Error()})
		return nil, err
	}

	stats.RunID = runID
	stats.CatalogHash = s.catalogHash
	stats.ConfigHash = configHash
	stats.DurationSeconds = time.Since(start).Seconds()
	s.logger.Infow("run.completed", map[string]any{
		"run_id":           runID,
		"tables":           stats.TablesGenerated,
		"rows":             stats.TotalRows,
		"duration_seconds": stats.DurationSeconds,
	})
	return stats, nil
}

func generateSeed() int64 {
	var b [8]byte
	rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}
