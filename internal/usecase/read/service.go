// Package read orchestrates a single logical read: resolve the target
// indexes, translate the query, run one engine round trip, decode.
package read

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skran-dev/sphindex/internal/domain"
	"github.com/skran-dev/sphindex/internal/domain/query"
	"github.com/skran-dev/sphindex/internal/domain/result"
	"github.com/skran-dev/sphindex/internal/domain/schema"
	"github.com/skran-dev/sphindex/internal/metrics"
	"github.com/skran-dev/sphindex/internal/translate"
)

// Service handles reads against the search engine. Index population
// happens out-of-band, so create and delete are acknowledged no-ops.
type Service struct {
	repo       Repository
	registry   *schema.Registry
	translator translate.Translator
	logger     *zap.Logger
}

// New creates a read service. The registry and logger are explicit
// dependencies, never process globals.
func New(repo Repository, registry *schema.Registry, translator translate.Translator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, registry: registry, translator: translator, logger: logger}
}

// ReadMany executes one structured query and returns all decoded rows.
// A translation error fails before any network call; an engine error
// aborts the read with no partial results.
func (s *Service) ReadMany(ctx context.Context, q query.Query) ([]result.Row, error) {
	model, ok := s.registry.Get(q.Model())
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownModel, q.Model())
	}

	t, err := s.translator.Translate(model, q)
	if err != nil {
		return nil, fmt.Errorf("translate %s: %w", model.Name(), err)
	}
	for _, w := range t.Warnings {
		s.logger.Warn("query downgraded", zap.String("model", model.Name()), zap.String("reason", w))
	}

	indexes := model.IndexNames()
	set, err := s.repo.Search(ctx, indexes, &t)
	if err != nil {
		metrics.QueryTotal.WithLabelValues(model.Name(), "error").Inc()
		return nil, fmt.Errorf("search %s: %w", model.Name(), err)
	}

	metrics.QueryTotal.WithLabelValues(model.Name(), "ok").Inc()
	metrics.QueryDuration.WithLabelValues(model.Name()).Observe(set.TimeSec)
	s.logger.Info("query executed",
		zap.String("model", model.Name()),
		zap.String("indexes", strings.Join(indexes, ",")),
		zap.String("match", t.Match),
		zap.Float64("elapsed_sec", set.TimeSec),
		zap.Int("total", set.Total),
		zap.Int("total_found", set.TotalFound),
	)
	if set.Warning != "" {
		s.logger.Warn("engine warning", zap.String("model", model.Name()), zap.String("warning", set.Warning))
	}

	return set.Rows, nil
}

// ReadOne returns the first row of ReadMany, or ErrNotFound when the
// engine matched nothing.
func (s *Service) ReadOne(ctx context.Context, q query.Query) (result.Row, error) {
	rows, err := s.ReadMany(ctx, q)
	if err != nil {
		return result.Row{}, err
	}
	if len(rows) == 0 {
		return result.Row{}, domain.ErrNotFound
	}
	return rows[0], nil
}

// Create acknowledges a write without doing anything: documents reach
// the engine through its external indexer, not through this adapter.
func (s *Service) Create(_ context.Context, modelName string, count int) error {
	s.logger.Debug("create is a no-op, indexing happens out-of-band",
		zap.String("model", modelName), zap.Int("resources", count))
	return nil
}

// Delete likewise acknowledges without acting.
func (s *Service) Delete(_ context.Context, modelName string) error {
	s.logger.Debug("delete is a no-op, indexing happens out-of-band",
		zap.String("model", modelName))
	return nil
}
