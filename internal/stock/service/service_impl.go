package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/atelierbooks/facturio/internal/observability/metrics"
	"github.com/atelierbooks/facturio/internal/stock/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    domain.Repository
	Metrics *metrics.Metrics
}

type Service struct {
	log     *zap.Logger
	repo    domain.Repository
	metrics *metrics.Metrics

	// Serializes reconciliations: the validate-then-apply pair must see
	// a stable ledger.
	mu sync.Mutex
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("stock.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Lot, error) {
	return s.repo.List(ctx)
}

func (s *Service) Replace(ctx context.Context, lots []domain.Lot) error {
	for _, lot := range lots {
		if lot.Quantity < 0 {
			return domain.ErrInvalidQuantity
		}
	}
	if err := s.repo.Replace(ctx, lots); err != nil {
		return err
	}
	s.log.Info("stock replaced", zap.Int("lots", len(lots)))
	return nil
}

func (s *Service) Available(ctx context.Context) ([]domain.Lot, error) {
	lots, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	available := lots[:0:0]
	for _, lot := range lots {
		if lot.Quantity > 0 {
			available = append(available, lot)
		}
	}
	return available, nil
}

func (s *Service) Reconcile(ctx context.Context, old, updated []domain.UnitConsumption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deltas := domain.ComputeDeltas(old, updated)
	if len(deltas) == 0 {
		return nil
	}

	lots, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	next, err := domain.ApplyDeltas(lots, deltas)
	if err != nil {
		s.metrics.ReconciliationRejected()
		s.log.Warn("reconciliation rejected",
			zap.Int("deltas", len(deltas)),
			zap.Error(err),
		)
		return err
	}

	if err := s.repo.Replace(ctx, next); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}

	s.metrics.ReconciliationApplied()
	s.log.Info("stock reconciled", zap.Int("deltas", len(deltas)))
	return nil
}
