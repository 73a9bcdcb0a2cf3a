package service

import (
	"context"

	"github.com/atelierbooks/facturio/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) Replace(ctx context.Context, items []domain.Item) error {
	for _, it := range items {
		if it.UnitPrice < 0 {
			return domain.ErrInvalidPrice
		}
		if it.Quantity < 1 {
			return domain.ErrInvalidQuantity
		}
	}
	if err := s.repo.Replace(ctx, items); err != nil {
		return err
	}
	s.log.Info("catalog replaced", zap.Int("items", len(items)))
	return nil
}
