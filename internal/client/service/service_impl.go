package service

import (
	"context"
	"strings"

	"github.com/atelierbooks/facturio/internal/client/domain"
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
		log:  p.Log.Named("client.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) Replace(ctx context.Context, clients []domain.Client) error {
	for _, cli := range clients {
		if strings.TrimSpace(cli.Name) == "" {
			return domain.ErrInvalidName
		}
	}
	if err := s.repo.Replace(ctx, clients); err != nil {
		return err
	}
	s.log.Info("clients replaced", zap.Int("clients", len(clients)))
	return nil
}
