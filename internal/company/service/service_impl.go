package service

import (
	"context"
	"strings"

	"github.com/atelierbooks/facturio/internal/company/domain"
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
		log:  p.Log.Named("company.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.Profile, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Put(ctx context.Context, profile domain.Profile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return domain.ErrInvalidName
	}
	if err := s.repo.Put(ctx, profile); err != nil {
		return err
	}
	s.log.Info("company profile saved", zap.String("name", profile.Name))
	return nil
}
