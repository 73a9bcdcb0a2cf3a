package company

import (
	"github.com/atelierbooks/facturio/internal/company/repository"
	"github.com/atelierbooks/facturio/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
