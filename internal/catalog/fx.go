package catalog

import (
	"github.com/atelierbooks/facturio/internal/catalog/repository"
	"github.com/atelierbooks/facturio/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
