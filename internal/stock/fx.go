package stock

import (
	"github.com/atelierbooks/facturio/internal/stock/repository"
	"github.com/atelierbooks/facturio/internal/stock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stock.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
