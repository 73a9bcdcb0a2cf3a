package document

import (
	"github.com/atelierbooks/facturio/internal/document/repository"
	"github.com/atelierbooks/facturio/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
