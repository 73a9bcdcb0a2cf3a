package client

import (
	"github.com/atelierbooks/facturio/internal/client/repository"
	"github.com/atelierbooks/facturio/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
