package main

import (
	"github.com/atelierbooks/facturio/internal/server"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		server.Module,
	).Run()
}
