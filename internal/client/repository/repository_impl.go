package repository

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/atelierbooks/facturio/internal/client/domain"
	"github.com/atelierbooks/facturio/internal/config"
	"github.com/atelierbooks/facturio/pkg/recordfile"
)

var columns = []string{"name", "address", "phone", "email", "city"}

type repo struct {
	mu      sync.Mutex
	path    string
	clients []domain.Client
}

func Provide(cfg config.Config) (domain.Repository, error) {
	r := &repo{path: filepath.Join(cfg.DataDir, "clients.csv")}

	rows, err := recordfile.Read(r.path)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		r.clients = append(r.clients, domain.Client{
			Name:    row.Get("name"),
			Address: row.Get("address"),
			Phone:   row.Get("phone"),
			Email:   row.Get("email"),
			City:    row.Get("city"),
		})
	}
	return r, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Client, len(r.clients))
	copy(out, r.clients)
	return out, nil
}

func (r *repo) Replace(ctx context.Context, clients []domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]recordfile.Row, 0, len(clients))
	for _, cli := range clients {
		rows = append(rows, recordfile.Row{
			"name":    cli.Name,
			"address": cli.Address,
			"phone":   cli.Phone,
			"email":   cli.Email,
			"city":    cli.City,
		})
	}
	if err := recordfile.Write(r.path, columns, rows); err != nil {
		return err
	}
	r.clients = append(r.clients[:0:0], clients...)
	return nil
}
