package repository

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/atelierbooks/facturio/internal/catalog/domain"
	"github.com/atelierbooks/facturio/internal/config"
	"github.com/atelierbooks/facturio/pkg/recordfile"
)

var columns = []string{"description", "unit_price", "quantity"}

type repo struct {
	mu    sync.Mutex
	path  string
	items []domain.Item
}

// Provide loads catalog.csv into memory. The in-memory slice is the
// working set for the whole session; Replace flushes it back to disk.
func Provide(cfg config.Config) (domain.Repository, error) {
	r := &repo{path: filepath.Join(cfg.DataDir, "catalog.csv")}

	rows, err := recordfile.Read(r.path)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		price, _ := strconv.ParseFloat(row.Get("unit_price"), 64)
		qty, _ := strconv.Atoi(row.Get("quantity"))
		r.items = append(r.items, domain.Item{
			Description: row.Get("description"),
			UnitPrice:   price,
			Quantity:    qty,
		})
	}
	return r, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *repo) Replace(ctx context.Context, items []domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]recordfile.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, recordfile.Row{
			"description": it.Description,
			"unit_price":  strconv.FormatFloat(it.UnitPrice, 'f', -1, 64),
			"quantity":    strconv.Itoa(it.Quantity),
		})
	}
	if err := recordfile.Write(r.path, columns, rows); err != nil {
		return err
	}
	r.items = append(r.items[:0:0], items...)
	return nil
}
