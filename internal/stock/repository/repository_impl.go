package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/atelierbooks/facturio/internal/config"
	"github.com/atelierbooks/facturio/internal/stock/domain"
	"github.com/atelierbooks/facturio/pkg/recordfile"
)

var columns = []string{"name", "color", "lot_number", "entry_date", "quantity"}

type repo struct {
	mu   sync.Mutex
	path string
	lots []domain.Lot
}

// Provide loads stock.csv into memory. Files written before the color
// column existed load with an empty color.
func Provide(cfg config.Config) (domain.Repository, error) {
	r := &repo{path: filepath.Join(cfg.DataDir, "stock.csv")}

	rows, err := recordfile.Read(r.path)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		qty, err := strconv.Atoi(row.Get("quantity"))
		if err != nil {
			return nil, fmt.Errorf("stock.csv lot %q: parse quantity: %w", row.Get("lot_number"), err)
		}
		r.lots = append(r.lots, domain.Lot{
			Name:      row.Get("name"),
			Color:     row.Get("color"),
			LotNumber: row.Get("lot_number"),
			EntryDate: row.Get("entry_date"),
			Quantity:  qty,
		})
	}
	return r, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Lot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Lot, len(r.lots))
	copy(out, r.lots)
	return out, nil
}

func (r *repo) Replace(ctx context.Context, lots []domain.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]recordfile.Row, 0, len(lots))
	for _, lot := range lots {
		rows = append(rows, recordfile.Row{
			"name":       lot.Name,
			"color":      lot.Color,
			"lot_number": lot.LotNumber,
			"entry_date": lot.EntryDate,
			"quantity":   strconv.Itoa(lot.Quantity),
		})
	}
	if err := recordfile.Write(r.path, columns, rows); err != nil {
		return err
	}
	r.lots = append(r.lots[:0:0], lots...)
	return nil
}
