// Package domain contains the raw-material stock ledger and the
// reconciliation engine that keeps it consistent across invoice edits.
package domain

import (
	"context"
	"errors"
)

// Lot is a tracked batch of raw material. Quantity is the remaining
// stock and never goes below zero. EntryDate is kept verbatim in the
// YYYY-MM-DD form the record file uses.
type Lot struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	LotNumber string `json:"lot_number"`
	EntryDate string `json:"entry_date"`
	Quantity  int    `json:"quantity"`
}

type Repository interface {
	List(ctx context.Context) ([]Lot, error)
	Replace(ctx context.Context, lots []Lot) error
}

type Service interface {
	List(ctx context.Context) ([]Lot, error)
	// Replace is the stock-editor overwrite: the full ledger is swapped
	// for the provided lots.
	Replace(ctx context.Context, lots []Lot) error
	// Available lists lots still holding stock, for binding to serials.
	Available(ctx context.Context) ([]Lot, error)
	// Reconcile diffs the previous and edited per-unit consumption of an
	// invoice and applies the resulting deltas to the ledger. The ledger
	// is untouched when any lot would go negative.
	Reconcile(ctx context.Context, old, updated []UnitConsumption) error
}

var (
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInsufficientStock = errors.New("insufficient_stock")
)
