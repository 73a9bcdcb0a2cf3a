package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]Item, error)
	Replace(ctx context.Context, items []Item) error
}

var (
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidQuantity = errors.New("invalid_quantity")
)
