package domain

import "context"

type Repository interface {
	List(ctx context.Context) ([]Item, error)
	Replace(ctx context.Context, items []Item) error
}
