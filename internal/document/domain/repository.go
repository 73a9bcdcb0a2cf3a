package domain

import "context"

type Repository interface {
	List(ctx context.Context) ([]Document, error)
	// FindByNumber returns nil when no document carries the number.
	FindByNumber(ctx context.Context, number string) (*Document, error)
	// Upsert replaces the document with the same number, or appends it,
	// and rewrites the backing file.
	Upsert(ctx context.Context, doc Document) error
}
