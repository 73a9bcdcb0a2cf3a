package domain

import (
	"context"
	"errors"
)

type Repository interface {
	List(ctx context.Context) ([]Client, error)
	Replace(ctx context.Context, clients []Client) error
}

type Service interface {
	List(ctx context.Context) ([]Client, error)
	Replace(ctx context.Context, clients []Client) error
}

var ErrInvalidName = errors.New("invalid_name")
