// Package domain contains the company profile.
package domain

import (
	"context"
	"errors"
)

// Profile holds the issuing company identity printed on documents.
// RM is the trade-register identifier (répertoire des métiers).
type Profile struct {
	Name    string `json:"name"`
	Siret   string `json:"siret"`
	Address string `json:"address"`
	RM      string `json:"rm"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type Repository interface {
	Get(ctx context.Context) (Profile, error)
	Put(ctx context.Context, profile Profile) error
}

type Service interface {
	Get(ctx context.Context) (Profile, error)
	Put(ctx context.Context, profile Profile) error
}

var ErrInvalidName = errors.New("invalid_name")
