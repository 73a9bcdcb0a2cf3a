package repository

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/atelierbooks/facturio/internal/company/domain"
	"github.com/atelierbooks/facturio/internal/config"
	"github.com/atelierbooks/facturio/pkg/recordfile"
)

var columns = []string{"name", "siret", "address", "rm", "phone", "email"}

type repo struct {
	mu      sync.Mutex
	path    string
	profile domain.Profile
}

// Provide loads the single-row company.csv. A missing file yields a
// zero profile so a fresh install starts with an empty form.
func Provide(cfg config.Config) (domain.Repository, error) {
	r := &repo{path: filepath.Join(cfg.DataDir, "company.csv")}

	rows, err := recordfile.Read(r.path)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		row := rows[0]
		r.profile = domain.Profile{
			Name:    row.Get("name"),
			Siret:   row.Get("siret"),
			Address: row.Get("address"),
			RM:      row.Get("rm"),
			Phone:   row.Get("phone"),
			Email:   row.Get("email"),
		}
	}
	return r, nil
}

func (r *repo) Get(ctx context.Context) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile, nil
}

func (r *repo) Put(ctx context.Context, profile domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := recordfile.Row{
		"name":    profile.Name,
		"siret":   profile.Siret,
		"address": profile.Address,
		"rm":      profile.RM,
		"phone":   profile.Phone,
		"email":   profile.Email,
	}
	if err := recordfile.Write(r.path, columns, []recordfile.Row{row}); err != nil {
		return err
	}
	r.profile = profile
	return nil
}
