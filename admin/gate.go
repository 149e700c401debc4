// Package admin consults the independently owned admin allow-list. The gate
// fails closed: a malfunctioning admin store must never grant elevated
// access.
package admin

import (
	"context"
	"errors"

	"github.com/goliatone/go-gameprofile/pkg/types"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the allow-list lookup to the settings store.
type RepositoryConfig struct {
	DB *bun.DB
}

// Repository answers raw allow-list membership, surfacing storage errors so
// the gate can decide how to degrade.
type Repository struct {
	db *bun.DB
}

// NewRepository constructs the allow-list repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("admin: db required")
	}
	return &Repository{db: cfg.DB}, nil
}

var _ types.AdminRepository = (*Repository)(nil)

// IsAdmin reports whether the user id is present in the allow-list.
func (r *Repository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return r.db.NewSelect().
		Table("admin").
		Where("id = ?", userID).
		Exists(ctx)
}

// Gate wraps an AdminRepository into the fail-closed PermissionGate used by
// the view query.
type Gate struct {
	repo   types.AdminRepository
	logger types.Logger
}

// NewGate constructs the permission gate. A nil logger is replaced with a
// no-op one.
func NewGate(repo types.AdminRepository, logger types.Logger) *Gate {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Gate{repo: repo, logger: logger}
}

var _ types.PermissionGate = (*Gate)(nil)

// Allow reports whether the caller is an administrator. Storage errors and a
// missing repository both resolve to false.
func (g *Gate) Allow(ctx context.Context, userID int64) bool {
	if g == nil || g.repo == nil {
		return false
	}
	ok, err := g.repo.IsAdmin(ctx, userID)
	if err != nil {
		g.logger.Error("admin lookup failed, denying access", err, "user_id", userID)
		return false
	}
	return ok
}
