// Package globaluser bridges the independently owned global user store. The
// store has its own lifecycle and may be unavailable without that being this
// module's fault, so callers are expected to degrade on error rather than
// fail the surrounding command.
package globaluser

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-gameprofile/pkg/types"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the bridge to the external store's connection.
type RepositoryConfig struct {
	DB *bun.DB
}

// Repository implements types.GlobalUserRepository over the external users
// table.
type Repository struct {
	db *bun.DB
}

// NewRepository constructs the global user bridge.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("globaluser: db required")
	}
	return &Repository{db: cfg.DB}, nil
}

var _ types.GlobalUserRepository = (*Repository)(nil)

// EnsureExists inserts a bare record when the identifier is absent and leaves
// existing rows untouched. The created result is the reconciliation trigger:
// a prompt is only relevant when the record predates this call.
func (r *Repository) EnsureExists(ctx context.Context, externalID int64) (bool, error) {
	if externalID == 0 {
		return false, types.ErrExternalIDRequired
	}
	res, err := r.db.NewInsert().
		Model(&Record{ExternalID: externalID}).
		On("CONFLICT (fid) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// FurnaceLevel looks up the progression level for the identifier. found is
// false when either the record or its level is absent.
func (r *Repository) FurnaceLevel(ctx context.Context, externalID int64) (int, bool, error) {
	if externalID == 0 {
		return 0, false, types.ErrExternalIDRequired
	}
	rec := &Record{}
	err := r.db.NewSelect().
		Model(rec).
		Column("furnace_lv").
		Where("fid = ?", externalID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if rec.FurnaceLevel == nil {
		return 0, false, nil
	}
	return *rec.FurnaceLevel, true, nil
}
