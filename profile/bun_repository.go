package profile

import (
	"context"
	"errors"

	"github.com/goliatone/go-gameprofile/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed profile repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type profileStore interface {
	repository.Repository[*Record]
}

// Repository implements types.ProfileRepository using Bun. Writes go through
// a single conflict-resolving insert so concurrent first writes for the same
// owner collapse into one row instead of racing a check-then-act pair.
type Repository struct {
	profileStore
	db     *bun.DB
	clock  types.Clock
	idGen  types.IDGenerator
	cached bool
}

// NewRepository constructs the default profile repository.
func NewRepository(cfg RepositoryConfig, options ...RepositoryOption) (*Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("profile: db required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Record]{
			NewRecord: func() *Record { return &Record{} },
			GetID: func(rec *Record) uuid.UUID {
				if rec == nil {
					return uuid.Nil
				}
				return rec.ID
			},
			SetID: func(rec *Record, id uuid.UUID) {
				if rec != nil {
					rec.ID = id
				}
			},
		})
	}

	repo, cached, err := maybeWrapCache(repo, applyRepositoryOptions(options))
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &Repository{
		profileStore: repo,
		db:           cfg.DB,
		clock:        clock,
		idGen:        idGen,
		cached:       cached,
	}, nil
}

var (
	_ repository.Repository[*Record] = (*Repository)(nil)
	_ types.ProfileRepository        = (*Repository)(nil)
)

// GetProfile returns the profile for the supplied owner, or (nil, nil) when
// no row has ever been written for them.
func (r *Repository) GetProfile(ctx context.Context, ownerID int64) (*types.Profile, error) {
	if ownerID == 0 {
		return nil, types.ErrOwnerIDRequired
	}
	rec, err := r.Get(ctx, selectOwner(ownerID))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(rec), nil
}

// UpsertProfile applies only the supplied patch fields, creating the row when
// the owner has never been seen. Insert-vs-update resolves atomically at the
// storage layer via ON CONFLICT, so the existence check and the write are one
// logical operation.
func (r *Repository) UpsertProfile(ctx context.Context, ownerID int64, patch types.ProfilePatch) (*types.Profile, error) {
	if ownerID == 0 {
		return nil, types.ErrOwnerIDRequired
	}
	if patch.IsEmpty() {
		return nil, types.ErrEmptyPatch
	}

	now := r.clock.Now()
	rec := &Record{
		ID:        r.idGen.UUID(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	columns := applyPatch(rec, patch)

	q := r.db.NewInsert().Model(rec).On("CONFLICT (owner_id) DO UPDATE")
	for _, col := range columns {
		q = q.Set(col + " = EXCLUDED." + col)
	}
	q = q.Set("updated_at = EXCLUDED.updated_at")
	if _, err := q.Exec(ctx); err != nil {
		return nil, err
	}

	merged := &Record{}
	if err := r.db.NewSelect().Model(merged).Where("owner_id = ?", ownerID).Scan(ctx); err != nil {
		return nil, err
	}
	if r.cached {
		// Re-write the merged row through the decorator so cached reads for
		// this owner are invalidated.
		if _, err := r.Update(ctx, merged); err != nil {
			return nil, err
		}
	}
	return toDomain(merged), nil
}

// SkipFlag reports the sticky reconciliation opt-out for the owner. Owners
// without a profile row have never opted out.
func (r *Repository) SkipFlag(ctx context.Context, ownerID int64) (bool, error) {
	prof, err := r.GetProfile(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if prof == nil {
		return false, nil
	}
	return prof.SkipMergePrompt, nil
}

// SetSkipFlag marks the owner as permanently opted out of the reconciliation
// prompt. Idempotent.
func (r *Repository) SetSkipFlag(ctx context.Context, ownerID int64) error {
	skip := true
	_, err := r.UpsertProfile(ctx, ownerID, types.ProfilePatch{SkipMergePrompt: &skip})
	return err
}

func applyPatch(rec *Record, patch types.ProfilePatch) []string {
	columns := make([]string, 0, 6)
	if patch.ExternalID != nil {
		rec.ExternalID = patch.ExternalID
		columns = append(columns, "external_id")
	}
	if patch.LocationX != nil {
		rec.LocationX = patch.LocationX
		columns = append(columns, "location_x")
	}
	if patch.LocationY != nil {
		rec.LocationY = patch.LocationY
		columns = append(columns, "location_y")
	}
	if patch.RecurringNote != nil {
		rec.RecurringNote = *patch.RecurringNote
		columns = append(columns, "recurring_note")
	}
	if patch.AvatarURL != nil {
		rec.AvatarURL = *patch.AvatarURL
		columns = append(columns, "avatar_url")
	}
	if patch.SkipMergePrompt != nil {
		rec.SkipMergePrompt = *patch.SkipMergePrompt
		columns = append(columns, "skip_merge_prompt")
	}
	return columns
}

func selectOwner(ownerID int64) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("owner_id = ?", ownerID)
	}
}

func toDomain(rec *Record) *types.Profile {
	if rec == nil {
		return nil
	}
	return &types.Profile{
		OwnerID:         rec.OwnerID,
		ExternalID:      cloneInt64(rec.ExternalID),
		LocationX:       cloneInt(rec.LocationX),
		LocationY:       cloneInt(rec.LocationY),
		RecurringNote:   rec.RecurringNote,
		AvatarURL:       rec.AvatarURL,
		SkipMergePrompt: rec.SkipMergePrompt,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
