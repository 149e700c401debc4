package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-gameprofile/pkg/types"
)

// SkipFlagInput identifies the member whose suppression flag is read.
type SkipFlagInput struct {
	OwnerID int64
}

// SkipFlagQuery reads the sticky reconciliation opt-out. Members without a
// profile row have never opted out.
type SkipFlagQuery struct {
	repo types.ProfileRepository
}

// NewSkipFlagQuery constructs the skip-flag query.
func NewSkipFlagQuery(repo types.ProfileRepository) *SkipFlagQuery {
	return &SkipFlagQuery{repo: repo}
}

var _ gocommand.Querier[SkipFlagInput, bool] = (*SkipFlagQuery)(nil)

// Query returns the suppression flag for the supplied member.
func (q *SkipFlagQuery) Query(ctx context.Context, input SkipFlagInput) (bool, error) {
	if q.repo == nil {
		return false, types.ErrMissingProfileRepository
	}
	if input.OwnerID == 0 {
		return false, types.ErrOwnerIDRequired
	}
	return q.repo.SkipFlag(ctx, input.OwnerID)
}
