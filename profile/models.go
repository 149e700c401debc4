package profile

import (
	"time"

	"github.com/goliatone/go-persistence-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func init() {
	persistence.RegisterModel((*Record)(nil))
}

// Record models the profiles row. owner_id is the community-scoped member
// identifier and carries a unique constraint; the surrogate uuid key keeps
// the repository tooling uniform with the rest of the stack.
type Record struct {
	bun.BaseModel `bun:"table:profiles"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID         int64     `bun:"owner_id,notnull,unique"`
	ExternalID      *int64    `bun:"external_id"`
	LocationX       *int      `bun:"location_x"`
	LocationY       *int      `bun:"location_y"`
	RecurringNote   string    `bun:"recurring_note"`
	AvatarURL       string    `bun:"avatar_url"`
	SkipMergePrompt bool      `bun:"skip_merge_prompt"`
	CreatedAt       time.Time `bun:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at"`
}
