package globaluser

import "github.com/uptrace/bun"

// Record models the externally owned users row. This module only ever writes
// the fid column (bare insert-if-absent); every other column belongs to the
// progression tracker that owns the store.
type Record struct {
	bun.BaseModel `bun:"table:users"`

	ExternalID        int64  `bun:"fid,pk"`
	Nickname          string `bun:"nickname"`
	FurnaceLevel      *int   `bun:"furnace_lv"`
	KingdomID         *int   `bun:"kid"`
	StoveLevelContent string `bun:"stove_lv_content"`
	Alliance          string `bun:"alliance"`
}
