package migrations

import (
	"io/fs"

	gameprofile "github.com/goliatone/go-gameprofile"
)

func init() {
	coreFS, err := fs.Sub(gameprofile.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
