package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-gameprofile/pkg/types"
)

// SetLocationInput captures a request to record both map coordinates.
type SetLocationInput struct {
	OwnerID int64
	X       int
	Y       int
	Actor   types.ActorRef
	Result  *types.Profile
}

// Type implements gocommand.Message.
func (SetLocationInput) Type() string {
	return "command.profile.set_location"
}

// Validate implements gocommand.Message.
func (input SetLocationInput) Validate() error {
	if input.OwnerID == 0 {
		return types.ErrOwnerIDRequired
	}
	if input.Actor.ID == 0 {
		return types.ErrActorRequired
	}
	return nil
}

// SetLocationCommand stores the caller's in-game coordinates. Both axes are
// written together so a profile never renders a half location.
type SetLocationCommand struct {
	repo  types.ProfileRepository
	hooks types.Hooks
	clock types.Clock
}

// NewSetLocationCommand constructs the location handler.
func NewSetLocationCommand(cfg ProfileCommandConfig) *SetLocationCommand {
	return &SetLocationCommand{
		repo:  cfg.Repository,
		hooks: safeHooks(cfg.Hooks),
		clock: safeClock(cfg.Clock),
	}
}

var _ gocommand.Commander[SetLocationInput] = (*SetLocationCommand)(nil)

// Execute upserts both coordinates on the caller's profile.
func (c *SetLocationCommand) Execute(ctx context.Context, input SetLocationInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	x, y := input.X, input.Y
	profile, err := c.repo.UpsertProfile(ctx, input.OwnerID, types.ProfilePatch{
		LocationX: &x,
		LocationY: &y,
	})
	if err != nil {
		return err
	}
	if input.Result != nil {
		*input.Result = *profile
	}
	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		OwnerID:    input.OwnerID,
		ActorID:    input.Actor.ID,
		OccurredAt: now(c.clock),
		Profile:    *profile,
	})
	return nil
}
