package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-gameprofile/pkg/types"
)

// SetAvatarInput captures a request to store the profile avatar URL.
type SetAvatarInput struct {
	OwnerID int64
	URL     string
	Actor   types.ActorRef
	Result  *types.Profile
}

// Type implements gocommand.Message.
func (SetAvatarInput) Type() string {
	return "command.profile.set_avatar"
}

// Validate implements gocommand.Message.
func (input SetAvatarInput) Validate() error {
	if input.OwnerID == 0 {
		return types.ErrOwnerIDRequired
	}
	if input.Actor.ID == 0 {
		return types.ErrActorRequired
	}
	if strings.TrimSpace(input.URL) == "" {
		return ErrAvatarURLRequired
	}
	return nil
}

// SetAvatarCommand stores the avatar image URL on the profile. The URL is
// persisted as supplied; rendering and validation belong to the host.
type SetAvatarCommand struct {
	repo  types.ProfileRepository
	hooks types.Hooks
	clock types.Clock
}

// NewSetAvatarCommand constructs the avatar handler.
func NewSetAvatarCommand(cfg ProfileCommandConfig) *SetAvatarCommand {
	return &SetAvatarCommand{
		repo:  cfg.Repository,
		hooks: safeHooks(cfg.Hooks),
		clock: safeClock(cfg.Clock),
	}
}

var _ gocommand.Commander[SetAvatarInput] = (*SetAvatarCommand)(nil)

// Execute upserts the avatar URL, replacing any previous value.
func (c *SetAvatarCommand) Execute(ctx context.Context, input SetAvatarInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	url := strings.TrimSpace(input.URL)
	profile, err := c.repo.UpsertProfile(ctx, input.OwnerID, types.ProfilePatch{
		AvatarURL: &url,
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
