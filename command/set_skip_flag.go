package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-gameprofile/pkg/types"
)

// SetSkipFlagInput captures a request to permanently suppress the
// reconciliation prompt for a member.
type SetSkipFlagInput struct {
	OwnerID int64
	Actor   types.ActorRef
}

// Type implements gocommand.Message.
func (SetSkipFlagInput) Type() string {
	return "command.profile.set_skip_flag"
}

// Validate implements gocommand.Message.
func (input SetSkipFlagInput) Validate() error {
	if input.OwnerID == 0 {
		return types.ErrOwnerIDRequired
	}
	if input.Actor.ID == 0 {
		return types.ErrActorRequired
	}
	return nil
}

// SetSkipFlagCommand marks the member's profile so future link operations
// never offer reconciliation. The flag is one-way and idempotent.
type SetSkipFlagCommand struct {
	repo  types.ProfileRepository
	hooks types.Hooks
	clock types.Clock
}

// NewSetSkipFlagCommand constructs the skip-flag handler.
func NewSetSkipFlagCommand(cfg ProfileCommandConfig) *SetSkipFlagCommand {
	return &SetSkipFlagCommand{
		repo:  cfg.Repository,
		hooks: safeHooks(cfg.Hooks),
		clock: safeClock(cfg.Clock),
	}
}

var _ gocommand.Commander[SetSkipFlagInput] = (*SetSkipFlagCommand)(nil)

// Execute sets the suppression flag, creating the profile row if needed.
func (c *SetSkipFlagCommand) Execute(ctx context.Context, input SetSkipFlagInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	if err := c.repo.SetSkipFlag(ctx, input.OwnerID); err != nil {
		return err
	}
	profile, err := c.repo.GetProfile(ctx, input.OwnerID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &types.Profile{OwnerID: input.OwnerID, SkipMergePrompt: true}
	}
	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		OwnerID:    input.OwnerID,
		ActorID:    input.Actor.ID,
		OccurredAt: now(c.clock),
		Profile:    *profile,
	})
	return nil
}
