package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-gameprofile/pkg/types"
)

// SetNoteInput captures a request to store the recurring event note.
type SetNoteInput struct {
	OwnerID int64
	Note    string
	Actor   types.ActorRef
	Result  *types.Profile
}

// Type implements gocommand.Message.
func (SetNoteInput) Type() string {
	return "command.profile.set_note"
}

// Validate implements gocommand.Message.
func (input SetNoteInput) Validate() error {
	if input.OwnerID == 0 {
		return types.ErrOwnerIDRequired
	}
	if input.Actor.ID == 0 {
		return types.ErrActorRequired
	}
	if strings.TrimSpace(input.Note) == "" {
		return ErrNoteRequired
	}
	return nil
}

// SetNoteCommand stores free-form recurring event text on the profile.
type SetNoteCommand struct {
	repo  types.ProfileRepository
	hooks types.Hooks
	clock types.Clock
}

// NewSetNoteCommand constructs the note handler.
func NewSetNoteCommand(cfg ProfileCommandConfig) *SetNoteCommand {
	return &SetNoteCommand{
		repo:  cfg.Repository,
		hooks: safeHooks(cfg.Hooks),
		clock: safeClock(cfg.Clock),
	}
}

var _ gocommand.Commander[SetNoteInput] = (*SetNoteCommand)(nil)

// Execute upserts the note, replacing any previous value.
func (c *SetNoteCommand) Execute(ctx context.Context, input SetNoteInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	note := strings.TrimSpace(input.Note)
	profile, err := c.repo.UpsertProfile(ctx, input.OwnerID, types.ProfilePatch{
		RecurringNote: &note,
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
