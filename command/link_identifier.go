package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-gameprofile/pkg/types"
)

const (
	msgIdentifierSaved   = "Your game identifier has been saved."
	msgGlobalCreated     = "A new global record was registered for you."
	msgGlobalExisted     = "A global record with this identifier already exists."
	msgGlobalUnavailable = "The global roster is unavailable right now; your identifier was saved locally."
)

// ProfileCommandConfig wires dependencies for profile commands.
type ProfileCommandConfig struct {
	Repository  types.ProfileRepository
	GlobalUsers types.GlobalUserRepository
	FeatureGate featuregate.FeatureGate
	Hooks       types.Hooks
	Clock       types.Clock
	Logger      types.Logger
}

// LinkIdentifierInput captures a request to bind a global game identifier to
// the caller's profile.
type LinkIdentifierInput struct {
	OwnerID    int64
	ExternalID int64
	Actor      types.ActorRef
	Result     *LinkIdentifierResult
}

// LinkIdentifierResult reports the linking outcome back to the caller.
type LinkIdentifierResult struct {
	Profile             types.Profile
	GlobalCreated       bool
	OfferReconciliation bool
	StatusMessage       string
}

// Type implements gocommand.Message.
func (LinkIdentifierInput) Type() string {
	return "command.profile.link_identifier"
}

// Validate implements gocommand.Message.
func (input LinkIdentifierInput) Validate() error {
	if input.OwnerID == 0 {
		return types.ErrOwnerIDRequired
	}
	if input.ExternalID == 0 {
		return types.ErrExternalIDRequired
	}
	if input.Actor.ID == 0 {
		return types.ErrActorRequired
	}
	return nil
}

// LinkIdentifierCommand saves the identifier on the caller's profile, ensures
// a matching record exists in the global user store, and decides whether a
// reconciliation prompt should follow.
type LinkIdentifierCommand struct {
	repo   types.ProfileRepository
	global types.GlobalUserRepository
	gate   featuregate.FeatureGate
	hooks  types.Hooks
	clock  types.Clock
	logger types.Logger
}

// NewLinkIdentifierCommand constructs the link handler.
func NewLinkIdentifierCommand(cfg ProfileCommandConfig) *LinkIdentifierCommand {
	return &LinkIdentifierCommand{
		repo:   cfg.Repository,
		global: cfg.GlobalUsers,
		gate:   cfg.FeatureGate,
		hooks:  safeHooks(cfg.Hooks),
		clock:  safeClock(cfg.Clock),
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[LinkIdentifierInput] = (*LinkIdentifierCommand)(nil)

// Execute persists the identifier, then consults the global store. Bridge
// failures degrade to a local save with no prompt; profile storage failures
// abort the command.
func (c *LinkIdentifierCommand) Execute(ctx context.Context, input LinkIdentifierInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileRepository
	}
	if c.global == nil {
		return types.ErrMissingGlobalUserRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}

	externalID := input.ExternalID
	profile, err := c.repo.UpsertProfile(ctx, input.OwnerID, types.ProfilePatch{
		ExternalID: &externalID,
	})
	if err != nil {
		return err
	}

	result := LinkIdentifierResult{
		Profile:       *profile,
		StatusMessage: msgIdentifierSaved,
	}

	created, bridgeErr := c.global.EnsureExists(ctx, externalID)
	switch {
	case bridgeErr != nil:
		c.logger.Error("link identifier: global roster unreachable", bridgeErr,
			"owner_id", input.OwnerID, "external_id", externalID)
		result.StatusMessage += " " + msgGlobalUnavailable
	case created:
		result.GlobalCreated = true
		result.StatusMessage += " " + msgGlobalCreated
	default:
		result.StatusMessage += " " + msgGlobalExisted
		offer, ferr := c.shouldOfferReconciliation(ctx, *profile)
		if ferr != nil {
			return ferr
		}
		result.OfferReconciliation = offer
	}

	if input.Result != nil {
		*input.Result = result
	}
	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		OwnerID:    input.OwnerID,
		ActorID:    input.Actor.ID,
		OccurredAt: now(c.clock),
		Profile:    *profile,
	})
	return nil
}

// shouldOfferReconciliation applies the sticky opt-out before the feature
// gate so suppressed members never hit gate evaluation.
func (c *LinkIdentifierCommand) shouldOfferReconciliation(ctx context.Context, profile types.Profile) (bool, error) {
	if profile.SkipMergePrompt {
		return false, nil
	}
	enabled, err := featureEnabled(ctx, c.gate, featureReconcilePrompt, profile.OwnerID)
	if err != nil {
		return false, err
	}
	return enabled, nil
}
