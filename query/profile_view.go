package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-gameprofile/levels"
	"github.com/goliatone/go-gameprofile/pkg/types"
)

// UnknownLevelLabel is rendered when no furnace level can be resolved for a
// member, either because the global record is missing or the bridge failed.
const UnknownLevelLabel = "Unknown"

// ProfileViewInput identifies the profile being viewed and who is asking.
// Viewing another member's profile requires the permission gate to allow the
// actor.
type ProfileViewInput struct {
	TargetID int64
	// TargetName is the host-resolved display name, echoed into the view.
	TargetName string
	Actor      types.ActorRef
}

// ProfileView is the presentation-ready projection of a profile. Optional
// fields stay zero-valued when unset so renderers can elide them.
type ProfileView struct {
	OwnerID       int64
	DisplayName   string
	ExternalID    *int64
	FurnaceLabel  string
	LocationX     *int
	LocationY     *int
	RecurringNote string
	AvatarURL     string
}

// HasLocation reports whether both coordinates are available for rendering.
func (v ProfileView) HasLocation() bool {
	return v.LocationX != nil && v.LocationY != nil
}

// ProfileViewQuery assembles the profile view. Missing rows and bridge
// failures degrade to a view with unknown progression rather than an error.
type ProfileViewQuery struct {
	repo   types.ProfileRepository
	global types.GlobalUserRepository
	gate   types.PermissionGate
	logger types.Logger
}

// NewProfileViewQuery constructs the view query.
func NewProfileViewQuery(repo types.ProfileRepository, global types.GlobalUserRepository, gate types.PermissionGate, logger types.Logger) *ProfileViewQuery {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &ProfileViewQuery{
		repo:   repo,
		global: global,
		gate:   gate,
		logger: logger,
	}
}

var _ gocommand.Querier[ProfileViewInput, *ProfileView] = (*ProfileViewQuery)(nil)

// Query returns the view for the target member. Members may always view their
// own profile; viewing someone else requires gate approval.
func (q *ProfileViewQuery) Query(ctx context.Context, input ProfileViewInput) (*ProfileView, error) {
	if q.repo == nil {
		return nil, types.ErrMissingProfileRepository
	}
	if input.TargetID == 0 {
		return nil, types.ErrOwnerIDRequired
	}
	if input.Actor.ID == 0 {
		return nil, types.ErrActorRequired
	}
	if input.TargetID != input.Actor.ID {
		if q.gate == nil {
			return nil, types.ErrMissingPermissionGate
		}
		if !q.gate.Allow(ctx, input.Actor.ID) {
			return nil, goerrors.New("go-gameprofile: viewing another member's profile requires admin access", goerrors.CategoryAuthz).
				WithCode(goerrors.CodeForbidden)
		}
	}

	view := &ProfileView{
		OwnerID:      input.TargetID,
		DisplayName:  input.TargetName,
		FurnaceLabel: UnknownLevelLabel,
	}

	profile, err := q.repo.GetProfile(ctx, input.TargetID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return view, nil
	}

	view.ExternalID = profile.ExternalID
	view.RecurringNote = profile.RecurringNote
	view.AvatarURL = profile.AvatarURL
	if profile.HasLocation() {
		view.LocationX = profile.LocationX
		view.LocationY = profile.LocationY
	}
	view.FurnaceLabel = q.furnaceLabel(ctx, profile)
	return view, nil
}

func (q *ProfileViewQuery) furnaceLabel(ctx context.Context, profile *types.Profile) string {
	if profile.ExternalID == nil || q.global == nil {
		return UnknownLevelLabel
	}
	level, found, err := q.global.FurnaceLevel(ctx, *profile.ExternalID)
	if err != nil {
		q.logger.Error("profile view: furnace level lookup failed", err,
			"owner_id", profile.OwnerID, "external_id", *profile.ExternalID)
		return UnknownLevelLabel
	}
	if !found {
		return UnknownLevelLabel
	}
	return levels.Translate(level)
}
