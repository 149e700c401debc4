package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Profile captures the per-community game profile stored for a single member.
// A row exists once any field has been set for the owner; there is no explicit
// create step.
type Profile struct {
	OwnerID         int64
	ExternalID      *int64
	LocationX       *int
	LocationY       *int
	RecurringNote   string
	AvatarURL       string
	SkipMergePrompt bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasLocation reports whether both coordinates are present. Coordinates are
// nullable independently but only render together.
func (p Profile) HasLocation() bool {
	return p.LocationX != nil && p.LocationY != nil
}

// ProfilePatch represents a partial update; nil fields are left untouched on
// existing rows and default on newly created ones.
type ProfilePatch struct {
	ExternalID      *int64
	LocationX       *int
	LocationY       *int
	RecurringNote   *string
	AvatarURL       *string
	SkipMergePrompt *bool
}

// IsEmpty reports whether the patch carries no fields.
func (p ProfilePatch) IsEmpty() bool {
	return p.ExternalID == nil &&
		p.LocationX == nil &&
		p.LocationY == nil &&
		p.RecurringNote == nil &&
		p.AvatarURL == nil &&
		p.SkipMergePrompt == nil
}

// ProfileRepository persists and retrieves profile records. GetProfile returns
// (nil, nil) when no row exists so callers can tell absence from storage
// failure. UpsertProfile must resolve insert-vs-update atomically: concurrent
// first writes for the same owner land on a single row.
type ProfileRepository interface {
	GetProfile(ctx context.Context, ownerID int64) (*Profile, error)
	UpsertProfile(ctx context.Context, ownerID int64, patch ProfilePatch) (*Profile, error)
	SkipFlag(ctx context.Context, ownerID int64) (bool, error)
	SetSkipFlag(ctx context.Context, ownerID int64) error
}

// GlobalUser mirrors the row shape of the independently owned global user
// store. Only ExternalID and FurnaceLevel matter to this module; the remaining
// columns belong to whatever external system tracks progression.
type GlobalUser struct {
	ExternalID        int64
	Nickname          string
	FurnaceLevel      *int
	KingdomID         *int
	StoveLevelContent string
	Alliance          string
}

// GlobalUserRepository is the narrow contract over the external user store.
// EnsureExists inserts a bare record when absent and must never touch fields
// on an existing row; the created result drives the reconciliation prompt.
type GlobalUserRepository interface {
	EnsureExists(ctx context.Context, externalID int64) (created bool, err error)
	FurnaceLevel(ctx context.Context, externalID int64) (level int, found bool, err error)
}

// PermissionGate answers whether a caller may bypass the profile visibility
// restriction. Implementations fail closed: a broken admin store denies.
type PermissionGate interface {
	Allow(ctx context.Context, userID int64) bool
}

// AdminRepository exposes the raw admin allow-list lookup, including storage
// errors, so the gate can decide how to degrade.
type AdminRepository interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// BackupRunner is the external snapshot capability invoked by the
// reconciliation workflow. The ok result reports whether a snapshot was
// written; errors are reported inline by the workflow and never abort the
// chosen disposition.
type BackupRunner interface {
	CreateBackup(ctx context.Context, ownerID int64, destination string) (ok bool, err error)
}

// ActorRef identifies the community member issuing a command or query.
type ActorRef struct {
	ID   int64
	Type string
}

// ProfileEvent signals that a profile mutation occurred.
type ProfileEvent struct {
	OwnerID    int64
	ActorID    int64
	OccurredAt time.Time
	Profile    Profile
}

// ReconciliationOutcome enumerates terminal workflow results.
type ReconciliationOutcome string

const (
	ReconciliationMerged    ReconciliationOutcome = "merged"
	ReconciliationNew       ReconciliationOutcome = "new"
	ReconciliationSuppress  ReconciliationOutcome = "suppressed"
	ReconciliationDismissed ReconciliationOutcome = "dismissed"
)

// ReconciliationEvent is emitted when a reconciliation session reaches its
// terminal state.
type ReconciliationEvent struct {
	SessionID  uuid.UUID
	OwnerID    int64
	ExternalID int64
	Outcome    ReconciliationOutcome
	BackedUp   bool
	OccurredAt time.Time
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterProfileChange  func(context.Context, ProfileEvent)
	AfterReconciliation func(context.Context, ReconciliationEvent)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrActorRequired indicates an actor reference was not supplied.
	ErrActorRequired = errors.New("go-gameprofile: actor reference required")
	// ErrOwnerIDRequired indicates an owner identifier was omitted.
	ErrOwnerIDRequired = errors.New("go-gameprofile: owner id required")
	// ErrExternalIDRequired indicates a global identifier was omitted.
	ErrExternalIDRequired = errors.New("go-gameprofile: external id required")
	// ErrEmptyPatch indicates an upsert carried no fields.
	ErrEmptyPatch = errors.New("go-gameprofile: profile patch carries no fields")
	// ErrServiceNotReady indicates the service has not been properly configured.
	ErrServiceNotReady = errors.New("go-gameprofile: service not ready")
	// ErrMissingProfileRepository occurs when commands lack a profile storage backend.
	ErrMissingProfileRepository = errors.New("go-gameprofile: missing profile repository")
	// ErrMissingGlobalUserRepository occurs when the global user bridge was not supplied.
	ErrMissingGlobalUserRepository = errors.New("go-gameprofile: missing global user repository")
	// ErrMissingPermissionGate occurs when the view query lacks an admin gate.
	ErrMissingPermissionGate = errors.New("go-gameprofile: missing permission gate")
)
