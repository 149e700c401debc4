package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-gameprofile/pkg/types"
)

const (
	msgPrompt = "This identifier already has data in the global roster. " +
		"Choose Merge Data to bring it over, Continue as New to start fresh, " +
		"or Never show again to stop these reminders. Dismiss to decide later."
	msgBackupPrompt = "Create a backup before continuing? Choose Yes, backup or No, continue."
	msgNeverAgain   = "Understood. This reminder will not be shown again."
	msgDismissed    = "No changes made. You will be reminded the next time you link an identifier."

	msgBackupCreated     = "Backup created."
	msgBackupFailed      = "Backup failed; continuing without a snapshot."
	msgBackupUnavailable = "Backup unavailable; continuing without a snapshot."

	msgMerged      = "Merged your existing data into the global record."
	msgMergeFailed = "Merge failed; no data was changed."
	msgContinueNew = "Continuing as new without merging historical data."
)

// Responder delivers workflow messages back to the owner through whatever
// interaction surface the host runs.
type Responder interface {
	Respond(ctx context.Context, ownerID int64, message string) error
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, ownerID int64, message string) error

// Respond implements Responder.
func (f ResponderFunc) Respond(ctx context.Context, ownerID int64, message string) error {
	return f(ctx, ownerID, message)
}

// RunnerConfig wires the effect executors for reconciliation sessions.
type RunnerConfig struct {
	Profiles    types.ProfileRepository
	GlobalUsers types.GlobalUserRepository
	Backup      types.BackupRunner
	Responder   Responder
	Hooks       types.Hooks
	Clock       types.Clock
	IDGen       types.IDGenerator
	Logger      types.Logger
	// BackupDestination is passed through to the snapshot capability.
	BackupDestination string
}

// Runner drives sessions through the machine and executes requested effects.
// The runner itself is stateless; hosts hold the Session value between the
// owner's choice events.
type Runner struct {
	profiles    types.ProfileRepository
	globalUsers types.GlobalUserRepository
	backup      types.BackupRunner
	responder   Responder
	hooks       types.Hooks
	clock       types.Clock
	idGen       types.IDGenerator
	logger      types.Logger
	destination string
}

// NewRunner constructs the workflow runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Profiles == nil {
		return nil, types.ErrMissingProfileRepository
	}
	if cfg.GlobalUsers == nil {
		return nil, types.ErrMissingGlobalUserRepository
	}
	if cfg.Responder == nil {
		return nil, errors.New("go-gameprofile: workflow responder required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	destination := cfg.BackupDestination
	if destination == "" {
		destination = "backups"
	}
	return &Runner{
		profiles:    cfg.Profiles,
		globalUsers: cfg.GlobalUsers,
		backup:      cfg.Backup,
		responder:   cfg.Responder,
		hooks:       cfg.Hooks,
		clock:       clock,
		idGen:       idGen,
		logger:      logger,
		destination: destination,
	}, nil
}

// Start opens a session at the prompt state and delivers the prompt. The
// returned session is the host's handle for subsequent Advance calls.
func (r *Runner) Start(ctx context.Context, ownerID, externalID int64) (*Session, error) {
	if ownerID == 0 {
		return nil, types.ErrOwnerIDRequired
	}
	if externalID == 0 {
		return nil, types.ErrExternalIDRequired
	}
	session := &Session{
		ID:         r.idGen.UUID(),
		OwnerID:    ownerID,
		ExternalID: externalID,
		State:      StatePrompt,
	}
	if err := r.responder.Respond(ctx, ownerID, msgPrompt); err != nil {
		return nil, err
	}
	return session, nil
}

// Advance feeds one choice into the session and executes the resulting
// effects in order. Profile-store failures propagate; backup and global-store
// failures are reported inline and never abort the chosen disposition.
func (r *Runner) Advance(ctx context.Context, session *Session, choice Choice) error {
	if session == nil {
		return ErrChoiceNotAllowed
	}
	next, effects, err := Transition(*session, choice)
	if err != nil {
		return err
	}

	var (
		parts    []string
		backedUp bool
		outcome  types.ReconciliationOutcome
	)
	for _, effect := range effects {
		switch effect.Kind {
		case EffectPromptBackup:
			if err := r.responder.Respond(ctx, session.OwnerID, msgBackupPrompt); err != nil {
				return err
			}
		case EffectSetSkipFlag:
			if err := r.profiles.SetSkipFlag(ctx, session.OwnerID); err != nil {
				return err
			}
			outcome = types.ReconciliationSuppress
		case EffectRunBackup:
			parts = append(parts, r.runBackup(ctx, session.OwnerID, &backedUp))
		case EffectMergeGlobal:
			parts = append(parts, r.mergeGlobal(ctx, session.ExternalID))
		case EffectReply:
			if err := r.responder.Respond(ctx, session.OwnerID, effect.Message); err != nil {
				return err
			}
		case EffectReportOutcome:
			if next.Disposition == DispositionNew {
				parts = append(parts, msgContinueNew)
			}
			if err := r.responder.Respond(ctx, session.OwnerID, strings.Join(parts, " ")); err != nil {
				return err
			}
		}
	}

	*session = next
	if next.State != StateTerminal {
		return nil
	}
	if outcome == "" {
		outcome = terminalOutcome(next, choice)
	}
	r.emitReconciliation(ctx, *session, outcome, backedUp)
	return nil
}

func (r *Runner) runBackup(ctx context.Context, ownerID int64, backedUp *bool) string {
	if r.backup == nil {
		return msgBackupUnavailable
	}
	ok, err := r.backup.CreateBackup(ctx, ownerID, r.destination)
	if err != nil {
		r.logger.Error("backup capability failed", err, "owner_id", ownerID)
		return msgBackupFailed
	}
	if !ok {
		return msgBackupFailed
	}
	*backedUp = true
	return msgBackupCreated
}

func (r *Runner) mergeGlobal(ctx context.Context, externalID int64) string {
	if _, err := r.globalUsers.EnsureExists(ctx, externalID); err != nil {
		r.logger.Error("global store merge failed", err, "external_id", externalID)
		return msgMergeFailed
	}
	return msgMerged
}

func terminalOutcome(session Session, choice Choice) types.ReconciliationOutcome {
	if choice == ChoiceKeepReminding {
		return types.ReconciliationDismissed
	}
	if session.Disposition == DispositionMerge {
		return types.ReconciliationMerged
	}
	return types.ReconciliationNew
}

func (r *Runner) emitReconciliation(ctx context.Context, session Session, outcome types.ReconciliationOutcome, backedUp bool) {
	if r.hooks.AfterReconciliation == nil {
		return
	}
	r.hooks.AfterReconciliation(ctx, types.ReconciliationEvent{
		SessionID:  session.ID,
		OwnerID:    session.OwnerID,
		ExternalID: session.ExternalID,
		Outcome:    outcome,
		BackedUp:   backedUp,
		OccurredAt: r.clock.Now(),
	})
}
