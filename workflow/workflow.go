// Package workflow implements the first-link reconciliation state machine.
// The machine itself is a pure value: Transition maps (session, choice) to
// (session, effects) and the Runner executes effects against the stores, the
// backup capability, and the responder. Sessions live only for the duration
// of one interaction; nothing here is persisted or resumable.
package workflow

import (
	"errors"

	"github.com/google/uuid"
)

// State identifies where a reconciliation session currently sits.
type State int

const (
	// StatePrompt presents the disposition choices.
	StatePrompt State = iota
	// StateBackupConfirm presents the backup yes/no choices, carrying the
	// disposition chosen at the prompt.
	StateBackupConfirm
	// StateTerminal means the session is finished and must be discarded.
	StateTerminal
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StatePrompt:
		return "prompt"
	case StateBackupConfirm:
		return "backup_confirm"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Choice is a discrete user decision event fed into the machine.
type Choice int

const (
	// ChoiceMergeData asks for historical data to be merged into the global store.
	ChoiceMergeData Choice = iota
	// ChoiceContinueAsNew abandons historical data.
	ChoiceContinueAsNew
	// ChoiceNeverShowAgain sets the sticky opt-out and ends the session.
	ChoiceNeverShowAgain
	// ChoiceKeepReminding dismisses the prompt with no side effects.
	ChoiceKeepReminding
	// ChoiceBackupYes requests a snapshot before the disposition runs.
	ChoiceBackupYes
	// ChoiceBackupNo skips the snapshot.
	ChoiceBackupNo
)

// Disposition is the data decision carried from the prompt into the backup
// confirmation step.
type Disposition int

const (
	DispositionNone Disposition = iota
	DispositionMerge
	DispositionNew
)

// Session is the full context payload of one reconciliation instance.
type Session struct {
	ID          uuid.UUID
	OwnerID     int64
	ExternalID  int64
	State       State
	Disposition Disposition
}

// EffectKind enumerates the side effects a transition can request.
type EffectKind int

const (
	// EffectPromptBackup asks the responder to present the backup choices.
	EffectPromptBackup EffectKind = iota
	// EffectSetSkipFlag persists the sticky opt-out for the owner.
	EffectSetSkipFlag
	// EffectRunBackup invokes the external snapshot capability.
	EffectRunBackup
	// EffectMergeGlobal runs ensure-exists against the global store.
	EffectMergeGlobal
	// EffectReply delivers a fixed message.
	EffectReply
	// EffectReportOutcome composes and delivers the final status covering
	// everything executed before it.
	EffectReportOutcome
)

// Effect is a side effect requested by a transition; Message is set for
// EffectReply only.
type Effect struct {
	Kind    EffectKind
	Message string
}

// ErrChoiceNotAllowed indicates the supplied choice is not valid in the
// session's current state.
var ErrChoiceNotAllowed = errors.New("go-gameprofile: choice not allowed in current workflow state")

// Transition advances the machine. It is pure: no I/O, no mutation of the
// input session.
func Transition(session Session, choice Choice) (Session, []Effect, error) {
	switch session.State {
	case StatePrompt:
		return promptTransition(session, choice)
	case StateBackupConfirm:
		return backupTransition(session, choice)
	default:
		return session, nil, ErrChoiceNotAllowed
	}
}

func promptTransition(session Session, choice Choice) (Session, []Effect, error) {
	switch choice {
	case ChoiceMergeData:
		session.State = StateBackupConfirm
		session.Disposition = DispositionMerge
		return session, []Effect{{Kind: EffectPromptBackup}}, nil
	case ChoiceContinueAsNew:
		session.State = StateBackupConfirm
		session.Disposition = DispositionNew
		return session, []Effect{{Kind: EffectPromptBackup}}, nil
	case ChoiceNeverShowAgain:
		session.State = StateTerminal
		return session, []Effect{
			{Kind: EffectSetSkipFlag},
			{Kind: EffectReply, Message: msgNeverAgain},
		}, nil
	case ChoiceKeepReminding:
		session.State = StateTerminal
		return session, []Effect{
			{Kind: EffectReply, Message: msgDismissed},
		}, nil
	default:
		return session, nil, ErrChoiceNotAllowed
	}
}

func backupTransition(session Session, choice Choice) (Session, []Effect, error) {
	var effects []Effect
	switch choice {
	case ChoiceBackupYes:
		effects = append(effects, Effect{Kind: EffectRunBackup})
	case ChoiceBackupNo:
		// snapshot skipped
	default:
		return session, nil, ErrChoiceNotAllowed
	}
	if session.Disposition == DispositionMerge {
		effects = append(effects, Effect{Kind: EffectMergeGlobal})
	}
	effects = append(effects, Effect{Kind: EffectReportOutcome})
	session.State = StateTerminal
	return session, effects, nil
}
