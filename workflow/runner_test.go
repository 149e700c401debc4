package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-gameprofile/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestRunner_MergeWithBackup(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfiles()
	global := newFakeGlobal()
	backup := &recordingBackup{ok: true}
	responder := &recordingResponder{}

	var event types.ReconciliationEvent
	runner := newTestRunner(t, RunnerConfig{
		Profiles:    profiles,
		GlobalUsers: global,
		Backup:      backup,
		Responder:   responder,
		Hooks: types.Hooks{
			AfterReconciliation: func(_ context.Context, e types.ReconciliationEvent) {
				event = e
			},
		},
	})

	session, err := runner.Start(ctx, 100, 555)
	require.NoError(t, err)
	require.Equal(t, StatePrompt, session.State)
	require.NotEmpty(t, session.ID)

	require.NoError(t, runner.Advance(ctx, session, ChoiceMergeData))
	require.Equal(t, StateBackupConfirm, session.State)

	require.NoError(t, runner.Advance(ctx, session, ChoiceBackupYes))
	require.Equal(t, StateTerminal, session.State)

	require.Equal(t, []int64{100}, backup.owners)
	require.Equal(t, []int64{555}, global.ensured)

	final := responder.last()
	require.Contains(t, final, msgBackupCreated)
	require.Contains(t, final, msgMerged)

	require.Equal(t, types.ReconciliationMerged, event.Outcome)
	require.True(t, event.BackedUp)
	require.Equal(t, int64(100), event.OwnerID)
	require.Equal(t, int64(555), event.ExternalID)
}

func TestRunner_ContinueAsNewSkipsDataOperations(t *testing.T) {
	ctx := context.Background()
	global := newFakeGlobal()
	backup := &recordingBackup{ok: true}
	responder := &recordingResponder{}
	runner := newTestRunner(t, RunnerConfig{
		Profiles:    newFakeProfiles(),
		GlobalUsers: global,
		Backup:      backup,
		Responder:   responder,
	})

	session, err := runner.Start(ctx, 101, 556)
	require.NoError(t, err)
	require.NoError(t, runner.Advance(ctx, session, ChoiceContinueAsNew))
	require.NoError(t, runner.Advance(ctx, session, ChoiceBackupNo))

	require.Empty(t, backup.owners, "no backup was requested")
	require.Empty(t, global.ensured, "continue-as-new performs no data operation")
	require.Contains(t, responder.last(), msgContinueNew)
}

func TestRunner_NeverShowAgainSetsFlagWithoutBackup(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfiles()
	backup := &recordingBackup{ok: true}
	responder := &recordingResponder{}

	var event types.ReconciliationEvent
	runner := newTestRunner(t, RunnerConfig{
		Profiles:    profiles,
		GlobalUsers: newFakeGlobal(),
		Backup:      backup,
		Responder:   responder,
		Hooks: types.Hooks{
			AfterReconciliation: func(_ context.Context, e types.ReconciliationEvent) {
				event = e
			},
		},
	})

	session, err := runner.Start(ctx, 102, 557)
	require.NoError(t, err)
	require.NoError(t, runner.Advance(ctx, session, ChoiceNeverShowAgain))

	require.True(t, profiles.skip[102])
	require.Empty(t, backup.owners)
	require.Equal(t, msgNeverAgain, responder.last())
	require.Equal(t, types.ReconciliationSuppress, event.Outcome)
	require.False(t, event.BackedUp)
}

func TestRunner_DismissHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfiles()
	backup := &recordingBackup{ok: true}
	global := newFakeGlobal()
	responder := &recordingResponder{}
	runner := newTestRunner(t, RunnerConfig{
		Profiles:    profiles,
		GlobalUsers: global,
		Backup:      backup,
		Responder:   responder,
	})

	session, err := runner.Start(ctx, 103, 558)
	require.NoError(t, err)
	require.NoError(t, runner.Advance(ctx, session, ChoiceKeepReminding))

	require.Equal(t, StateTerminal, session.State)
	require.False(t, profiles.skip[103], "dismiss must not change the skip flag")
	require.Empty(t, backup.owners)
	require.Empty(t, global.ensured)
	require.Equal(t, msgDismissed, responder.last())
}

func TestRunner_BackupUnavailableStillRunsDisposition(t *testing.T) {
	ctx := context.Background()
	global := newFakeGlobal()
	responder := &recordingResponder{}
	runner := newTestRunner(t, RunnerConfig{
		Profiles:    newFakeProfiles(),
		GlobalUsers: global,
		Backup:      nil,
		Responder:   responder,
	})

	session, err := runner.Start(ctx, 104, 559)
	require.NoError(t, err)
	require.NoError(t, runner.Advance(ctx, session, ChoiceMergeData))
	require.NoError(t, runner.Advance(ctx, session, ChoiceBackupYes))

	require.Equal(t, []int64{559}, global.ensured)
	final := responder.last()
	require.Contains(t, final, msgBackupUnavailable)
	require.Contains(t, final, msgMerged)
}

func TestRunner_BackupFailureIsReportedInline(t *testing.T) {
	ctx := context.Background()
	global := newFakeGlobal()
	responder := &recordingResponder{}
	runner := newTestRunner(t, RunnerConfig{
		Profiles:    newFakeProfiles(),
		GlobalUsers: global,
		Backup:      &recordingBackup{err: errors.New("disk full")},
		Responder:   responder,
	})

	session, err := runner.Start(ctx, 105, 560)
	require.NoError(t, err)
	require.NoError(t, runner.Advance(ctx, session, ChoiceMergeData))
	require.NoError(t, runner.Advance(ctx, session, ChoiceBackupYes))

	final := responder.last()
	require.Contains(t, final, msgBackupFailed)
	require.Contains(t, final, msgMerged, "backup failure must not abort the merge")
}

func TestRunner_MergeFailureDegrades(t *testing.T) {
	ctx := context.Background()
	global := newFakeGlobal()
	global.err = errors.New("users store unreachable")
	responder := &recordingResponder{}
	runner := newTestRunner(t, RunnerConfig{
		Profiles:    newFakeProfiles(),
		GlobalUsers: global,
		Backup:      &recordingBackup{ok: true},
		Responder:   responder,
	})

	session, err := runner.Start(ctx, 106, 561)
	require.NoError(t, err)
	require.NoError(t, runner.Advance(ctx, session, ChoiceMergeData))
	require.NoError(t, runner.Advance(ctx, session, ChoiceBackupYes))

	final := responder.last()
	require.Contains(t, final, msgBackupCreated)
	require.Contains(t, final, msgMergeFailed)
}

func TestRunner_TerminalSessionRejectsFurtherChoices(t *testing.T) {
	ctx := context.Background()
	runner := newTestRunner(t, RunnerConfig{
		Profiles:    newFakeProfiles(),
		GlobalUsers: newFakeGlobal(),
		Responder:   &recordingResponder{},
	})

	session, err := runner.Start(ctx, 107, 562)
	require.NoError(t, err)
	require.NoError(t, runner.Advance(ctx, session, ChoiceKeepReminding))
	require.ErrorIs(t, runner.Advance(ctx, session, ChoiceMergeData), ErrChoiceNotAllowed)
}

func newTestRunner(t *testing.T, cfg RunnerConfig) *Runner {
	t.Helper()
	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	return runner
}

type fakeProfiles struct {
	skip map[int64]bool
	err  error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{skip: make(map[int64]bool)}
}

func (f *fakeProfiles) GetProfile(_ context.Context, ownerID int64) (*types.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.Profile{OwnerID: ownerID, SkipMergePrompt: f.skip[ownerID]}, nil
}

func (f *fakeProfiles) UpsertProfile(_ context.Context, ownerID int64, patch types.ProfilePatch) (*types.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if patch.SkipMergePrompt != nil {
		f.skip[ownerID] = *patch.SkipMergePrompt
	}
	return &types.Profile{OwnerID: ownerID, SkipMergePrompt: f.skip[ownerID]}, nil
}

func (f *fakeProfiles) SkipFlag(_ context.Context, ownerID int64) (bool, error) {
	return f.skip[ownerID], f.err
}

func (f *fakeProfiles) SetSkipFlag(_ context.Context, ownerID int64) error {
	if f.err != nil {
		return f.err
	}
	f.skip[ownerID] = true
	return nil
}

type fakeGlobal struct {
	existing map[int64]bool
	ensured  []int64
	err      error
}

func newFakeGlobal() *fakeGlobal {
	return &fakeGlobal{existing: make(map[int64]bool)}
}

func (f *fakeGlobal) EnsureExists(_ context.Context, externalID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.ensured = append(f.ensured, externalID)
	if f.existing[externalID] {
		return false, nil
	}
	f.existing[externalID] = true
	return true, nil
}

func (f *fakeGlobal) FurnaceLevel(_ context.Context, _ int64) (int, bool, error) {
	return 0, false, f.err
}

type recordingBackup struct {
	ok     bool
	err    error
	owners []int64
}

func (b *recordingBackup) CreateBackup(_ context.Context, ownerID int64, _ string) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	b.owners = append(b.owners, ownerID)
	return b.ok, nil
}

type recordingResponder struct {
	messages []string
}

func (r *recordingResponder) Respond(_ context.Context, _ int64, message string) error {
	r.messages = append(r.messages, message)
	return nil
}

func (r *recordingResponder) last() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}
