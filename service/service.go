package service

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-gameprofile/command"
	"github.com/goliatone/go-gameprofile/pkg/types"
	"github.com/goliatone/go-gameprofile/query"
	"github.com/goliatone/go-gameprofile/workflow"
)

// Service is the entry point for go-gameprofile. It wires repositories, the
// global user bridge, hooks, and command/query facades supplied by the host
// application.
type Service struct {
	cfg      Config
	commands Commands
	queries  Queries
	gate     types.PermissionGate
	runner   *workflow.Runner
}

// Commands exposes the service command handlers.
type Commands struct {
	LinkIdentifier *command.LinkIdentifierCommand
	SetLocation    *command.SetLocationCommand
	SetNote        *command.SetNoteCommand
	SetAvatar      *command.SetAvatarCommand
	SetSkipFlag    *command.SetSkipFlagCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ProfileView *query.ProfileViewQuery
	SkipFlag    *query.SkipFlagQuery
}

// Config captures all required dependencies so callers can provide their own
// instances (bun.DB backed repositories, cached decorators, hooks, etc.).
type Config struct {
	ProfileRepository types.ProfileRepository
	GlobalUsers       types.GlobalUserRepository
	AdminGate         types.PermissionGate
	Backup            types.BackupRunner
	Responder         workflow.Responder
	FeatureGate       featuregate.FeatureGate
	Hooks             types.Hooks
	Clock             types.Clock
	IDGenerator       types.IDGenerator
	Logger            types.Logger
	BackupDestination string
}

// New constructs a Service from the supplied configuration. The
// reconciliation runner is wired only when a responder is available; hosts
// that never prompt can leave it unset.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)

	s := &Service{
		cfg:  norm,
		gate: norm.AdminGate,
	}
	if norm.Responder != nil {
		runner, err := workflow.NewRunner(workflow.RunnerConfig{
			Profiles:          norm.ProfileRepository,
			GlobalUsers:       norm.GlobalUsers,
			Backup:            norm.Backup,
			Responder:         norm.Responder,
			Hooks:             norm.Hooks,
			Clock:             norm.Clock,
			IDGen:             norm.IDGenerator,
			Logger:            norm.Logger,
			BackupDestination: norm.BackupDestination,
		})
		if err != nil {
			norm.Logger.Error("go-gameprofile: reconciliation runner initialization failed", err)
		} else {
			s.runner = runner
		}
	}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Reconciliation returns the workflow runner, or nil when no responder was
// configured.
func (s *Service) Reconciliation() *workflow.Runner {
	if s == nil {
		return nil
	}
	return s.runner
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.ProfileRepository != nil &&
		s.cfg.GlobalUsers != nil
}

// HealthCheck surfaces missing configuration so upstream transports can fail
// fast before exposing the command surface.
func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	if s.cfg.ProfileRepository == nil {
		return types.ErrMissingProfileRepository
	}
	if s.cfg.GlobalUsers == nil {
		return types.ErrMissingGlobalUserRepository
	}
	return nil
}

func (s *Service) buildCommands() Commands {
	profileCfg := command.ProfileCommandConfig{
		Repository:  s.cfg.ProfileRepository,
		GlobalUsers: s.cfg.GlobalUsers,
		FeatureGate: s.cfg.FeatureGate,
		Hooks:       s.cfg.Hooks,
		Clock:       s.cfg.Clock,
		Logger:      s.cfg.Logger,
	}
	return Commands{
		LinkIdentifier: command.NewLinkIdentifierCommand(profileCfg),
		SetLocation:    command.NewSetLocationCommand(profileCfg),
		SetNote:        command.NewSetNoteCommand(profileCfg),
		SetAvatar:      command.NewSetAvatarCommand(profileCfg),
		SetSkipFlag:    command.NewSetSkipFlagCommand(profileCfg),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		ProfileView: query.NewProfileViewQuery(s.cfg.ProfileRepository, s.cfg.GlobalUsers, s.gate, s.cfg.Logger),
		SkipFlag:    query.NewSkipFlagQuery(s.cfg.ProfileRepository),
	}
}
