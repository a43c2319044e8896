package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/quiz"
	"github.com/abhisek/pathwise/internal/roadmap"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/tutor"
)

// env holds what every command needs: configuration, a logger and the
// store.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

type envOption func(*config.Config)

// withoutConsoleLog keeps log lines off the terminal, which the TUI owns.
func withoutConsoleLog(c *config.Config) {
	c.Log.Console = false
}

// openEnv loads configuration, builds the logger and opens the store.
func openEnv(cmd *cobra.Command, opts ...envOption) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, o := range opts {
		o(cfg)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbCfg, err := resolveDB(cmd, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(cmd.Context(), dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &env{cfg: cfg, logger: log, store: st}, nil
}

func (e *env) Close() {
	_ = e.store.Close()
	_ = e.logger.Sync()
}

// tutor wires the LLM provider, the generators and the capability
// service into a Tutor.
func (e *env) tutor(ctx context.Context) (*tutor.Tutor, error) {
	if err := e.cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.EventRepo(), e.logger)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	return tutor.New(tutor.Deps{
		Roadmaps: roadmap.NewService(provider, roadmap.DefaultConfig()),
		Quizzes:  quiz.New(provider, quiz.DefaultConfig()),
		Learners: capability.NewService(e.store.LearnerRepo(), e.store.EventRepo(), e.logger),
		Timeout:  e.cfg.LLM.Timeout,
		Logger:   e.logger,
	}), nil
}

// learners is the capability service alone, for commands that never
// generate anything.
func (e *env) learners() *capability.Service {
	return capability.NewService(e.store.LearnerRepo(), e.store.EventRepo(), e.logger)
}

// resolveDB picks the database in priority order: --db flag, configured
// DSN, then the default SQLite path.
func resolveDB(cmd *cobra.Command, cfg store.Config) (store.Config, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DSN = p
		if cfg.Driver == "" || cfg.Driver == store.DriverSQLite {
			return cfg, store.EnsureDir(p)
		}
		return cfg, nil
	}
	if cfg.DSN != "" {
		return cfg, nil
	}
	if cfg.Driver != "" && cfg.Driver != store.DriverSQLite {
		return cfg, fmt.Errorf("database.dsn is required for the %s driver", cfg.Driver)
	}
	p, err := store.DefaultDBPath()
	if err != nil {
		return cfg, err
	}
	cfg.Driver = store.DriverSQLite
	cfg.DSN = p
	return cfg, nil
}
