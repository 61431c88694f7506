package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/airi-scans/steward/internal/config"
	"github.com/airi-scans/steward/internal/dispatch"
	"github.com/airi-scans/steward/internal/domain/directory"
	"github.com/airi-scans/steward/internal/engine"
	"github.com/airi-scans/steward/internal/sqlite"
)

func main() {
	root := &cobra.Command{
		Use:          "steward",
		Short:        "Community project lifecycle tracker",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newSweepCmd(), newMigrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openDatabase(cfg config.Config) (*sqlite.DB, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// app bundles everything a command needs after wiring.
type app struct {
	db         *sqlite.DB
	engine     *engine.Engine
	dispatcher *dispatch.Dispatcher
	projects   *sqlite.ProjectRepository
	audit      *sqlite.AuditRepository
	logger     *slog.Logger
}

func buildApp(cfg config.Config) (*app, error) {
	logger := newLogger(cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	projectRepo := sqlite.NewProjectRepository(db)
	rosterRepo := sqlite.NewRosterRepository(db)
	directoryRepo := sqlite.NewDirectoryRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)

	ctx := context.Background()
	statuses, err := directoryRepo.ListStatusLinks(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading status links: %w", err)
	}
	groups, err := directoryRepo.ListGroupLinks(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading group links: %w", err)
	}

	eng := engine.New(
		engine.Config{
			IdleThreshold:     cfg.Sweep.IdleThreshold.Std(),
			NagInterval:       cfg.Sweep.NagInterval.Std(),
			MaxTimeTaken:      cfg.Sweep.MaxTimeTaken.Std(),
			SweepConcurrency:  cfg.Sweep.Concurrency,
			TeamLeadChannelID: cfg.Chat.TeamLeadChannelID,
		},
		engine.Deps{
			Projects:  projectRepo,
			Roster:    rosterRepo,
			Directory: directory.NewLookup(statuses, groups),
			Identity:  engine.NewRosterIdentity(rosterRepo),
			Audit:     auditRepo,
			Logger:    logger,
		},
	)

	display, chat, tracker := dispatch.NewLoggingClients(logger)
	dispatcher := dispatch.New(display, chat, tracker, projectRepo, logger)

	return &app{
		db:         db,
		engine:     eng,
		dispatcher: dispatcher,
		projects:   projectRepo,
		audit:      auditRepo,
		logger:     logger,
	}, nil
}
