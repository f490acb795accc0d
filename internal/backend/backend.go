package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tripcounter/internal/config"
	"tripcounter/internal/store"
	"tripcounter/internal/store/memory"
	"tripcounter/internal/store/sheets"
	"tripcounter/internal/store/sqlite"
)

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result carries the backend instance and its cleanup. Cleanup is never nil;
// backends without resources get a no-op.
type Result struct {
	Backend store.Backend
	Cleanup CleanupFunc
}

func noopCleanup() error { return nil }

type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
	Sheets Type = "sheets"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, Sheets:
		return true
	default:
		return false
	}
}

type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the record store named by the configuration.
func (f *Factory) Create(ctx context.Context, cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLite:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Backend: repo, Cleanup: repo.Close}, nil

	case Sheets:
		cli, err := sheets.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return &Result{Backend: cli, Cleanup: noopCleanup}, nil

	default:
		f.logger.Info("Initialized in-memory backend")
		return &Result{Backend: memory.New(), Cleanup: noopCleanup}, nil
	}
}
