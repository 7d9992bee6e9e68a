package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fundingthecommons/impactful-events-sub003/internal/db"
	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

// openRepo opens the SQLite repository, creating the data directory first.
func openRepo(dbPath string) (event.Repository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}
