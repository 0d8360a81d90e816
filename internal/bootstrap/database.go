package bootstrap

import (
	"fmt"

	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
)

// initializeDatabase creates and initializes the database connection
func initializeDatabase(cfg *config.Config) (*store.Store, error) {
	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}
