package bootstrap

import (
	"log"

	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
	"github.com/peacepeacecreation/life-designer-sub003/internal/vault"
)

// initializeServices creates all business services in dependency order
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	audit *services.AuditService,
	recorder core.Recorder,
) (
	*services.SyncService,
	*services.ConnectionService,
	*services.TimerService,
	*services.SnapshotService,
	*services.GoalService,
) {
	credVault, err := vault.New(cfg.EncryptionKey)
	if err != nil {
		// Validate() already checked key length; anything left is fatal.
		log.Fatalf("Failed to initialize credential vault: %v", err)
	}

	clients := createClientFactory(cfg)

	syncService := services.NewSyncService(db, credVault, clients, audit, recorder, cfg)
	connectionService := services.NewConnectionService(db, credVault, clients, syncService, audit, recorder)
	timerService := services.NewTimerService(db, credVault, clients, audit, recorder)
	snapshotService := services.NewSnapshotService(db, audit, recorder)
	goalService := services.NewGoalService(db)

	return syncService, connectionService, timerService, snapshotService, goalService
}
