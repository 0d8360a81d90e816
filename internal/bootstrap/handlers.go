package bootstrap

import (
	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/handlers"
	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
)

// handlerSet groups all HTTP handlers
type handlerSet struct {
	Connection *handlers.ConnectionHandler
	Sync       *handlers.SyncHandler
	Timer      *handlers.TimerHandler
	Snapshot   *handlers.SnapshotHandler
	Goal       *handlers.GoalHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	connectionService *services.ConnectionService,
	syncService *services.SyncService,
	timerService *services.TimerService,
	snapshotService *services.SnapshotService,
	goalService *services.GoalService,
) handlerSet {
	return handlerSet{
		Connection: handlers.NewConnectionHandler(connectionService),
		Sync:       handlers.NewSyncHandler(syncService, cfg.SyncBatchLimit),
		Timer:      handlers.NewTimerHandler(timerService),
		Snapshot:   handlers.NewSnapshotHandler(snapshotService),
		Goal:       handlers.NewGoalHandler(goalService),
	}
}
