package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/peacepeacecreation/life-designer-sub003/internal/clockify"
	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
	"github.com/peacepeacecreation/life-designer-sub003/internal/vault"
)

// ConnectionService manages the lifecycle of time-tracking connections:
// connect (validate + encrypt + upsert), disconnect (soft delete), and
// lookup.
type ConnectionService struct {
	store   *store.Store
	vault   *vault.Vault
	clients ClientFactory
	sync    *SyncService
	audit   *AuditService
	metrics core.Recorder
}

// NewConnectionService creates a connection service.
func NewConnectionService(
	s *store.Store,
	v *vault.Vault,
	clients ClientFactory,
	syncSvc *SyncService,
	audit *AuditService,
	metrics core.Recorder,
) *ConnectionService {
	return &ConnectionService{
		store:   s,
		vault:   v,
		clients: clients,
		sync:    syncSvc,
		audit:   audit,
		metrics: metrics,
	}
}

// Connect validates the API key against the external service, encrypts
// it, and creates or reactivates the connection for the workspace. The
// initial full sync runs in the background; its failure never fails the
// connect request.
//
// workspaceID may be empty, in which case the key owner's active
// workspace is used.
func (s *ConnectionService) Connect(
	ctx context.Context,
	userID, apiKey, workspaceID string,
) (*models.ClockifyConnection, error) {
	client, err := s.clients(apiKey)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	user, err := client.CurrentUser(ctx)
	s.metrics.RecordExternalAPICall("current_user", time.Since(start), err == nil)
	if err != nil {
		s.metrics.RecordConnect(false)
		s.audit.Log(ctx, AuditLogEntry{
			EventType:    models.EventConnectionConnected,
			Severity:     models.SeverityWarning,
			ActorUserID:  userID,
			ResourceType: models.ResourceConnection,
			Action:       "connect",
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	if workspaceID == "" {
		workspaceID = user.ActiveWorkspace
		if workspaceID == "" {
			workspaceID = user.DefaultWorkspace
		}
	}

	workspaces, err := client.Workspaces(ctx)
	if err != nil {
		s.metrics.RecordConnect(false)
		return nil, err
	}
	if !workspaceVisible(workspaces, workspaceID) {
		s.metrics.RecordConnect(false)
		return nil, ErrWorkspaceNotFound
	}

	encrypted, err := s.vault.Encrypt(apiKey)
	if err != nil {
		s.metrics.RecordConnect(false)
		return nil, err
	}

	conn, err := s.store.UpsertConnection(&models.ClockifyConnection{
		UserID:          userID,
		WorkspaceID:     workspaceID,
		ExternalUserID:  user.ID,
		APIKeyEncrypted: encrypted,
		AutoSync:        true,
	})
	if err != nil {
		s.metrics.RecordConnect(false)
		return nil, err
	}

	s.metrics.RecordConnect(true)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventConnectionConnected,
		Severity:     models.SeverityInfo,
		ActorUserID:  userID,
		ResourceType: models.ResourceConnection,
		ResourceID:   conn.ID,
		Action:       "connect",
		Details: models.AuditDetails{
			"workspace_id":    workspaceID,
			"api_key_preview": vault.Preview(apiKey),
		},
		Success: true,
	})

	// Initial full sync, detached from the request.
	go func(connID string) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("initial sync panicked for connection %s: %v", connID, r)
			}
		}()
		bg := context.Background()
		if _, err := s.sync.SyncConnectionByID(bg, connID, config.SyncTypeFull); err != nil {
			log.Printf("initial sync failed for connection %s: %v", connID, err)
		}
	}(conn.ID)

	return conn, nil
}

// Disconnect soft-deletes the user's connection. Sync logs and imported
// entries are preserved.
func (s *ConnectionService) Disconnect(ctx context.Context, userID, connectionID string) error {
	conn, err := s.store.GetConnection(connectionID)
	if err != nil {
		return err
	}
	// Ownership check doubles as existence: foreign rows look absent.
	if conn.UserID != userID {
		return store.ErrRecordNotFound
	}

	if err := s.store.DeactivateConnection(conn.ID); err != nil {
		return err
	}

	s.metrics.RecordDisconnect()
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventConnectionDisconnected,
		Severity:     models.SeverityInfo,
		ActorUserID:  userID,
		ResourceType: models.ResourceConnection,
		ResourceID:   conn.ID,
		Action:       "disconnect",
		Success:      true,
	})
	return nil
}

// GetConnection returns the user's active connection.
func (s *ConnectionService) GetConnection(userID string) (*models.ClockifyConnection, error) {
	conn, err := s.store.GetConnectionByUser(userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrNoConnection
	}
	return conn, err
}

// ListProjects returns the cached projects of a user's connection.
func (s *ConnectionService) ListProjects(userID, connectionID string) ([]models.ClockifyProject, error) {
	conn, err := s.store.GetConnection(connectionID)
	if err != nil {
		return nil, err
	}
	if conn.UserID != userID {
		return nil, store.ErrRecordNotFound
	}
	return s.store.ListProjects(conn.ID)
}

func workspaceVisible(workspaces []clockify.Workspace, id string) bool {
	for _, w := range workspaces {
		if w.ID == id {
			return true
		}
	}
	return false
}
