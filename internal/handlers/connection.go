package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
)

// ConnectionHandler handles connection lifecycle endpoints
type ConnectionHandler struct {
	connections *services.ConnectionService
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

type connectRequest struct {
	APIKey      string `json:"api_key" binding:"required"`
	WorkspaceID string `json:"workspace_id"`
}

// Connect validates an API key and creates or reactivates the
// connection. POST /api/connections
func (h *ConnectionHandler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "api_key is required")
		return
	}

	conn, err := h.connections.Connect(c, currentUserID(c), req.APIKey, req.WorkspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"connection": conn})
}

// Disconnect soft-deletes a connection. DELETE /api/connections/:id
func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	if err := h.connections.Disconnect(c, currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}

// GetConnection returns the caller's active connection.
// GET /api/connections
func (h *ConnectionHandler) GetConnection(c *gin.Context) {
	conn, err := h.connections.GetConnection(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"connection": conn})
}

// ListProjects returns the cached projects of a connection.
// GET /api/projects?connection_id=
func (h *ConnectionHandler) ListProjects(c *gin.Context) {
	connectionID := c.Query("connection_id")
	if connectionID == "" {
		respondBadRequest(c, "connection_id is required")
		return
	}

	projects, err := h.connections.ListProjects(currentUserID(c), connectionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}
