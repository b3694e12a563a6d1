package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/catalog"
	"storefront-api/internal/database"
	"storefront-api/internal/models"
)

// SystemHandler sirve el chequeo de vida, la limpieza de huérfanos y la
// colección de usuarios.
type SystemHandler struct {
	pinger      database.Pinger
	coordinator *catalog.Coordinator
	users       *catalog.UserService
}

func NewSystemHandler(pinger database.Pinger, coordinator *catalog.Coordinator, users *catalog.UserService) *SystemHandler {
	return &SystemHandler{pinger: pinger, coordinator: coordinator, users: users}
}

// Ping maneja GET /api/ping.
func (h *SystemHandler) Ping(c *gin.Context) {
	ok, err := h.pinger.Ping(c.Request.Context())
	if err != nil {
		writeError(c, err, "Database connection failed", "")
		return
	}

	status := "ok"
	if !ok {
		status = "not ok"
	}
	c.JSON(http.StatusOK, gin.H{"message": "Database connection is healthy", "status": status})
}

// Cleanup maneja DELETE /api/cleanup.
func (h *SystemHandler) Cleanup(c *gin.Context) {
	result, err := h.coordinator.Cleanup(c.Request.Context())
	if err != nil {
		writeError(c, err, "Cleanup failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":             "Cleanup complete",
		"removedFromCart":     result.RemovedFromCart,
		"removedFromWishlist": result.RemovedFromWishlist,
	})
}

func (h *SystemHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch users", "")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *SystemHandler) CreateUser(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		writeBindError(c, err)
		return
	}

	id, err := h.users.Create(c.Request.Context(), fields)
	if err != nil {
		writeError(c, err, "Failed to add user", "")
		return
	}
	c.JSON(http.StatusCreated, models.InsertResult{InsertedID: id.String()})
}
