package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mekarlab/billing-api/internal/models"
	"github.com/mekarlab/billing-api/internal/service"
	"github.com/mekarlab/billing-api/internal/utils"
)

// ClientHandler handles client read endpoints.
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler constructs a ClientHandler.
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List handles GET /clients/list.
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	c.JSON(200, clients)
}

// History handles GET /clients/:id/history.
func (h *ClientHandler) History(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid client ID")
		return
	}

	history, err := h.clientService.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, history)
}

// HistoryByName handles GET /clients/by_name/:name/history.
func (h *ClientHandler) HistoryByName(c *gin.Context) {
	history, err := h.clientService.HistoryByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, history)
}
