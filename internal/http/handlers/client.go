package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/consultancy-backend/internal/http/response"
	"github.com/yungbote/consultancy-backend/internal/services"
)

type ClientHandler struct {
	clients services.ClientService
}

func NewClientHandler(clients services.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// POST /api/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var in services.ClientInput
	if !bindJSON(c, &in) {
		return
	}
	client, err := h.clients.Create(requestDBC(c), in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"client": client})
}

// GET /api/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	client, err := h.clients.Get(requestDBC(c), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"client": client})
}
