package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/http/response"
	"github.com/yungbote/consultancy-backend/internal/services"
)

type ContractHandler struct {
	contracts services.ContractService
}

func NewContractHandler(contracts services.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// POST /api/contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var in services.ContractInput
	if !bindJSON(c, &in) {
		return
	}
	contract, err := h.contracts.Create(requestDBC(c), in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"contract": contract})
}

// GET /api/contracts?state=active|complete|all
func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.contracts.List(requestDBC(c), c.Query("state"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contracts": contracts})
}

// GET /api/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	contract, err := h.contracts.Get(requestDBC(c), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": contract})
}

// PATCH /api/contracts/:id/state
func (h *ContractHandler) UpdateState(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var body stateBody
	if !bindJSON(c, &body) {
		return
	}
	contract, err := h.contracts.UpdateState(requestDBC(c), id, types.ContractState(body.State))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": contract})
}

// GET /api/contracts/:id/details
func (h *ContractHandler) Details(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	details, err := h.contracts.Details(requestDBC(c), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"details": details})
}
