package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/http/response"
	"github.com/yungbote/consultancy-backend/internal/services"
)

type InvoiceHandler struct {
	invoices services.InvoiceService
}

func NewInvoiceHandler(invoices services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// POST /api/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var in services.InvoiceInput
	if !bindJSON(c, &in) {
		return
	}
	invoice, err := h.invoices.Create(requestDBC(c), in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"invoice": invoice})
}

// GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoices.Get(requestDBC(c), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"invoice": invoice})
}

// PATCH /api/invoices/:id/state
func (h *InvoiceHandler) UpdateState(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var body stateBody
	if !bindJSON(c, &body) {
		return
	}
	invoice, err := h.invoices.UpdateState(requestDBC(c), id, types.InvoiceState(body.State))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"invoice": invoice})
}
