package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/consultancy-backend/internal/http/response"
	"github.com/yungbote/consultancy-backend/internal/services"
)

type WorkRecordHandler struct {
	workRecords services.WorkRecordService
}

func NewWorkRecordHandler(workRecords services.WorkRecordService) *WorkRecordHandler {
	return &WorkRecordHandler{workRecords: workRecords}
}

// POST /api/work-records
func (h *WorkRecordHandler) Create(c *gin.Context) {
	var in services.WorkRecordInput
	if !bindJSON(c, &in) {
		return
	}
	rec, err := h.workRecords.Create(requestDBC(c), in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"work_record": rec})
}

// DELETE /api/work-records/:id
func (h *WorkRecordHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.workRecords.Delete(requestDBC(c), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/work-records/weekly?user_id=&week_start=YYYY-MM-DD
func (h *WorkRecordHandler) Weekly(c *gin.Context) {
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}
	weekStart, ok := queryDate(c, "week_start")
	if !ok {
		return
	}
	summary, err := h.workRecords.WeeklySummary(requestDBC(c), userID, weekStart)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": summary})
}
