package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/consultancy-backend/internal/http/response"
	"github.com/yungbote/consultancy-backend/internal/services"
)

type TaskHandler struct {
	tasks services.TaskService
}

func NewTaskHandler(tasks services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var in services.TaskInput
	if !bindJSON(c, &in) {
		return
	}
	task, err := h.tasks.Create(requestDBC(c), in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"task": task})
}

// GET /api/tasks?contract_id=&state=active|complete|all
func (h *TaskHandler) List(c *gin.Context) {
	contractID, ok := queryUUID(c, "contract_id")
	if !ok {
		return
	}
	tasks, err := h.tasks.List(requestDBC(c), contractID, c.Query("state"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tasks": tasks})
}

// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.Get(requestDBC(c), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": task})
}

// PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var patch services.TaskPatch
	if !bindJSON(c, &patch) {
		return
	}
	task, err := h.tasks.Update(requestDBC(c), id, patch)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": task})
}
