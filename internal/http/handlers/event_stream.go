package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/http/response"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
	"github.com/yungbote/consultancy-backend/internal/realtime"
)

var streamEntities = map[string]bool{
	string(events.EntityClient):     true,
	string(events.EntityContract):   true,
	string(events.EntityTask):       true,
	string(events.EntityWorkRecord): true,
	string(events.EntityInvoice):    true,
}

type EventStreamHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewEventStreamHandler(log *logger.Logger, hub *realtime.Hub) *EventStreamHandler {
	return &EventStreamHandler{log: log.With("handler", "EventStreamHandler"), hub: hub}
}

// GET /api/events/stream?entity=task,invoice
func (h *EventStreamHandler) Stream(c *gin.Context) {
	var entities []string
	for _, raw := range c.QueryArray("entity") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			if !streamEntities[part] {
				response.RespondError(c, http.StatusBadRequest, string(types.CodeValidation),
					types.Validation("parse entity", fmt.Sprintf("unknown entity %q", part)))
				return
			}
			entities = append(entities, part)
		}
	}

	client := h.hub.Subscribe(entities)
	defer h.hub.CloseClient(client)
	h.log.Info("event stream open", "client_id", client.ID, "entities", entities)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.log.Info("event stream closed", "client_id", client.ID)
}
