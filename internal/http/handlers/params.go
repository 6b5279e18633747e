package handlers

import (
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/consultancy-backend/internal/domain"
	"github.com/yungbote/consultancy-backend/internal/http/response"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
)

func requestDBC(c *gin.Context) dbctx.Context {
	return dbctx.New(c.Request.Context(), nil)
}

// pathUUID parses a uuid path parameter, answering 400 when it is malformed.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, string(types.CodeValidation), types.Validation("parse "+name, "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional uuid query parameter; blank yields nil.
func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, string(types.CodeValidation), types.Validation("parse "+name, "invalid "+name))
		return nil, false
	}
	return &id, true
}

// queryDate parses an optional YYYY-MM-DD query parameter; blank yields nil.
func queryDate(c *gin.Context, name string) (*civil.Date, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, string(types.CodeValidation), types.Validation("parse "+name, name+" must be YYYY-MM-DD"))
		return nil, false
	}
	return &d, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, string(types.CodeValidation), err)
		return false
	}
	return true
}

// stateBody is the payload of state transition endpoints.
type stateBody struct {
	State string `json:"state"`
}
