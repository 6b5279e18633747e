package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/consultancy-backend/internal/domain"
)

// ErrorCodeKey holds the code of the last error response on the gin context.
const ErrorCodeKey = "api_error_code"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.Set(ErrorCodeKey, code)
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps a service error onto its HTTP status. Internal
// failures are attached to the context for logging and answered generically.
func RespondDomainError(c *gin.Context, err error) {
	code := types.CodeOf(err)
	status := StatusFor(code)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.Set(ErrorCodeKey, string(types.CodeInternal))
		c.JSON(status, ErrorEnvelope{Error: APIError{Message: "internal error", Code: string(types.CodeInternal)}})
		return
	}
	c.Set(ErrorCodeKey, string(code))
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: types.MessageOf(err), Code: string(code)}})
}

func StatusFor(code types.ErrorCode) int {
	switch code {
	case types.CodeValidation:
		return http.StatusBadRequest
	case types.CodeNotFound:
		return http.StatusNotFound
	case types.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
