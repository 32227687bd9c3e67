package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storyweave/internal/engine"
)

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
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondEngineError maps engine error kinds onto HTTP statuses. Store
// failures are already logged by the engine and are reported without detail.
func respondEngineError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch engine.KindOf(err) {
	case engine.KindValidation:
		RespondError(c, http.StatusBadRequest, string(engine.KindValidation), err)
	case engine.KindInvalidField:
		RespondError(c, http.StatusBadRequest, string(engine.KindInvalidField), err)
	case engine.KindUnauthorized:
		RespondError(c, http.StatusForbidden, string(engine.KindUnauthorized), err)
	case engine.KindNotFound:
		RespondError(c, http.StatusNotFound, string(engine.KindNotFound), err)
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorEnvelope{
			Error: APIError{Message: "internal error", Code: "internal"},
		})
	}
}
