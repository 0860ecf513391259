package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepmate/prepmate/internal/utils"
)

// APIError is the JSON error envelope every handler returns. RequestID
// is echoed so clients can quote it when reporting problems.
type APIError struct {
	Code      utils.Code `json:"code"`
	Message   string     `json:"message"`
	RequestID string     `json:"request_id,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	out := APIError{
		Code:      utils.CodeInternal,
		Message:   http.StatusText(status),
		RequestID: c.GetString("request_id"),
	}

	var ae *utils.AppError
	if errors.As(err, &ae) {
		out.Code = ae.Code
		out.Message = ae.Message
	}

	c.JSON(status, out)
}

func requireUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "missing user identity", nil))
	return "", false
}
