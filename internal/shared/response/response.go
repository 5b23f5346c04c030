package response

import (
	"github.com/gin-gonic/gin"
)

// The portal contract is deliberately flat: success responses carry the
// record or array directly, failures carry {code, error, details?}. The
// client core keys its error surfacing off the "error" field.

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ErrorBody{
		Code:    errorCode,
		Message: message,
		Details: details,
	})
}
