package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azampay/momo-checkout/internal/shared/errors"
)

// APIResponse is the JSON envelope for every checkout endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo is shown to the shopper as a checkout notice.
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{Success: true, Data: data, Message: message})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	writeError(c, statusCode, ErrorInfo{Type: "error", Message: message})
}

// ErrorResponseWithError derives status and notice from an AppError. Other
// errors become a generic 500 without their text.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		writeError(c, http.StatusInternalServerError, ErrorInfo{
			Type:    string(errors.ErrorTypeInternal),
			Message: "Internal server error occurred",
		})
		return
	}
	writeError(c, appErr.Code, ErrorInfo{
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

func writeError(c *gin.Context, statusCode int, info ErrorInfo) {
	c.JSON(statusCode, APIResponse{Success: false, Error: &info})
}

// PlainTextResponse writes a bare text body. Provider callbacks expect plain
// text rather than the JSON envelope.
func PlainTextResponse(c *gin.Context, statusCode int, body string) {
	if body == "" {
		c.Status(statusCode)
		c.Writer.WriteHeaderNow()
		return
	}
	c.String(statusCode, body)
}
