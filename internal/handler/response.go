package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/salonkit/scheduler-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, &Response{Status: "success", Data: data})
}

// Error renders an application error with its code and, for overlap
// conflicts, the full conflict list.
func Error(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		body := gin.H{
			"status":  "error",
			"code":    string(appErr.Code),
			"message": appErr.Message,
		}
		if len(appErr.Conflicts) > 0 {
			body["conflicts"] = appErr.Conflicts
		}
		c.JSON(appErr.StatusCode(), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"code":    string(apperrors.CodeInternal),
		"message": "internal error",
	})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &Response{Status: "error", Message: message})
}
