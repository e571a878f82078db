package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/restopos/backend/poserr"
)

// APIResponse is the JSON envelope of every endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Success: code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError maps a domain error to its HTTP status via poserr.
func RespondError(c *gin.Context, err error) {
	c.JSON(poserr.HTTPStatus(err), APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// RespondErrorCode forces a status code, for errors outside the domain
// taxonomy (auth failures, bad JSON).
func RespondErrorCode(c *gin.Context, code int, err error) {
	c.JSON(code, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}
