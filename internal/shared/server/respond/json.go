// Package respond standardizes the JSON envelopes the API emits. Success
// payloads (health status, batch results) go out as-is; errors use the
// ErrorResponse envelope.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload as a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes payload as a 200 response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}
