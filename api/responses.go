package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every response body carries a "status" field mirroring the HTTP status
// code; error bodies additionally carry "error": true and, when the
// middleware ran, the request id.

// sendMessage writes the uniform success envelope.
func sendMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": status, "message": message})
}

// sendError writes the uniform error envelope.
func sendError(c *gin.Context, status int, message string) {
	body := gin.H{"status": status, "message": message, "error": true}
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			body[requestIDKey] = id
		}
	}
	c.JSON(status, body)
}

// sendIndexNotFound writes the standard unknown-index error.
func sendIndexNotFound(c *gin.Context) {
	sendError(c, http.StatusNotFound, "Index not found")
}
