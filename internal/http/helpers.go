package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/auth"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// --- Success Response Helpers ---

// respondData sends a 200 OK envelope with data.
func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// respondCreated sends a 201 Created envelope with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// respondMessage sends a 200 OK envelope with a message only.
func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request envelope.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
}

// respondUnauthorized sends a 401 Unauthorized envelope.
func respondUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{Success: false, Message: message})
}

// respondNotFound sends a 404 Not Found envelope.
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{Success: false, Message: message})
}

// respondConflict sends a 409 Conflict envelope.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, Response{Success: false, Message: message})
}

// respondInternalError logs the error and sends a 500 envelope. The actual
// error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "Internal server error"})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. On failure it responds with 400 and returns false.
func parseIDParam(c *gin.Context, paramName, message string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, message)
		return 0, false
	}
	return uint(id), true
}
