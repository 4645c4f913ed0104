package response

import (
	"devconnector-api/internal/domain"

	"github.com/gin-gonic/gin"
)

// Message is the body of every non-validation failure and of plain
// acknowledgements such as a completed delete.
type Message struct {
	Msg string `json:"msg"`
}

// Errors is the body of a rejected request carrying rule violations.
type Errors struct {
	Errors interface{} `json:"errors"`
}

// Success writes data as the response body unchanged.
func Success(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Msg sends {"msg": message}.
func Msg(c *gin.Context, code int, message string) {
	c.JSON(code, Message{Msg: message})
}

// Error sends {"msg": message} and aborts the chain.
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Message{Msg: message})
}

// Violations sends {"errors": violations} and aborts the chain.
func Violations(c *gin.Context, code int, violations interface{}) {
	c.AbortWithStatusJSON(code, Errors{Errors: violations})
}

// RequestID returns the id assigned to the current request, if any.
func RequestID(c *gin.Context) string {
	reqID, _ := c.Get(string(domain.KeyRequestID))
	idStr, _ := reqID.(string)
	return idStr
}
