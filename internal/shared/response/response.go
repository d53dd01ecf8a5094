package response

import (
	"github.com/gin-gonic/gin"
)

// The public API speaks bare JSON payloads. Errors always carry a
// human-readable `detail` plus a machine `code`; success responses are the
// resource itself, no envelope.

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

func Error(c *gin.Context, status int, errorCode string, detail string) {
	c.JSON(status, gin.H{
		"code":   errorCode,
		"detail": detail,
	})
}
