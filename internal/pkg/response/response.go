package response

import "github.com/gin-gonic/gin"

// Success writes {"success":true,"data":...}.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error writes {"success":false,"error":{"code","message"}}.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Flat writes {"error":..., "message":...} without the envelope. Checkout,
// save-booking, send-webhook and the internal token gate answer in this shape
// because the storefront and automation callers parse it directly.
// An empty message is omitted.
func Flat(c *gin.Context, statusCode int, errMsg string, message string) {
	body := gin.H{"error": errMsg}
	if message != "" {
		body["message"] = message
	}
	c.JSON(statusCode, body)
}
