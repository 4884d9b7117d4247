package utils

import "github.com/gin-gonic/gin"

// Error writes the uniform failure body shared by every API error path.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}
