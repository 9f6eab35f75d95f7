package controllers

import (
	"errors"
	"net/http"

	apperrors "storefront-backend/common/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps application errors to their HTTP status. Unknown errors
// surface as a generic 500 without internal detail; callers log them.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
