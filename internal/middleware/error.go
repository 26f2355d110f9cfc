package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/apperror"
)

// ErrorHandler is the single error-responding boundary. Handlers attach
// errors with c.Error and return; this middleware maps them to a status and a
// JSON body with a human-readable message. Internal details are logged, never
// exposed.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := "error interno del servidor"

		var appErr *apperror.Error
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status()
			message = appErr.Message
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "recurso no encontrado"
		case errors.Is(err, gorm.ErrDuplicatedKey):
			status = http.StatusConflict
			message = "el registro ya existe"
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}

		c.JSON(status, gin.H{"message": message})
	}
}
