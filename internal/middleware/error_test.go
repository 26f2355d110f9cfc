package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/apperror"
)

func newErrorTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler(zap.NewNop()))
	return router
}

func performGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestErrorHandlerMapsAppErrors(t *testing.T) {
	router := newErrorTestRouter()
	router.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(apperror.New(apperror.Conflict, "el registro ya existe"))
	})
	router.GET("/notfound", func(c *gin.Context) {
		_ = c.Error(apperror.New(apperror.NotFound, "dieta no encontrada"))
	})

	w := performGet(router, "/conflict")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"el registro ya existe"}`, w.Body.String())

	w = performGet(router, "/notfound")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"dieta no encontrada"}`, w.Body.String())
}

func TestErrorHandlerMapsBareGormErrors(t *testing.T) {
	router := newErrorTestRouter()
	router.GET("/gone", func(c *gin.Context) {
		_ = c.Error(gorm.ErrRecordNotFound)
	})

	w := performGet(router, "/gone")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorHandlerHidesInternalDetails(t *testing.T) {
	router := newErrorTestRouter()
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})

	w := performGet(router, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.JSONEq(t, `{"message":"error interno del servidor"}`, w.Body.String())
}

func TestErrorHandlerLeavesWrittenResponsesAlone(t *testing.T) {
	router := newErrorTestRouter()
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := performGet(router, "/ok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
