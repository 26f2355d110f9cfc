package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutriplan/backend/internal/database"
	"github.com/nutriplan/backend/internal/middleware"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
)

const testJWTSecret = "api-test-secret-0123456789"

// setupTestRouter wires the full HTTP surface over an in-memory database.
// Redis is absent, so the credential rate limiter is a no-op.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	SetupAPI(router, db, nil, testJWTSecret)
	return router, db
}

// registerTestUser creates an account through the service layer and returns
// the user and a valid access token.
func registerTestUser(t *testing.T, db *gorm.DB, username, email, role string) (*models.User, string) {
	t.Helper()

	svc := service.NewAuthService(db, testJWTSecret)
	user := &models.User{Username: username, Email: email, Role: role}
	token, err := svc.Register(context.Background(), user, "contraseña-segura")
	require.NoError(t, err)
	return user, token
}

func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	for _, path := range []string{"/api/alimentos", "/api/recetas", "/api/dieta", "/api/foods"} {
		w := performRequest(router, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestMalformedBearerTokenRejected(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dieta", nil)
	req.Header.Set("Authorization", "Bearer basura")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMalformedJSONBodyIsBadRequest(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := registerTestUser(t, db, "maria", "maria@example.com", "")

	req := httptest.NewRequest(http.MethodPost, "/api/dieta", bytes.NewBufferString("{no json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cuerpo de la petición inválido", decodeBody(t, w)["message"])
}

func TestNumericPathParamValidated(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := registerTestUser(t, db, "maria", "maria@example.com", "")

	w := performRequest(router, http.MethodDelete, "/api/dieta/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "identificador inválido", decodeBody(t, w)["message"])
}
