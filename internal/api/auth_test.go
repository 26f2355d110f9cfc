package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriplan/backend/internal/models"
)

func TestRegisterEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username":   "maria",
		"email":      "maria@example.com",
		"password":   "contraseña-segura",
		"full_name":  "María García",
		"birth_date": "1990-05-12",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "maria", user["username"])
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterValidation(t *testing.T) {
	router, _ := setupTestRouter(t)

	// Missing password.
	w := performRequest(router, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username": "maria",
		"email":    "maria@example.com",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed birth date.
	w = performRequest(router, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username":   "maria",
		"email":      "maria@example.com",
		"password":   "contraseña-segura",
		"birth_date": "12/05/1990",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "fecha de nacimiento inválida", decodeBody(t, w)["message"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, db := setupTestRouter(t)
	registerTestUser(t, db, "maria", "maria@example.com", "")

	w := performRequest(router, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username": "otra",
		"email":    "maria@example.com",
		"password": "contraseña-segura",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email o nombre de usuario ya registrado", decodeBody(t, w)["message"])
}

func TestLoginEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	registerTestUser(t, db, "maria", "maria@example.com", "")

	w := performRequest(router, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "maria@example.com",
		"password": "contraseña-segura",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["token"])

	w = performRequest(router, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "maria@example.com",
		"password": "incorrecta",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "credenciales inválidas", decodeBody(t, w)["message"])
}

func TestRefreshTokenEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := registerTestUser(t, db, "maria", "maria@example.com", "")

	w := performRequest(router, http.MethodPost, "/api/auth/refresh-token", map[string]interface{}{
		"token": token,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["token"])

	w = performRequest(router, http.MethodPost, "/api/auth/refresh-token", map[string]interface{}{
		"token": "basura",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetEndpoints(t *testing.T) {
	router, db := setupTestRouter(t)
	registerTestUser(t, db, "maria", "maria@example.com", "")

	w := performRequest(router, http.MethodPost, "/api/auth/request-password-reset", map[string]interface{}{
		"email": "maria@example.com",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	resetToken, _ := decodeBody(t, w)["resetToken"].(string)
	require.NotEmpty(t, resetToken)

	w = performRequest(router, http.MethodPost, "/api/auth/reset-password", map[string]interface{}{
		"resetToken":  resetToken,
		"newPassword": "nueva-contraseña",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "maria@example.com",
		"password": "nueva-contraseña",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMeEndpoints(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := registerTestUser(t, db, "maria", "maria@example.com", "")

	w := performRequest(router, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "maria", decodeBody(t, w)["username"])

	w = performRequest(router, http.MethodPut, "/api/auth/me", map[string]interface{}{
		"full_name": "María García",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "María García", decodeBody(t, w)["full_name"])

	w = performRequest(router, http.MethodPost, "/api/auth/me/change-password", map[string]interface{}{
		"oldPassword": "contraseña-segura",
		"newPassword": "nueva-contraseña",
	}, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodDelete, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUserListRequiresRole(t *testing.T) {
	router, db := setupTestRouter(t)
	_, userToken := registerTestUser(t, db, "maria", "maria@example.com", "")
	_, adminToken := registerTestUser(t, db, "admin", "admin@example.com", models.RoleAdmin)

	w := performRequest(router, http.MethodGet, "/api/auth/admin/users", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(router, http.MethodGet, "/api/auth/admin/users", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["total"])
}
