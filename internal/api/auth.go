package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/middleware"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	limiter     *middleware.RateLimiter
}

func NewAuthHandler(authService *service.AuthService, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		credentials := auth.Group("", h.limiter.Middleware())
		{
			credentials.POST("/register", h.Register)
			credentials.POST("/login", h.Login)
			credentials.POST("/request-password-reset", h.RequestPasswordReset)
			credentials.POST("/reset-password", h.ResetPassword)
		}
		auth.POST("/refresh-token", h.RefreshToken)

		me := auth.Group("", middleware.Auth(h.authService))
		{
			me.GET("/me", h.Me)
			me.PUT("/me", h.UpdateMe)
			me.POST("/me/change-password", h.ChangePassword)
			me.DELETE("/me", h.DeleteMe)
			me.GET("/admin/users", middleware.RequireRole(models.RoleAdmin), h.ListUsers)
		}
	}
}

type registerRequest struct {
	Username      string   `json:"username" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=6"`
	FullName      string   `json:"full_name"`
	BirthDate     string   `json:"birth_date"`
	Gender        string   `json:"gender"`
	Locale        string   `json:"locale"`
	Timezone      string   `json:"timezone"`
	UnitSystem    string   `json:"unit_system"`
	HeightCm      *float64 `json:"height_cm"`
	WeightKg      *float64 `json:"weight_kg"`
	ActivityLevel string   `json:"activity_level"`
	DailyCalGoal  *int     `json:"daily_cal_goal"`
	DietPref      string   `json:"diet_pref"`
	AvatarURL     string   `json:"avatar_url"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user := models.User{
		Username:      req.Username,
		Email:         req.Email,
		FullName:      req.FullName,
		Gender:        req.Gender,
		Locale:        req.Locale,
		Timezone:      req.Timezone,
		UnitSystem:    req.UnitSystem,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		ActivityLevel: req.ActivityLevel,
		DailyCalGoal:  req.DailyCalGoal,
		DietPref:      req.DietPref,
		AvatarURL:     req.AvatarURL,
	}
	if req.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			_ = c.Error(apperror.New(apperror.Validation, "fecha de nacimiento inválida"))
			return
		}
		user.BirthDate = &birth
	}

	token, err := h.authService.Register(c.Request.Context(), &user, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

type refreshRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.Refresh(req.Token)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type resetRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req resetRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	resetToken, err := h.authService.RequestPasswordReset(req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resetToken": resetToken})
}

type resetPasswordRequest struct {
	ResetToken  string `json:"resetToken" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.ResetToken, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contraseña restablecida correctamente"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	user, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Username      *string  `json:"username"`
	Email         *string  `json:"email"`
	FullName      *string  `json:"full_name"`
	Gender        *string  `json:"gender"`
	Locale        *string  `json:"locale"`
	Timezone      *string  `json:"timezone"`
	UnitSystem    *string  `json:"unit_system"`
	HeightCm      *float64 `json:"height_cm"`
	WeightKg      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
	DailyCalGoal  *int     `json:"daily_cal_goal"`
	DietPref      *string  `json:"diet_pref"`
	AvatarURL     *string  `json:"avatar_url"`
}

func (r *updateProfileRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(column string, v interface{}, present bool) {
		if present {
			fields[column] = v
		}
	}
	set("username", deref(r.Username), r.Username != nil)
	set("email", deref(r.Email), r.Email != nil)
	set("full_name", deref(r.FullName), r.FullName != nil)
	set("gender", deref(r.Gender), r.Gender != nil)
	set("locale", deref(r.Locale), r.Locale != nil)
	set("timezone", deref(r.Timezone), r.Timezone != nil)
	set("unit_system", deref(r.UnitSystem), r.UnitSystem != nil)
	if r.HeightCm != nil {
		fields["height_cm"] = *r.HeightCm
	}
	if r.WeightKg != nil {
		fields["weight_kg"] = *r.WeightKg
	}
	set("activity_level", deref(r.ActivityLevel), r.ActivityLevel != nil)
	if r.DailyCalGoal != nil {
		fields["daily_cal_goal"] = *r.DailyCalGoal
	}
	set("diet_pref", deref(r.DietPref), r.DietPref != nil)
	set("avatar_url", deref(r.AvatarURL), r.AvatarURL != nil)
	return fields
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := middleware.UserID(c)
	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, req.fields())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := middleware.UserID(c)
	err := h.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contraseña actualizada correctamente"})
}

func (h *AuthHandler) DeleteMe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	if err := h.authService.DeleteAccount(c.Request.Context(), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "usuario eliminado"})
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	filter := service.UserFilter{
		Email: c.Query("email"),
		Role:  c.Query("role"),
	}
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)

	users, total, err := h.authService.ListUsers(c.Request.Context(), filter, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
