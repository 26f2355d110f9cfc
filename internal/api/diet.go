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

type DietHandler struct {
	dietService *service.DietService
	authService *service.AuthService
}

func NewDietHandler(dietService *service.DietService, authService *service.AuthService) *DietHandler {
	return &DietHandler{dietService: dietService, authService: authService}
}

func (h *DietHandler) RegisterRoutes(router *gin.RouterGroup) {
	diets := router.Group("/dieta", middleware.Auth(h.authService))
	{
		diets.GET("", h.List)
		diets.POST("", h.Create)
		diets.PUT("/:id/activar", h.SetActive)
		diets.DELETE("/:id", h.Delete)
	}
}

func (h *DietHandler) List(c *gin.Context) {
	diets, err := h.dietService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, diets)
}

type createDietRequest struct {
	Name        string `json:"nombre_dieta" binding:"required"`
	Description string `json:"descripcion"`
	Type        string `json:"tipo_dieta" binding:"required"`
	StartDate   string `json:"fecha_inicio"`
}

func (h *DietHandler) Create(c *gin.Context) {
	var req createDietRequest
	if !bindJSON(c, &req) {
		return
	}

	// The diet belongs to whoever holds the token, never a fixed id.
	userID, _ := middleware.UserID(c)
	diet := models.Diet{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			_ = c.Error(apperror.New(apperror.Validation, "fecha de inicio inválida"))
			return
		}
		diet.StartDate = start
	}

	if err := h.dietService.Create(c.Request.Context(), &diet); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "dieta creada exitosamente", "data": diet})
}

type setActiveRequest struct {
	Active *bool `json:"activa" binding:"required"`
}

func (h *DietHandler) SetActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req setActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	diet, err := h.dietService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, diet)
}

func (h *DietHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.dietService.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "dieta eliminada correctamente"})
}
