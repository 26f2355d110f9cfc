package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/middleware"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
)

type FoodHandler struct {
	foodService *service.FoodService
	authService *service.AuthService
}

func NewFoodHandler(foodService *service.FoodService, authService *service.AuthService) *FoodHandler {
	return &FoodHandler{foodService: foodService, authService: authService}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/alimentos", middleware.Auth(h.authService))
	{
		foods.POST("", h.Create)
		foods.GET("", h.List)
		foods.GET("/:nombre", h.GetByName)
		foods.DELETE("/:id", h.Delete)
	}
}

type createFoodRequest struct {
	Name      string                  `json:"nombre_alimento" binding:"required"`
	Type      string                  `json:"tipo" binding:"required"`
	Store     string                  `json:"supermercado" binding:"required"`
	Brand     string                  `json:"marca"`
	Price     float64                 `json:"precio" binding:"min=0"`
	Calories  int                     `json:"calorias" binding:"min=0"`
	Nutrients []service.NutrientInput `json:"nutrientes" binding:"required,min=1,dive"`
}

func (h *FoodHandler) Create(c *gin.Context) {
	var req createFoodRequest
	if !bindJSON(c, &req) {
		return
	}

	food := models.Food{
		Name:     req.Name,
		Type:     req.Type,
		Store:    req.Store,
		Brand:    req.Brand,
		Price:    req.Price,
		Calories: req.Calories,
	}
	if err := h.foodService.Create(c.Request.Context(), &food, req.Nutrients); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "alimento creado exitosamente", "data": food})
}

func (h *FoodHandler) List(c *gin.Context) {
	names, err := h.foodService.ListNames(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *FoodHandler) GetByName(c *gin.Context) {
	detail, err := h.foodService.GetByName(c.Request.Context(), c.Param("nombre"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *FoodHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.foodService.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alimento eliminado correctamente"})
}
