package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/middleware"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	authService   *service.AuthService
}

func NewRecipeHandler(recipeService *service.RecipeService, authService *service.AuthService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, authService: authService}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recetas", middleware.Auth(h.authService))
	{
		recipes.POST("/crear-receta", h.Create)
		recipes.GET("", h.List)
		recipes.GET("/:id", h.Get)
		recipes.PUT("/:id", h.Update)
		recipes.DELETE("/:id", h.Delete)
	}
}

type createRecipeRequest struct {
	Name         string                    `json:"nombre" binding:"required"`
	Description  string                    `json:"descripcion"`
	Instructions string                    `json:"instrucciones"`
	PrepTime     string                    `json:"tiempo_preparacion"`
	Ingredients  []service.IngredientInput `json:"ingredientes" binding:"required,min=1,dive"`
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req createRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := middleware.UserID(c)
	recipe := models.Recipe{
		Name:         req.Name,
		Description:  req.Description,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		UserID:       userID,
	}
	if err := h.recipeService.Create(c.Request.Context(), &recipe, req.Ingredients); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "receta creada exitosamente", "data": recipe})
}

func (h *RecipeHandler) List(c *gin.Context) {
	recipes, err := h.recipeService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

type updateRecipeRequest struct {
	Name         *string                   `json:"nombre"`
	Description  *string                   `json:"descripcion"`
	Instructions *string                   `json:"instrucciones"`
	PrepTime     *string                   `json:"tiempo_preparacion"`
	Ingredients  []service.IngredientInput `json:"ingredientes" binding:"required,min=1,dive"`
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["nombre"] = *req.Name
	}
	if req.Description != nil {
		fields["descripcion"] = *req.Description
	}
	if req.Instructions != nil {
		fields["instrucciones"] = *req.Instructions
	}
	if req.PrepTime != nil {
		fields["tiempo_preparacion"] = *req.PrepTime
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), id, fields, req.Ingredients)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recipeService.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "receta eliminada correctamente"})
}
