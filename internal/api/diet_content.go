package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/middleware"
	"github.com/nutriplan/backend/internal/service"
)

type DietContentHandler struct {
	contentService *service.DietContentService
	authService    *service.AuthService
}

func NewDietContentHandler(contentService *service.DietContentService, authService *service.AuthService) *DietContentHandler {
	return &DietContentHandler{contentService: contentService, authService: authService}
}

func (h *DietContentHandler) RegisterRoutes(router *gin.RouterGroup) {
	slot := router.Group("/dieta_contenido/:id_dieta/dia/:dia/comida/:comida", middleware.Auth(h.authService))
	{
		slot.GET("", h.Get)
		slot.POST("", h.Save)
		slot.GET("/nutricion", h.Nutrition)
	}
}

func (h *DietContentHandler) Get(c *gin.Context) {
	dietID, ok := parseID(c, "id_dieta")
	if !ok {
		return
	}
	content, err := h.contentService.GetMealSlot(c.Request.Context(), dietID, c.Param("dia"), c.Param("comida"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, content)
}

type saveSlotRequest struct {
	Foods   []service.FoodEntry   `json:"alimentos" binding:"dive"`
	Recipes []service.RecipeEntry `json:"recetas" binding:"dive"`
}

func (h *DietContentHandler) Save(c *gin.Context) {
	dietID, ok := parseID(c, "id_dieta")
	if !ok {
		return
	}
	var req saveSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.contentService.SaveMealSlot(
		c.Request.Context(), dietID, c.Param("dia"), c.Param("comida"), req.Foods, req.Recipes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contenido guardado correctamente"})
}

func (h *DietContentHandler) Nutrition(c *gin.Context) {
	dietID, ok := parseID(c, "id_dieta")
	if !ok {
		return
	}
	totals, err := h.contentService.SlotNutrition(c.Request.Context(), dietID, c.Param("dia"), c.Param("comida"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
