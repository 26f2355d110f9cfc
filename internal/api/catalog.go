package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/middleware"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
)

// CatalogHandler exposes the generic reference catalogs. Reads require a
// valid token; writes additionally require the admin role.
type CatalogHandler struct {
	catalogService *service.CatalogService
	authService    *service.AuthService
}

func NewCatalogHandler(catalogService *service.CatalogService, authService *service.AuthService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, authService: authService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := middleware.RequireRole(models.RoleAdmin)

	mount := func(path string, list, get, create, update, del gin.HandlerFunc) {
		group := router.Group(path, middleware.Auth(h.authService))
		group.GET("", list)
		group.GET("/:id", get)
		group.POST("", admin, create)
		group.PUT("/:id", admin, update)
		group.DELETE("/:id", admin, del)
	}

	mount("/foods", h.ListFoods, h.GetFood, h.CreateFood, h.UpdateFood, h.DeleteFood)
	mount("/nutrients", h.ListNutrients, h.GetNutrient, h.CreateNutrient, h.UpdateNutrient, h.DeleteNutrient)
	mount("/stores", h.ListStores, h.GetStore, h.CreateStore, h.UpdateStore, h.DeleteStore)
	mount("/units", h.ListUnits, h.GetUnit, h.CreateUnit, h.UpdateUnit, h.DeleteUnit)
	mount("/meal-types", h.ListMealTypes, h.GetMealType, h.CreateMealType, h.UpdateMealType, h.DeleteMealType)
	mount("/products", h.ListProducts, h.GetProduct, h.CreateProduct, h.UpdateProduct, h.DeleteProduct)
}

func listResponse(c *gin.Context, key string, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{key: items, "total": total, "page": page, "limit": limit})
}

// --- foods ---

func (h *CatalogHandler) ListFoods(c *gin.Context) {
	page, limit := intQuery(c, "page", 1), intQuery(c, "limit", 50)
	foods, total, err := h.catalogService.ListFoods(
		c.Request.Context(), c.Query("name"), c.Query("category"), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	listResponse(c, "foods", foods, total, page, limit)
}

func (h *CatalogHandler) GetFood(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	food, err := h.catalogService.GetFood(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, food)
}

type catalogFoodRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

func (h *CatalogHandler) CreateFood(c *gin.Context) {
	var req catalogFoodRequest
	if !bindJSON(c, &req) {
		return
	}
	food := models.CatalogFood{Name: req.Name, Category: req.Category}
	if err := h.catalogService.CreateFood(c.Request.Context(), &food); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

type catalogFoodUpdateRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
}

func (h *CatalogHandler) UpdateFood(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req catalogFoodUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	food, err := h.catalogService.UpdateFood(c.Request.Context(), id, fields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *CatalogHandler) DeleteFood(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteFood(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alimento eliminado correctamente"})
}

// --- nutrients ---

func (h *CatalogHandler) ListNutrients(c *gin.Context) {
	page, limit := intQuery(c, "page", 1), intQuery(c, "limit", 50)
	nutrients, total, err := h.catalogService.ListNutrients(c.Request.Context(), c.Query("name"), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	listResponse(c, "nutrients", nutrients, total, page, limit)
}

func (h *CatalogHandler) GetNutrient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	nutrient, err := h.catalogService.GetNutrient(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, nutrient)
}

type nutrientRequest struct {
	Name string `json:"nombre_nutriente" binding:"required"`
	Unit string `json:"unidad" binding:"required"`
}

func (h *CatalogHandler) CreateNutrient(c *gin.Context) {
	var req nutrientRequest
	if !bindJSON(c, &req) {
		return
	}
	nutrient := models.Nutrient{Name: req.Name, Unit: req.Unit}
	if err := h.catalogService.CreateNutrient(c.Request.Context(), &nutrient); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, nutrient)
}

type nutrientUpdateRequest struct {
	Name *string `json:"nombre_nutriente"`
	Unit *string `json:"unidad"`
}

func (h *CatalogHandler) UpdateNutrient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req nutrientUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["nombre_nutriente"] = *req.Name
	}
	if req.Unit != nil {
		fields["unidad"] = *req.Unit
	}
	nutrient, err := h.catalogService.UpdateNutrient(c.Request.Context(), id, fields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, nutrient)
}

func (h *CatalogHandler) DeleteNutrient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteNutrient(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "nutriente eliminado correctamente"})
}

// --- stores ---

func (h *CatalogHandler) ListStores(c *gin.Context) {
	page, limit := intQuery(c, "page", 1), intQuery(c, "limit", 50)
	stores, total, err := h.catalogService.ListStores(c.Request.Context(), c.Query("name"), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	listResponse(c, "stores", stores, total, page, limit)
}

func (h *CatalogHandler) GetStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	store, err := h.catalogService.GetStore(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, store)
}

type storeRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CatalogHandler) CreateStore(c *gin.Context) {
	var req storeRequest
	if !bindJSON(c, &req) {
		return
	}
	store := models.Store{Name: req.Name}
	if err := h.catalogService.CreateStore(c.Request.Context(), &store); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, store)
}

func (h *CatalogHandler) UpdateStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req storeRequest
	if !bindJSON(c, &req) {
		return
	}
	store, err := h.catalogService.UpdateStore(c.Request.Context(), id, map[string]interface{}{"name": req.Name})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *CatalogHandler) DeleteStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteStore(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supermercado eliminado correctamente"})
}

// --- units ---

func (h *CatalogHandler) ListUnits(c *gin.Context) {
	page, limit := intQuery(c, "page", 1), intQuery(c, "limit", 50)
	units, total, err := h.catalogService.ListUnits(c.Request.Context(), c.Query("name"), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	listResponse(c, "units", units, total, page, limit)
}

func (h *CatalogHandler) GetUnit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	unit, err := h.catalogService.GetUnit(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

type unitRequest struct {
	Name         string  `json:"name" binding:"required"`
	Abbreviation string  `json:"abbreviation" binding:"required"`
	ToBaseFactor float64 `json:"to_base_factor" binding:"required,gt=0"`
}

func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var req unitRequest
	if !bindJSON(c, &req) {
		return
	}
	unit := models.Unit{Name: req.Name, Abbreviation: req.Abbreviation, ToBaseFactor: req.ToBaseFactor}
	if err := h.catalogService.CreateUnit(c.Request.Context(), &unit); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

type unitUpdateRequest struct {
	Name         *string  `json:"name"`
	Abbreviation *string  `json:"abbreviation"`
	ToBaseFactor *float64 `json:"to_base_factor"`
}

func (h *CatalogHandler) UpdateUnit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req unitUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Abbreviation != nil {
		fields["abbreviation"] = *req.Abbreviation
	}
	if req.ToBaseFactor != nil {
		fields["to_base_factor"] = *req.ToBaseFactor
	}
	unit, err := h.catalogService.UpdateUnit(c.Request.Context(), id, fields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *CatalogHandler) DeleteUnit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteUnit(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unidad eliminada correctamente"})
}

// --- meal types ---

func (h *CatalogHandler) ListMealTypes(c *gin.Context) {
	page, limit := intQuery(c, "page", 1), intQuery(c, "limit", 50)
	mealTypes, total, err := h.catalogService.ListMealTypes(c.Request.Context(), c.Query("name"), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	listResponse(c, "meal_types", mealTypes, total, page, limit)
}

func (h *CatalogHandler) GetMealType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	mealType, err := h.catalogService.GetMealType(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mealType)
}

type mealTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CatalogHandler) CreateMealType(c *gin.Context) {
	var req mealTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	mealType := models.MealType{Name: req.Name}
	if err := h.catalogService.CreateMealType(c.Request.Context(), &mealType); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, mealType)
}

func (h *CatalogHandler) UpdateMealType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req mealTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	mealType, err := h.catalogService.UpdateMealType(c.Request.Context(), id, map[string]interface{}{"name": req.Name})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mealType)
}

func (h *CatalogHandler) DeleteMealType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteMealType(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tipo de comida eliminado correctamente"})
}

// --- products ---

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, limit := intQuery(c, "page", 1), intQuery(c, "limit", 50)
	filter := service.ProductFilter{
		FoodID:  uint(intQuery(c, "food_id", 0)),
		StoreID: uint(intQuery(c, "store_id", 0)),
	}
	products, total, err := h.catalogService.ListProducts(c.Request.Context(), filter, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	listResponse(c, "products", products, total, page, limit)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type productRequest struct {
	FoodID    uint                           `json:"food_id" binding:"required"`
	StoreID   uint                           `json:"store_id" binding:"required"`
	Brand     string                         `json:"brand"`
	Price     float64                        `json:"price" binding:"min=0"`
	PackSize  float64                        `json:"pack_size"`
	Nutrients []service.ProductNutrientInput `json:"nutrients" binding:"dive"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	product := models.Product{
		FoodID:   req.FoodID,
		StoreID:  req.StoreID,
		Brand:    req.Brand,
		Price:    req.Price,
		PackSize: req.PackSize,
	}
	if err := h.catalogService.CreateProduct(c.Request.Context(), &product, req.Nutrients); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

type productUpdateRequest struct {
	Brand     *string                        `json:"brand"`
	Price     *float64                       `json:"price"`
	PackSize  *float64                       `json:"pack_size"`
	Nutrients []service.ProductNutrientInput `json:"nutrients" binding:"dive"`
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req productUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	fields := map[string]interface{}{}
	if req.Brand != nil {
		fields["brand"] = *req.Brand
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.PackSize != nil {
		fields["pack_size"] = *req.PackSize
	}
	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, fields, req.Nutrients)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "producto eliminado correctamente"})
}
