package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/database"
	"github.com/nutriplan/backend/internal/middleware"
	"github.com/nutriplan/backend/internal/service"
)

// SetupAPI builds all services and mounts every route group under /api.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, jwtSecret string) {
	authService := service.NewAuthService(db, jwtSecret)
	foodService := service.NewFoodService(db)
	recipeService := service.NewRecipeService(db)
	dietService := service.NewDietService(db)
	contentService := service.NewDietContentService(db)
	catalogService := service.NewCatalogService(db)

	limiter := middleware.NewCredentialRateLimiter(redisClient)

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		NewAuthHandler(authService, limiter).RegisterRoutes(api)
		NewFoodHandler(foodService, authService).RegisterRoutes(api)
		NewRecipeHandler(recipeService, authService).RegisterRoutes(api)
		NewDietHandler(dietService, authService).RegisterRoutes(api)
		NewDietContentHandler(contentService, authService).RegisterRoutes(api)
		NewCatalogHandler(catalogService, authService).RegisterRoutes(api)
	}
}

// parseID reads a numeric path parameter, attaching a Validation error on
// malformed input.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		_ = c.Error(apperror.New(apperror.Validation, "identificador inválido"))
		return 0, false
	}
	return uint(id), true
}

// intQuery reads a numeric query parameter with a fallback.
func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// bindJSON wraps ShouldBindJSON so malformed bodies map to a 400 with a
// stable message.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperror.Wrap(apperror.Validation, "cuerpo de la petición inválido", err))
		return false
	}
	return true
}
