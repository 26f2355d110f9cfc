package database

import (
	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/models"
)

// Migrate creates or updates every table the application owns. The
// relationship graph is declared once, here, through the join models'
// composite keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Food{},
		&models.Nutrient{},
		&models.FoodNutrient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Diet{},
		&models.DietFood{},
		&models.DietRecipe{},
		&models.CatalogFood{},
		&models.Store{},
		&models.Unit{},
		&models.MealType{},
		&models.Product{},
		&models.ProductNutrient{},
	)
}
