package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/nutrition"
)

// DietContentService reads and rewrites the food/recipe assignments of one
// (diet, day, meal slot) key at a time.
type DietContentService struct {
	db *gorm.DB
}

func NewDietContentService(db *gorm.DB) *DietContentService {
	return &DietContentService{db: db}
}

// SlotItem is one assigned food or recipe with its display name.
type SlotItem struct {
	ID       uint    `json:"id"`
	Name     string  `json:"nombre"`
	Quantity float64 `json:"cantidad"`
}

// SlotContent is everything assigned to one (diet, day, meal slot) key.
// Empty slots yield empty arrays, not null.
type SlotContent struct {
	Foods   []SlotItem `json:"alimentos"`
	Recipes []SlotItem `json:"recetas"`
}

// FoodEntry and RecipeEntry are the write-side rows of a slot save.
type FoodEntry struct {
	FoodID   uint    `json:"id_alimento" binding:"required"`
	Quantity float64 `json:"cantidad" binding:"required,gt=0"`
}

type RecipeEntry struct {
	RecipeID uint    `json:"id_receta" binding:"required"`
	Quantity float64 `json:"cantidad" binding:"required,gt=0"`
}

// GetMealSlot returns the slot's assignments joined to food/recipe names. A
// dangling reference keeps a placeholder name rather than failing the read.
func (s *DietContentService) GetMealSlot(ctx context.Context, dietID uint, day, meal string) (*SlotContent, error) {
	content := &SlotContent{Foods: []SlotItem{}, Recipes: []SlotItem{}}

	err := s.db.WithContext(ctx).Table("dieta_alimento").
		Select("dieta_alimento.id_alimento AS id, alimento.nombre_alimento AS name, dieta_alimento.cantidad AS quantity").
		Joins("LEFT JOIN alimento ON alimento.id_alimento = dieta_alimento.id_alimento").
		Where("dieta_alimento.id_dieta = ? AND dieta_alimento.dia = ? AND dieta_alimento.comida = ?", dietID, day, meal).
		Scan(&content.Foods).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}

	err = s.db.WithContext(ctx).Table("dieta_receta").
		Select("dieta_receta.id_receta AS id, receta.nombre AS name, dieta_receta.cantidad AS quantity").
		Joins("LEFT JOIN receta ON receta.id_receta = dieta_receta.id_receta").
		Where("dieta_receta.id_dieta = ? AND dieta_receta.dia = ? AND dieta_receta.comida = ?", dietID, day, meal).
		Scan(&content.Recipes).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}

	for i := range content.Foods {
		if content.Foods[i].Name == "" {
			content.Foods[i].Name = "Alimento"
		}
	}
	for i := range content.Recipes {
		if content.Recipes[i].Name == "" {
			content.Recipes[i].Name = "Receta"
		}
	}
	return content, nil
}

// SaveMealSlot replaces the slot's content wholesale: existing rows for the
// exact key are deleted, then the submitted rows inserted, all in one
// transaction. Empty input clears the slot. Any failure rolls back fully.
func (s *DietContentService) SaveMealSlot(ctx context.Context, dietID uint, day, meal string, foods []FoodEntry, recipes []RecipeEntry) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id_dieta = ? AND dia = ? AND comida = ?", dietID, day, meal).
			Delete(&models.DietFood{}).Error
		if err != nil {
			return err
		}
		err = tx.Where("id_dieta = ? AND dia = ? AND comida = ?", dietID, day, meal).
			Delete(&models.DietRecipe{}).Error
		if err != nil {
			return err
		}

		for _, f := range foods {
			row := models.DietFood{
				DietID:   dietID,
				FoodID:   f.FoodID,
				Day:      day,
				Meal:     meal,
				Quantity: f.Quantity,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, r := range recipes {
			row := models.DietRecipe{
				DietID:   dietID,
				RecipeID: r.RecipeID,
				Day:      day,
				Meal:     meal,
				Quantity: r.Quantity,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return apperror.FromDB(err, "")
}

// SlotNutrition resolves the slot's foods and recipe ingredients and
// aggregates their calories and nutrients. Food quantities are grams; a
// recipe's quantity multiplies its ingredients' gram amounts (servings).
func (s *DietContentService) SlotNutrition(ctx context.Context, dietID uint, day, meal string) (*nutrition.Totals, error) {
	var items []nutrition.Item

	var foodRows []models.DietFood
	err := s.db.WithContext(ctx).
		Where("id_dieta = ? AND dia = ? AND comida = ?", dietID, day, meal).
		Find(&foodRows).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}
	for _, row := range foodRows {
		item, err := s.foodItem(ctx, row.FoodID, row.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	var recipeRows []models.DietRecipe
	err = s.db.WithContext(ctx).
		Where("id_dieta = ? AND dia = ? AND comida = ?", dietID, day, meal).
		Find(&recipeRows).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}
	for _, row := range recipeRows {
		var ingredients []models.RecipeIngredient
		err := s.db.WithContext(ctx).Where("id_receta = ?", row.RecipeID).Find(&ingredients).Error
		if err != nil {
			return nil, apperror.FromDB(err, "")
		}
		for _, ing := range ingredients {
			item, err := s.foodItem(ctx, ing.FoodID, ing.Quantity*row.Quantity)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	totals := nutrition.Aggregate(items)
	return &totals, nil
}

func (s *DietContentService) foodItem(ctx context.Context, foodID uint, grams float64) (nutrition.Item, error) {
	var food models.Food
	if err := s.db.WithContext(ctx).First(&food, foodID).Error; err != nil {
		return nutrition.Item{}, apperror.FromDB(err, "alimento no encontrado")
	}

	type row struct {
		Name   string
		Amount float64
	}
	var rows []row
	err := s.db.WithContext(ctx).Table("alimento_nutriente").
		Select("nutriente.nombre_nutriente AS name, alimento_nutriente.cantidad AS amount").
		Joins("JOIN nutriente ON nutriente.id_nutriente = alimento_nutriente.id_nutriente").
		Where("alimento_nutriente.id_alimento = ?", foodID).
		Scan(&rows).Error
	if err != nil {
		return nutrition.Item{}, apperror.FromDB(err, "")
	}

	item := nutrition.Item{
		CaloriesPer100: float64(food.Calories),
		QuantityGrams:  grams,
	}
	for _, r := range rows {
		item.Nutrients = append(item.Nutrients, nutrition.NutrientAmount{Name: r.Name, Per100: r.Amount})
	}
	return item, nil
}
