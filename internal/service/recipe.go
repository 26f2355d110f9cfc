package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/models"
)

// RecipeService manages recipes and their ingredient lists. Ingredients are
// authored by food name; resolution to durable ids happens here.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// IngredientInput references a food by its human-readable name.
type IngredientInput struct {
	FoodName string  `json:"nombre_alimento" binding:"required"`
	Quantity float64 `json:"cantidad" binding:"required,gt=0"`
	Unit     string  `json:"unidad" binding:"required"`
}

// IngredientDetail is a resolved ingredient with the food's nutritional
// profile, enough for client- or server-side aggregation.
type IngredientDetail struct {
	FoodID    uint                 `json:"id_alimento"`
	FoodName  string               `json:"nombre_alimento"`
	Calories  int                  `json:"calorias"`
	Nutrients []FoodNutrientDetail `json:"nutrientes"`
	Quantity  float64              `json:"cantidad"`
	Unit      string               `json:"unidad"`
}

// RecipeDetail is a recipe with its resolved ingredient list.
type RecipeDetail struct {
	models.Recipe
	Ingredients []IngredientDetail `json:"ingredientes"`
}

// Create stores the recipe and its ingredients in one transaction. An unknown
// food name aborts the whole operation with NotFound.
func (s *RecipeService) Create(ctx context.Context, recipe *models.Recipe, ingredients []IngredientInput) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		return insertIngredients(tx, recipe.ID, ingredients)
	})
	return mapIngredientErr(err)
}

// Update replaces the recipe's attributes and its full ingredient set in one
// transaction.
func (s *RecipeService) Update(ctx context.Context, id uint, fields map[string]interface{}, ingredients []IngredientInput) (*RecipeDetail, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&recipe).Updates(fields).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("id_receta = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertIngredients(tx, id, ingredients)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "receta no encontrada")
		}
		return nil, mapIngredientErr(err)
	}
	return s.Get(ctx, id)
}

// List returns every recipe ordered by name, each with its resolved
// ingredients.
func (s *RecipeService) List(ctx context.Context) ([]RecipeDetail, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Order("nombre ASC").Find(&recipes).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}

	details := make([]RecipeDetail, 0, len(recipes))
	for _, r := range recipes {
		ingredients, err := s.ingredients(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, RecipeDetail{Recipe: r, Ingredients: ingredients})
	}
	return details, nil
}

// Get returns one recipe with resolved ingredients.
func (s *RecipeService) Get(ctx context.Context, id uint) (*RecipeDetail, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, apperror.FromDB(err, "receta no encontrada")
	}
	ingredients, err := s.ingredients(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RecipeDetail{Recipe: recipe, Ingredients: ingredients}, nil
}

// Delete removes the recipe and its ingredient links. A recipe assigned to a
// diet slot is in use and cannot be deleted.
func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.DietRecipe{}).
		Where("id_receta = ?", id).Count(&count).Error
	if err != nil {
		return apperror.FromDB(err, "")
	}
	if count > 0 {
		return apperror.New(apperror.Conflict, "la receta está en uso por una dieta")
	}

	return apperror.FromDB(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_receta = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}), "receta no encontrada")
}

// errUnknownFood distinguishes name-resolution misses from other transaction
// failures so they map to NotFound instead of 500.
type errUnknownFood struct{ name string }

func (e errUnknownFood) Error() string {
	return fmt.Sprintf("alimento '%s' no encontrado", e.name)
}

func insertIngredients(tx *gorm.DB, recipeID uint, ingredients []IngredientInput) error {
	for _, in := range ingredients {
		var food models.Food
		err := tx.Where("nombre_alimento = ?", in.FoodName).First(&food).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errUnknownFood{name: in.FoodName}
		}
		if err != nil {
			return err
		}
		link := models.RecipeIngredient{
			RecipeID: recipeID,
			FoodID:   food.ID,
			Quantity: in.Quantity,
			Unit:     in.Unit,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func mapIngredientErr(err error) error {
	var unknown errUnknownFood
	if errors.As(err, &unknown) {
		return apperror.New(apperror.NotFound, unknown.Error())
	}
	return apperror.FromDB(err, "")
}

func (s *RecipeService) ingredients(ctx context.Context, recipeID uint) ([]IngredientDetail, error) {
	type row struct {
		FoodID   uint
		FoodName string
		Calories int
		Quantity float64
		Unit     string
	}
	var rows []row
	err := s.db.WithContext(ctx).Table("receta_alimento").
		Select("receta_alimento.id_alimento AS food_id, alimento.nombre_alimento AS food_name, alimento.calorias AS calories, receta_alimento.cantidad AS quantity, receta_alimento.unidad AS unit").
		Joins("JOIN alimento ON alimento.id_alimento = receta_alimento.id_alimento").
		Where("receta_alimento.id_receta = ?", recipeID).
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}

	ingredients := make([]IngredientDetail, 0, len(rows))
	for _, r := range rows {
		nutrients := []FoodNutrientDetail{}
		err := s.db.WithContext(ctx).Table("alimento_nutriente").
			Select("nutriente.id_nutriente AS id, nutriente.nombre_nutriente AS name, nutriente.unidad AS unit, alimento_nutriente.cantidad AS amount").
			Joins("JOIN nutriente ON nutriente.id_nutriente = alimento_nutriente.id_nutriente").
			Where("alimento_nutriente.id_alimento = ?", r.FoodID).
			Scan(&nutrients).Error
		if err != nil {
			return nil, apperror.FromDB(err, "")
		}
		ingredients = append(ingredients, IngredientDetail{
			FoodID:    r.FoodID,
			FoodName:  r.FoodName,
			Calories:  r.Calories,
			Nutrients: nutrients,
			Quantity:  r.Quantity,
			Unit:      r.Unit,
		})
	}
	return ingredients, nil
}
