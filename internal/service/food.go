package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/models"
)

// FoodService manages the pantry of foods and their nutrient links.
type FoodService struct {
	db *gorm.DB
}

func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

// NutrientInput declares one nutrient on a food being created, per 100 g.
type NutrientInput struct {
	Name   string  `json:"nombre_nutriente" binding:"required"`
	Unit   string  `json:"unidad" binding:"required"`
	Amount float64 `json:"cantidad"`
}

// FoodName is the list-view projection of a food.
type FoodName struct {
	ID   uint   `json:"id_alimento"`
	Name string `json:"nombre_alimento"`
}

// FoodNutrientDetail is a nutrient as attached to a specific food.
type FoodNutrientDetail struct {
	ID     uint    `json:"id_nutriente"`
	Name   string  `json:"nombre_nutriente"`
	Unit   string  `json:"unidad"`
	Amount float64 `json:"cantidad"`
}

// FoodDetail is a food with its full nutrient profile.
type FoodDetail struct {
	models.Food
	Nutrients []FoodNutrientDetail `json:"nutrientes"`
}

// Create stores the food and links each declared nutrient, creating nutrients
// that do not exist yet. Everything happens in one transaction.
func (s *FoodService) Create(ctx context.Context, food *models.Food, nutrients []NutrientInput) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(food).Error; err != nil {
			return err
		}
		for _, in := range nutrients {
			var nutrient models.Nutrient
			err := tx.Where("nombre_nutriente = ?", in.Name).First(&nutrient).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				nutrient = models.Nutrient{Name: in.Name, Unit: in.Unit}
				err = tx.Create(&nutrient).Error
			}
			if err != nil {
				return err
			}
			link := models.FoodNutrient{
				FoodID:     food.ID,
				NutrientID: nutrient.ID,
				Amount:     in.Amount,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return apperror.FromDB(err, "")
}

// ListNames returns id and name of every food, for pickers.
func (s *FoodService) ListNames(ctx context.Context) ([]FoodName, error) {
	names := []FoodName{}
	err := s.db.WithContext(ctx).Model(&models.Food{}).
		Select("id_alimento AS id, nombre_alimento AS name").
		Order("nombre_alimento ASC").
		Scan(&names).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return names, nil
}

// GetByName resolves a food by its exact name, including nutrients.
func (s *FoodService) GetByName(ctx context.Context, name string) (*FoodDetail, error) {
	var food models.Food
	err := s.db.WithContext(ctx).Where("nombre_alimento = ?", name).First(&food).Error
	if err != nil {
		return nil, apperror.FromDB(err, fmt.Sprintf("alimento '%s' no encontrado", name))
	}
	return s.detail(ctx, food)
}

// Get resolves a food by id, including nutrients.
func (s *FoodService) Get(ctx context.Context, id uint) (*FoodDetail, error) {
	var food models.Food
	if err := s.db.WithContext(ctx).First(&food, id).Error; err != nil {
		return nil, apperror.FromDB(err, "alimento no encontrado")
	}
	return s.detail(ctx, food)
}

// Delete removes a food. A food referenced by any recipe or diet slot is in
// use and cannot be deleted.
func (s *FoodService) Delete(ctx context.Context, id uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
		Where("id_alimento = ?", id).Count(&count).Error
	if err != nil {
		return apperror.FromDB(err, "")
	}
	if count > 0 {
		return apperror.New(apperror.Conflict, "el alimento está en uso por una receta")
	}
	err = s.db.WithContext(ctx).Model(&models.DietFood{}).
		Where("id_alimento = ?", id).Count(&count).Error
	if err != nil {
		return apperror.FromDB(err, "")
	}
	if count > 0 {
		return apperror.New(apperror.Conflict, "el alimento está en uso por una dieta")
	}

	return apperror.FromDB(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_alimento = ?", id).Delete(&models.FoodNutrient{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Food{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}), "alimento no encontrado")
}

func (s *FoodService) detail(ctx context.Context, food models.Food) (*FoodDetail, error) {
	nutrients := []FoodNutrientDetail{}
	err := s.db.WithContext(ctx).Table("alimento_nutriente").
		Select("nutriente.id_nutriente AS id, nutriente.nombre_nutriente AS name, nutriente.unidad AS unit, alimento_nutriente.cantidad AS amount").
		Joins("JOIN nutriente ON nutriente.id_nutriente = alimento_nutriente.id_nutriente").
		Where("alimento_nutriente.id_alimento = ?", food.ID).
		Scan(&nutrients).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return &FoodDetail{Food: food, Nutrients: nutrients}, nil
}
