package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/models"
)

func TestRecipeCreateResolvesIngredientsByName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)

	apple := createTestFood(t, db, "Manzana", 52, []NutrientInput{{Name: "Azúcares", Unit: "g", Amount: 10}})
	createTestFood(t, db, "Avena", 389, nil)

	recipe := &models.Recipe{Name: "Porridge", Description: "Desayuno", PrepTime: "10 min", UserID: 1}
	err := svc.Create(context.Background(), recipe, []IngredientInput{
		{FoodName: "Manzana", Quantity: 100, Unit: "g"},
		{FoodName: "Avena", Quantity: 50, Unit: "g"},
	})
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), recipe.ID)
	require.NoError(t, err)
	require.Len(t, detail.Ingredients, 2)
	assert.Equal(t, apple.ID, detail.Ingredients[0].FoodID)
	assert.Equal(t, 52, detail.Ingredients[0].Calories)
	require.Len(t, detail.Ingredients[0].Nutrients, 1)
	assert.Equal(t, "Azúcares", detail.Ingredients[0].Nutrients[0].Name)
}

func TestRecipeCreateUnknownFoodRollsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)

	createTestFood(t, db, "Manzana", 52, nil)

	recipe := &models.Recipe{Name: "Porridge", UserID: 1}
	err := svc.Create(context.Background(), recipe, []IngredientInput{
		{FoodName: "Manzana", Quantity: 100, Unit: "g"},
		{FoodName: "Quinoa", Quantity: 50, Unit: "g"},
	})

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.NotFound, appErr.Kind)
	assert.Equal(t, "alimento 'Quinoa' no encontrado", appErr.Message)

	recipes, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestRecipeUpdateReplacesIngredients(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)

	createTestFood(t, db, "Manzana", 52, nil)
	createTestFood(t, db, "Pera", 57, nil)

	recipe := &models.Recipe{Name: "Macedonia", UserID: 1}
	require.NoError(t, svc.Create(context.Background(), recipe, []IngredientInput{
		{FoodName: "Manzana", Quantity: 100, Unit: "g"},
	}))

	updated, err := svc.Update(context.Background(), recipe.ID,
		map[string]interface{}{"nombre": "Macedonia de pera"},
		[]IngredientInput{{FoodName: "Pera", Quantity: 150, Unit: "g"}})
	require.NoError(t, err)

	assert.Equal(t, "Macedonia de pera", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Pera", updated.Ingredients[0].FoodName)
	assert.Equal(t, 150.0, updated.Ingredients[0].Quantity)
}

func TestRecipeUpdateUnknownRecipeIsNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewRecipeService(db).Update(context.Background(), 42, nil, nil)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.NotFound, appErr.Kind)
	assert.Equal(t, "receta no encontrada", appErr.Message)
}

func TestRecipeListOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)

	require.NoError(t, svc.Create(context.Background(), &models.Recipe{Name: "Tortilla", UserID: 1}, nil))
	require.NoError(t, svc.Create(context.Background(), &models.Recipe{Name: "Gazpacho", UserID: 1}, nil))

	recipes, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Gazpacho", recipes[0].Name)
	assert.Equal(t, "Tortilla", recipes[1].Name)
}

func TestRecipeDeleteCascadesIngredients(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)

	createTestFood(t, db, "Manzana", 52, nil)
	recipe := &models.Recipe{Name: "Compota", UserID: 1}
	require.NoError(t, svc.Create(context.Background(), recipe, []IngredientInput{
		{FoodName: "Manzana", Quantity: 300, Unit: "g"},
	}))

	require.NoError(t, svc.Delete(context.Background(), recipe.ID))

	var links int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("id_receta = ?", recipe.ID).Count(&links).Error)
	assert.Zero(t, links)
}

func TestRecipeDeleteInUseByDietConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)

	recipe := &models.Recipe{Name: "Compota", UserID: 1}
	require.NoError(t, svc.Create(context.Background(), recipe, nil))

	diet := &models.Diet{UserID: 1, Name: "Volumen", Type: "hipercalórica"}
	require.NoError(t, NewDietService(db).Create(context.Background(), diet))
	require.NoError(t, NewDietContentService(db).SaveMealSlot(context.Background(), diet.ID, "Lunes", "Comida",
		nil, []RecipeEntry{{RecipeID: recipe.ID, Quantity: 1}}))

	err := svc.Delete(context.Background(), recipe.ID)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Conflict, appErr.Kind)
}
