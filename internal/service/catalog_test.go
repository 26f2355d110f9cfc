package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/models"
)

func TestCatalogFoodCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	food := &models.CatalogFood{Name: "Lentejas", Category: "legumbres"}
	require.NoError(t, svc.CreateFood(ctx, food))

	got, err := svc.GetFood(ctx, food.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lentejas", got.Name)

	updated, err := svc.UpdateFood(ctx, food.ID, map[string]interface{}{"category": "secos"})
	require.NoError(t, err)
	assert.Equal(t, "secos", updated.Category)

	require.NoError(t, svc.DeleteFood(ctx, food.ID))
	_, err = svc.GetFood(ctx, food.ID)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.NotFound, appErr.Kind)
}

func TestCatalogFoodListFiltersByNameAndCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateFood(ctx, &models.CatalogFood{Name: "Lentejas", Category: "legumbres"}))
	require.NoError(t, svc.CreateFood(ctx, &models.CatalogFood{Name: "Garbanzos", Category: "legumbres"}))
	require.NoError(t, svc.CreateFood(ctx, &models.CatalogFood{Name: "Arroz", Category: "cereales"}))

	foods, total, err := svc.ListFoods(ctx, "", "legumbres", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, foods, 2)

	foods, total, err = svc.ListFoods(ctx, "lent", "", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, foods, 1)
	assert.Equal(t, "Lentejas", foods[0].Name)
}

func TestCatalogListPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	for _, name := range []string{"Ibérico", "Local", "Mercado Central"} {
		require.NoError(t, svc.CreateStore(ctx, &models.Store{Name: name}))
	}

	stores, total, err := svc.ListStores(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, stores, 1)
}

func TestCatalogNutrientDeleteInUseConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	createTestFood(t, db, "Manzana", 52, []NutrientInput{{Name: "Azúcares", Unit: "g", Amount: 10}})

	var nutrient models.Nutrient
	require.NoError(t, db.Where("nombre_nutriente = ?", "Azúcares").First(&nutrient).Error)

	err := svc.DeleteNutrient(ctx, nutrient.ID)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Conflict, appErr.Kind)
}

func TestProductCreateRequiresFoodAndStore(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	product := &models.Product{FoodID: 99, StoreID: 99, Price: 1.20}
	err := svc.CreateProduct(ctx, product, nil)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.NotFound, appErr.Kind)
}

func TestProductLifecycleWithNutrients(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	food := &models.CatalogFood{Name: "Yogur", Category: "lácteos"}
	require.NoError(t, svc.CreateFood(ctx, food))
	store := &models.Store{Name: "Mercadona"}
	require.NoError(t, svc.CreateStore(ctx, store))
	protein := &models.Nutrient{Name: "Proteínas", Unit: "g"}
	require.NoError(t, svc.CreateNutrient(ctx, protein))
	sugar := &models.Nutrient{Name: "Azúcares", Unit: "g"}
	require.NoError(t, svc.CreateNutrient(ctx, sugar))

	product := &models.Product{FoodID: food.ID, StoreID: store.ID, Brand: "Hacendado", Price: 1.20, PackSize: 500}
	require.NoError(t, svc.CreateProduct(ctx, product, []ProductNutrientInput{
		{NutrientID: protein.ID, Amount: 4.1},
	}))

	detail, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, detail.Nutrients, 1)
	assert.Equal(t, protein.ID, detail.Nutrients[0].NutrientID)

	detail, err = svc.UpdateProduct(ctx, product.ID,
		map[string]interface{}{"price": 1.35},
		[]ProductNutrientInput{{NutrientID: sugar.ID, Amount: 6.0}})
	require.NoError(t, err)
	assert.Equal(t, 1.35, detail.Price)
	require.Len(t, detail.Nutrients, 1)
	assert.Equal(t, sugar.ID, detail.Nutrients[0].NutrientID)

	// The catalog food and store are now in use.
	err = svc.DeleteFood(ctx, food.ID)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Conflict, appErr.Kind)
	err = svc.DeleteStore(ctx, store.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.Conflict, appErr.Kind)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))
	var rows int64
	require.NoError(t, db.Model(&models.ProductNutrient{}).Where("product_id = ?", product.ID).Count(&rows).Error)
	assert.Zero(t, rows)

	require.NoError(t, svc.DeleteFood(ctx, food.ID))
	require.NoError(t, svc.DeleteStore(ctx, store.ID))
}

func TestUnitAndMealTypeCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	unit := &models.Unit{Name: "gramo", Abbreviation: "g", ToBaseFactor: 1}
	require.NoError(t, svc.CreateUnit(ctx, unit))
	got, err := svc.UpdateUnit(ctx, unit.ID, map[string]interface{}{"abbreviation": "gr"})
	require.NoError(t, err)
	assert.Equal(t, "gr", got.Abbreviation)
	require.NoError(t, svc.DeleteUnit(ctx, unit.ID))

	mealType := &models.MealType{Name: "Desayuno"}
	require.NoError(t, svc.CreateMealType(ctx, mealType))
	mealTypes, total, err := svc.ListMealTypes(ctx, "des", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mealTypes, 1)
	require.NoError(t, svc.DeleteMealType(ctx, mealType.ID))

	err = svc.DeleteMealType(ctx, mealType.ID)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.NotFound, appErr.Kind)
}
