package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/models"
)

func TestDietCreateStartsInactive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDietService(db)

	diet := &models.Diet{UserID: 1, Name: "Definición", Type: "hipocalórica", Active: true}
	require.NoError(t, svc.Create(context.Background(), diet))

	assert.False(t, diet.Active)
	assert.False(t, diet.StartDate.IsZero())
}

func TestDietActivationIsExclusivePerUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDietService(db)

	first := &models.Diet{UserID: 1, Name: "Definición", Type: "hipocalórica"}
	second := &models.Diet{UserID: 1, Name: "Volumen", Type: "hipercalórica"}
	other := &models.Diet{UserID: 2, Name: "Mantenimiento", Type: "equilibrada"}
	for _, d := range []*models.Diet{first, second, other} {
		require.NoError(t, svc.Create(context.Background(), d))
	}

	_, err := svc.SetActive(context.Background(), first.ID, true)
	require.NoError(t, err)
	_, err = svc.SetActive(context.Background(), other.ID, true)
	require.NoError(t, err)

	activated, err := svc.SetActive(context.Background(), second.ID, true)
	require.NoError(t, err)
	assert.True(t, activated.Active)

	// Fresh destination structs: a populated primary key would leak into the
	// reload's WHERE clause.
	var firstReloaded, otherReloaded models.Diet
	require.NoError(t, db.First(&firstReloaded, first.ID).Error)
	assert.False(t, firstReloaded.Active, "activating a diet must deactivate the owner's other diets")

	require.NoError(t, db.First(&otherReloaded, other.ID).Error)
	assert.True(t, otherReloaded.Active, "another user's active diet must be untouched")
}

func TestDietDeactivationTouchesOnlyTarget(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDietService(db)

	diet := &models.Diet{UserID: 1, Name: "Definición", Type: "hipocalórica"}
	require.NoError(t, svc.Create(context.Background(), diet))
	_, err := svc.SetActive(context.Background(), diet.ID, true)
	require.NoError(t, err)

	deactivated, err := svc.SetActive(context.Background(), diet.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)
}

func TestDietSetActiveUnknownIsNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewDietService(db).SetActive(context.Background(), 404, true)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.NotFound, appErr.Kind)
	assert.Equal(t, "dieta no encontrada", appErr.Message)
}

func TestDietListIncludesOwnerAndOrdersActiveFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDietService(db)

	user := createTestUser(t, db, "maria", "maria@example.com")

	inactive := &models.Diet{UserID: user.ID, Name: "Antigua", Type: "equilibrada"}
	active := &models.Diet{UserID: user.ID, Name: "Actual", Type: "hipocalórica"}
	require.NoError(t, svc.Create(context.Background(), inactive))
	require.NoError(t, svc.Create(context.Background(), active))
	_, err := svc.SetActive(context.Background(), active.ID, true)
	require.NoError(t, err)

	diets, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, diets, 2)
	assert.Equal(t, "Actual", diets[0].Name)
	assert.Equal(t, "maria", diets[0].Owner.Name)
	assert.Equal(t, user.ID, diets[0].Owner.ID)
}

func TestDietDeleteCascadesContent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDietService(db)

	food := createTestFood(t, db, "Arroz", 130, nil)
	diet := &models.Diet{UserID: 1, Name: "Volumen", Type: "hipercalórica"}
	require.NoError(t, svc.Create(context.Background(), diet))
	require.NoError(t, NewDietContentService(db).SaveMealSlot(context.Background(), diet.ID, "Lunes", "Comida",
		[]FoodEntry{{FoodID: food.ID, Quantity: 150}}, nil))

	require.NoError(t, svc.Delete(context.Background(), diet.ID))

	var rows int64
	require.NoError(t, db.Model(&models.DietFood{}).Where("id_dieta = ?", diet.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestDietDeleteUnknownIsNotFound(t *testing.T) {
	db := setupTestDB(t)

	err := NewDietService(db).Delete(context.Background(), 404)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.NotFound, appErr.Kind)
}
