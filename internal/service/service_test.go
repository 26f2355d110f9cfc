package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutriplan/backend/internal/database"
	"github.com/nutriplan/backend/internal/models"
)

// setupTestDB opens an in-memory sqlite database with the full schema. The
// connection pool is capped at one so every query sees the same memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestFood(t *testing.T, db *gorm.DB, name string, calories int, nutrients []NutrientInput) *models.Food {
	t.Helper()

	food := &models.Food{
		Name:     name,
		Type:     "general",
		Store:    "Mercadona",
		Price:    1.50,
		Calories: calories,
	}
	require.NoError(t, NewFoodService(db).Create(context.Background(), food, nutrients))
	return food
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: email}
	_, err := NewAuthService(db, testJWTSecret).Register(context.Background(), user, "contraseña-segura")
	require.NoError(t, err)
	return user
}

const testJWTSecret = "unit-test-secret-0123456789"
