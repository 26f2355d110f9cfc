package main

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nutriplan/backend/config"
	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/database"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
)

// Seeds the reference catalogs and an initial admin account. Safe to run more
// than once: existing rows are left alone.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()

	seedAdmin(ctx, db, cfg, logger)
	seedMealTypes(ctx, db, logger)
	seedUnits(ctx, db, logger)

	logger.Info("seed complete")
}

func seedAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	admin := &models.User{Username: "admin", Email: email, Role: models.RoleAdmin}
	_, err := service.NewAuthService(db, cfg.JWTSecret).Register(ctx, admin, password)
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind == apperror.Conflict {
		logger.Info("admin account already exists", zap.String("email", email))
		return
	}
	if err != nil {
		logger.Fatal("failed to create admin account", zap.Error(err))
	}
	logger.Info("admin account created", zap.String("email", email))
}

func seedMealTypes(ctx context.Context, db *gorm.DB, logger *zap.Logger) {
	for _, name := range []string{"Desayuno", "Almuerzo", "Comida", "Merienda", "Cena"} {
		row := models.MealType{Name: name}
		err := db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&row).Error
		if err != nil {
			logger.Fatal("failed to seed meal type", zap.String("name", name), zap.Error(err))
		}
	}
	logger.Info("meal types seeded")
}

func seedUnits(ctx context.Context, db *gorm.DB, logger *zap.Logger) {
	units := []models.Unit{
		{Name: "gramo", Abbreviation: "g", ToBaseFactor: 1},
		{Name: "kilogramo", Abbreviation: "kg", ToBaseFactor: 1000},
		{Name: "mililitro", Abbreviation: "ml", ToBaseFactor: 1},
		{Name: "litro", Abbreviation: "l", ToBaseFactor: 1000},
		{Name: "unidad", Abbreviation: "ud", ToBaseFactor: 1},
	}
	for _, unit := range units {
		row := unit
		err := db.WithContext(ctx).Where("name = ?", unit.Name).FirstOrCreate(&row).Error
		if err != nil {
			logger.Fatal("failed to seed unit", zap.String("name", unit.Name), zap.Error(err))
		}
	}
	logger.Info("units seeded")
}
