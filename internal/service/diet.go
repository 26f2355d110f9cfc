package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/models"
)

// DietService manages diets and the one-active-diet-per-user invariant.
type DietService struct {
	db *gorm.DB
}

func NewDietService(db *gorm.DB) *DietService {
	return &DietService{db: db}
}

// DietOwner is the owner projection embedded in diet listings.
type DietOwner struct {
	ID   uint   `json:"id_user"`
	Name string `json:"nombre"`
}

// DietWithOwner is a diet joined with basic owner info for display.
type DietWithOwner struct {
	models.Diet
	Owner DietOwner `json:"usuario"`
}

// List returns all diets, active ones first, newest first within each group,
// each with its owner's name.
func (s *DietService) List(ctx context.Context) ([]DietWithOwner, error) {
	var diets []models.Diet
	err := s.db.WithContext(ctx).
		Order("activa DESC").
		Order("fecha_creacion DESC").
		Find(&diets).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}

	ownerIDs := make([]uint, 0, len(diets))
	for _, d := range diets {
		ownerIDs = append(ownerIDs, d.UserID)
	}
	owners := map[uint]string{}
	if len(ownerIDs) > 0 {
		var users []models.User
		if err := s.db.WithContext(ctx).Where("id IN ?", ownerIDs).Find(&users).Error; err != nil {
			return nil, apperror.FromDB(err, "")
		}
		for _, u := range users {
			owners[u.ID] = u.Username
		}
	}

	result := make([]DietWithOwner, 0, len(diets))
	for _, d := range diets {
		result = append(result, DietWithOwner{
			Diet:  d,
			Owner: DietOwner{ID: d.UserID, Name: owners[d.UserID]},
		})
	}
	return result, nil
}

// Create stores a new, inactive diet owned by the given user.
func (s *DietService) Create(ctx context.Context, diet *models.Diet) error {
	if diet.StartDate.IsZero() {
		diet.StartDate = time.Now()
	}
	diet.Active = false
	return apperror.FromDB(s.db.WithContext(ctx).Create(diet).Error, "")
}

// SetActive toggles a diet's activation. Activating deactivates every other
// diet of the same owner and refreshes the start date; both writes run in one
// transaction so the at-most-one-active invariant holds even under concurrent
// calls. Deactivating touches only the target.
func (s *DietService) SetActive(ctx context.Context, dietID uint, active bool) (*models.Diet, error) {
	var diet models.Diet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&diet, dietID).Error; err != nil {
			return err
		}
		if active {
			err := tx.Model(&models.Diet{}).
				Where("user_id = ? AND id_dieta <> ?", diet.UserID, diet.ID).
				Update("activa", false).Error
			if err != nil {
				return err
			}
			now := time.Now()
			if err := tx.Model(&diet).Updates(map[string]interface{}{
				"activa":       true,
				"fecha_inicio": now,
			}).Error; err != nil {
				return err
			}
			diet.Active = true
			diet.StartDate = now
			return nil
		}
		if err := tx.Model(&diet).Update("activa", false).Error; err != nil {
			return err
		}
		diet.Active = false
		return nil
	})
	if err != nil {
		return nil, apperror.FromDB(err, "dieta no encontrada")
	}
	return &diet, nil
}

// Delete removes a diet and all its day/meal content. Deleting an unknown
// diet is NotFound, never a silent success.
func (s *DietService) Delete(ctx context.Context, dietID uint) error {
	return apperror.FromDB(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_dieta = ?", dietID).Delete(&models.DietFood{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id_dieta = ?", dietID).Delete(&models.DietRecipe{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Diet{}, dietID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}), "dieta no encontrada")
}
