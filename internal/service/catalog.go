package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/apperror"
	"github.com/nutriplan/backend/internal/models"
)

// CatalogService is the CRUD layer over the generic reference tables: foods,
// nutrients, stores, units, meal types and products. Reads are open to any
// authenticated user; writes are admin-gated at the route level.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	return page, limit
}

// nameLike builds a case-insensitive substring match that works on both
// postgres and sqlite.
func nameLike(query *gorm.DB, name string) *gorm.DB {
	if name == "" {
		return query
	}
	return query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
}

// --- foods ---

func (s *CatalogService) ListFoods(ctx context.Context, name, category string, page, limit int) ([]models.CatalogFood, int64, error) {
	page, limit = normalizePage(page, limit)
	query := nameLike(s.db.WithContext(ctx).Model(&models.CatalogFood{}), name)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	var foods []models.CatalogFood
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&foods).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	return foods, total, nil
}

func (s *CatalogService) GetFood(ctx context.Context, id uint) (*models.CatalogFood, error) {
	var food models.CatalogFood
	if err := s.db.WithContext(ctx).First(&food, id).Error; err != nil {
		return nil, apperror.FromDB(err, "alimento no encontrado")
	}
	return &food, nil
}

func (s *CatalogService) CreateFood(ctx context.Context, food *models.CatalogFood) error {
	return apperror.FromDB(s.db.WithContext(ctx).Create(food).Error, "")
}

func (s *CatalogService) UpdateFood(ctx context.Context, id uint, fields map[string]interface{}) (*models.CatalogFood, error) {
	food, err := s.GetFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(food).Updates(fields).Error; err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return food, nil
}

func (s *CatalogService) DeleteFood(ctx context.Context, id uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("food_id = ?", id).Count(&count).Error
	if err != nil {
		return apperror.FromDB(err, "")
	}
	if count > 0 {
		return apperror.New(apperror.Conflict, "el alimento está en uso por un producto")
	}
	return s.deleteByID(ctx, &models.CatalogFood{}, id, "alimento no encontrado")
}

// --- nutrients ---

func (s *CatalogService) ListNutrients(ctx context.Context, name string, page, limit int) ([]models.Nutrient, int64, error) {
	page, limit = normalizePage(page, limit)
	query := s.db.WithContext(ctx).Model(&models.Nutrient{})
	if name != "" {
		query = query.Where("LOWER(nombre_nutriente) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	var nutrients []models.Nutrient
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&nutrients).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	return nutrients, total, nil
}

func (s *CatalogService) GetNutrient(ctx context.Context, id uint) (*models.Nutrient, error) {
	var nutrient models.Nutrient
	if err := s.db.WithContext(ctx).First(&nutrient, id).Error; err != nil {
		return nil, apperror.FromDB(err, "nutriente no encontrado")
	}
	return &nutrient, nil
}

func (s *CatalogService) CreateNutrient(ctx context.Context, nutrient *models.Nutrient) error {
	return apperror.FromDB(s.db.WithContext(ctx).Create(nutrient).Error, "")
}

func (s *CatalogService) UpdateNutrient(ctx context.Context, id uint, fields map[string]interface{}) (*models.Nutrient, error) {
	nutrient, err := s.GetNutrient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(nutrient).Updates(fields).Error; err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return nutrient, nil
}

func (s *CatalogService) DeleteNutrient(ctx context.Context, id uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.FoodNutrient{}).
		Where("id_nutriente = ?", id).Count(&count).Error
	if err != nil {
		return apperror.FromDB(err, "")
	}
	if count == 0 {
		err = s.db.WithContext(ctx).Model(&models.ProductNutrient{}).
			Where("nutrient_id = ?", id).Count(&count).Error
		if err != nil {
			return apperror.FromDB(err, "")
		}
	}
	if count > 0 {
		return apperror.New(apperror.Conflict, "el nutriente está en uso")
	}
	return s.deleteByID(ctx, &models.Nutrient{}, id, "nutriente no encontrado")
}

// --- stores ---

func (s *CatalogService) ListStores(ctx context.Context, name string, page, limit int) ([]models.Store, int64, error) {
	page, limit = normalizePage(page, limit)
	query := nameLike(s.db.WithContext(ctx).Model(&models.Store{}), name)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	var stores []models.Store
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&stores).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	return stores, total, nil
}

func (s *CatalogService) GetStore(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := s.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, apperror.FromDB(err, "supermercado no encontrado")
	}
	return &store, nil
}

func (s *CatalogService) CreateStore(ctx context.Context, store *models.Store) error {
	return apperror.FromDB(s.db.WithContext(ctx).Create(store).Error, "")
}

func (s *CatalogService) UpdateStore(ctx context.Context, id uint, fields map[string]interface{}) (*models.Store, error) {
	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(store).Updates(fields).Error; err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return store, nil
}

func (s *CatalogService) DeleteStore(ctx context.Context, id uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("store_id = ?", id).Count(&count).Error
	if err != nil {
		return apperror.FromDB(err, "")
	}
	if count > 0 {
		return apperror.New(apperror.Conflict, "el supermercado está en uso por un producto")
	}
	return s.deleteByID(ctx, &models.Store{}, id, "supermercado no encontrado")
}

// --- units ---

func (s *CatalogService) ListUnits(ctx context.Context, name string, page, limit int) ([]models.Unit, int64, error) {
	page, limit = normalizePage(page, limit)
	query := nameLike(s.db.WithContext(ctx).Model(&models.Unit{}), name)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	var units []models.Unit
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&units).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	return units, total, nil
}

func (s *CatalogService) GetUnit(ctx context.Context, id uint) (*models.Unit, error) {
	var unit models.Unit
	if err := s.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		return nil, apperror.FromDB(err, "unidad no encontrada")
	}
	return &unit, nil
}

func (s *CatalogService) CreateUnit(ctx context.Context, unit *models.Unit) error {
	return apperror.FromDB(s.db.WithContext(ctx).Create(unit).Error, "")
}

func (s *CatalogService) UpdateUnit(ctx context.Context, id uint, fields map[string]interface{}) (*models.Unit, error) {
	unit, err := s.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(unit).Updates(fields).Error; err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return unit, nil
}

func (s *CatalogService) DeleteUnit(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Unit{}, id, "unidad no encontrada")
}

// --- meal types ---

func (s *CatalogService) ListMealTypes(ctx context.Context, name string, page, limit int) ([]models.MealType, int64, error) {
	page, limit = normalizePage(page, limit)
	query := nameLike(s.db.WithContext(ctx).Model(&models.MealType{}), name)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	var mealTypes []models.MealType
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&mealTypes).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	return mealTypes, total, nil
}

func (s *CatalogService) GetMealType(ctx context.Context, id uint) (*models.MealType, error) {
	var mealType models.MealType
	if err := s.db.WithContext(ctx).First(&mealType, id).Error; err != nil {
		return nil, apperror.FromDB(err, "tipo de comida no encontrado")
	}
	return &mealType, nil
}

func (s *CatalogService) CreateMealType(ctx context.Context, mealType *models.MealType) error {
	return apperror.FromDB(s.db.WithContext(ctx).Create(mealType).Error, "")
}

func (s *CatalogService) UpdateMealType(ctx context.Context, id uint, fields map[string]interface{}) (*models.MealType, error) {
	mealType, err := s.GetMealType(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(mealType).Updates(fields).Error; err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return mealType, nil
}

func (s *CatalogService) DeleteMealType(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.MealType{}, id, "tipo de comida no encontrado")
}

// --- products ---

// ProductNutrientInput sets one nutrient amount (per 100 g) on a product.
type ProductNutrientInput struct {
	NutrientID uint    `json:"nutrient_id" binding:"required"`
	Amount     float64 `json:"amount"`
}

// ProductDetail is a product with its nutrient amounts.
type ProductDetail struct {
	models.Product
	Nutrients []models.ProductNutrient `json:"nutrients"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	FoodID  uint
	StoreID uint
}

func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter, page, limit int) ([]models.Product, int64, error) {
	page, limit = normalizePage(page, limit)
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if filter.FoodID != 0 {
		query = query.Where("food_id = ?", filter.FoodID)
	}
	if filter.StoreID != 0 {
		query = query.Where("store_id = ?", filter.StoreID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	var products []models.Product
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "")
	}
	return products, total, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*ProductDetail, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, apperror.FromDB(err, "producto no encontrado")
	}
	nutrients := []models.ProductNutrient{}
	err := s.db.WithContext(ctx).Where("product_id = ?", id).Find(&nutrients).Error
	if err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return &ProductDetail{Product: product, Nutrients: nutrients}, nil
}

// CreateProduct stores the product and its nutrient amounts in one
// transaction. The referenced food and store must exist.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product, nutrients []ProductNutrientInput) error {
	if _, err := s.GetFood(ctx, product.FoodID); err != nil {
		return err
	}
	if _, err := s.GetStore(ctx, product.StoreID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		return replaceProductNutrients(tx, product.ID, nutrients)
	})
	return apperror.FromDB(err, "")
}

// UpdateProduct applies attribute changes and, when nutrients is non-nil,
// replaces the full nutrient set.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, fields map[string]interface{}, nutrients []ProductNutrientInput) (*ProductDetail, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&product).Updates(fields).Error; err != nil {
				return err
			}
		}
		if nutrients != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductNutrient{}).Error; err != nil {
				return err
			}
			return replaceProductNutrients(tx, id, nutrients)
		}
		return nil
	})
	if err != nil {
		return nil, apperror.FromDB(err, "producto no encontrado")
	}
	return s.GetProduct(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	return apperror.FromDB(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductNutrient{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}), "producto no encontrado")
}

func replaceProductNutrients(tx *gorm.DB, productID uint, nutrients []ProductNutrientInput) error {
	for _, in := range nutrients {
		row := models.ProductNutrient{
			ProductID:  productID,
			NutrientID: in.NutrientID,
			Amount:     in.Amount,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogService) deleteByID(ctx context.Context, model interface{}, id uint, notFoundMsg string) error {
	res := s.db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return apperror.FromDB(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apperror.New(apperror.NotFound, notFoundMsg)
	}
	return nil
}
