package models

import "time"

// CatalogFood is a generic ingredient from the `foods` catalog, independent of
// the pantry-level Food entries in `alimento`.
type CatalogFood struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Category  string    `gorm:"size:30;not null" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CatalogFood) TableName() string { return "foods" }

type Store struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

func (Store) TableName() string { return "stores" }

// Unit of measure. ToBaseFactor converts one unit to the base unit of its
// dimension (grams or milliliters).
type Unit struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"size:30;not null;uniqueIndex" json:"name"`
	Abbreviation string  `gorm:"size:10;not null" json:"abbreviation"`
	ToBaseFactor float64 `gorm:"not null;default:1" json:"to_base_factor"`
}

func (Unit) TableName() string { return "units" }

type MealType struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`
}

func (MealType) TableName() string { return "meal_types" }

// Product is a concrete offering of a catalog food at a store.
type Product struct {
	ID        uint      `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	FoodID    uint      `gorm:"not null" json:"food_id"`
	StoreID   uint      `gorm:"not null" json:"store_id"`
	Brand     string    `gorm:"size:50" json:"brand"`
	Price     float64   `json:"price"`
	PackSize  float64   `json:"pack_size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// ProductNutrient stores the amount of a nutrient per 100 g of a product.
type ProductNutrient struct {
	ProductID  uint    `gorm:"column:product_id;primaryKey" json:"product_id"`
	NutrientID uint    `gorm:"column:nutrient_id;primaryKey" json:"nutrient_id"`
	Amount     float64 `gorm:"type:decimal(8,4)" json:"amount"`
}

func (ProductNutrient) TableName() string { return "product_nutrients" }
