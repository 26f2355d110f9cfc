package models

import "time"

// Food is a pantry item from the legacy `alimento` table. Calories and
// nutrient amounts are declared per 100 g of the food.
type Food struct {
	ID        uint      `gorm:"column:id_alimento;primaryKey;autoIncrement" json:"id_alimento"`
	Name      string    `gorm:"column:nombre_alimento;size:50;not null" json:"nombre_alimento"`
	Type      string    `gorm:"column:tipo;size:50;not null" json:"tipo"`
	Store     string    `gorm:"column:supermercado;size:100;not null" json:"supermercado"`
	Brand     string    `gorm:"column:marca;size:100" json:"marca"`
	Price     float64   `gorm:"column:precio;not null" json:"precio"`
	Calories  int       `gorm:"column:calorias;not null" json:"calorias"`
	UpdatedAt time.Time `gorm:"column:ultima_actualizacion;autoUpdateTime" json:"ultima_actualizacion"`
}

func (Food) TableName() string { return "alimento" }

// Nutrient names are unique; the unit is fixed per nutrient, not per food.
type Nutrient struct {
	ID   uint   `gorm:"column:id_nutriente;primaryKey;autoIncrement" json:"id_nutriente"`
	Name string `gorm:"column:nombre_nutriente;size:50;not null;uniqueIndex" json:"nombre_nutriente"`
	Unit string `gorm:"column:unidad;size:20;not null" json:"unidad"`
}

func (Nutrient) TableName() string { return "nutriente" }

// FoodNutrient links a food to a nutrient with the amount per 100 g.
type FoodNutrient struct {
	FoodID     uint    `gorm:"column:id_alimento;primaryKey" json:"id_alimento"`
	NutrientID uint    `gorm:"column:id_nutriente;primaryKey" json:"id_nutriente"`
	Amount     float64 `gorm:"column:cantidad" json:"cantidad"`
}

func (FoodNutrient) TableName() string { return "alimento_nutriente" }
