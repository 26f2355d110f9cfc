package models

import "time"

// Diet is a user-owned weekly meal plan. At most one diet per user may be
// active at a time; the write path in service.DietService enforces it.
type Diet struct {
	ID          uint      `gorm:"column:id_dieta;primaryKey;autoIncrement" json:"id_dieta"`
	UserID      uint      `gorm:"column:user_id;not null" json:"user_id"`
	Name        string    `gorm:"column:nombre_dieta;size:50;not null" json:"nombre_dieta"`
	Description string    `gorm:"column:descripcion;type:text" json:"descripcion"`
	Type        string    `gorm:"column:tipo_dieta;size:20;not null" json:"tipo_dieta"`
	CreatedAt   time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
	StartDate   time.Time `gorm:"column:fecha_inicio;not null" json:"fecha_inicio"`
	Active      bool      `gorm:"column:activa;not null;default:false" json:"activa"`
}

func (Diet) TableName() string { return "dieta" }

// DietFood assigns a food with a quantity to one (diet, day, meal slot) key.
// The whole set for a key is replaced on each save, never merged.
type DietFood struct {
	DietID   uint    `gorm:"column:id_dieta;primaryKey" json:"id_dieta"`
	FoodID   uint    `gorm:"column:id_alimento;primaryKey" json:"id_alimento"`
	Day      string  `gorm:"column:dia;primaryKey;size:20" json:"dia"`
	Meal     string  `gorm:"column:comida;primaryKey;size:30" json:"comida"`
	Quantity float64 `gorm:"column:cantidad;not null" json:"cantidad"`
}

func (DietFood) TableName() string { return "dieta_alimento" }

// DietRecipe is the recipe counterpart of DietFood.
type DietRecipe struct {
	DietID   uint    `gorm:"column:id_dieta;primaryKey" json:"id_dieta"`
	RecipeID uint    `gorm:"column:id_receta;primaryKey" json:"id_receta"`
	Day      string  `gorm:"column:dia;primaryKey;size:20" json:"dia"`
	Meal     string  `gorm:"column:comida;primaryKey;size:30" json:"comida"`
	Quantity float64 `gorm:"column:cantidad;not null" json:"cantidad"`
}

func (DietRecipe) TableName() string { return "dieta_receta" }
