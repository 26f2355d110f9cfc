package models

// Recipe is a user-owned dish from the legacy `receta` table. Its nutritional
// profile is never stored; it is derived from the ingredient list.
type Recipe struct {
	ID           uint   `gorm:"column:id_receta;primaryKey;autoIncrement" json:"id_receta"`
	Name         string `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Description  string `gorm:"column:descripcion;type:text" json:"descripcion"`
	Instructions string `gorm:"column:instrucciones;type:text" json:"instrucciones"`
	PrepTime     string `gorm:"column:tiempo_preparacion;size:50" json:"tiempo_preparacion"`
	UserID       uint   `gorm:"column:user_id;not null" json:"user_id"`
}

func (Recipe) TableName() string { return "receta" }

// RecipeIngredient links a recipe to a food with a quantity and unit.
type RecipeIngredient struct {
	RecipeID uint    `gorm:"column:id_receta;primaryKey" json:"id_receta"`
	FoodID   uint    `gorm:"column:id_alimento;primaryKey" json:"id_alimento"`
	Quantity float64 `gorm:"column:cantidad;not null" json:"cantidad"`
	Unit     string  `gorm:"column:unidad;size:20;not null" json:"unidad"`
}

func (RecipeIngredient) TableName() string { return "receta_alimento" }
