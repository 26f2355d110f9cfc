// Package nutrition reduces quantified food items into total calories and
// per-nutrient totals. It is pure computation with no storage dependencies.
package nutrition

// NutrientAmount is a nutrient declaration on an item, per 100 g.
type NutrientAmount struct {
	Name   string
	Per100 float64
}

// Item is anything edible with a known per-100 g profile and a consumed
// quantity in grams.
type Item struct {
	CaloriesPer100 float64
	Nutrients      []NutrientAmount
	QuantityGrams  float64
}

// Totals is the aggregated result. Nutrients is keyed by nutrient name and is
// never nil.
type Totals struct {
	Calories  float64            `json:"calorias"`
	Nutrients map[string]float64 `json:"nutrientes"`
}

// Aggregate scales each item's per-100 g values by its quantity and sums the
// contributions. Items that do not declare a nutrient contribute zero to it.
// No rounding is applied; display rounding is the caller's concern.
func Aggregate(items []Item) Totals {
	totals := Totals{Nutrients: make(map[string]float64)}
	for _, it := range items {
		factor := it.QuantityGrams / 100
		totals.Calories += it.CaloriesPer100 * factor
		for _, n := range it.Nutrients {
			totals.Nutrients[n.Name] += n.Per100 * factor
		}
	}
	return totals
}
