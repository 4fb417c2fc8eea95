package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Category is the meal category of a dish
type Category string

const (
	CategoryChicken    Category = "chicken"
	CategoryFish       Category = "fish"
	CategoryMeat       Category = "meat"
	CategoryVegan      Category = "vegan"
	CategoryVegetarian Category = "vegetarian"
)

// IsVegan reports whether the category may fill a vegan slot
func (c Category) IsVegan() bool {
	return c == CategoryVegan
}

// IsNonVegan reports whether the category may fill one of the last two slots
func (c Category) IsNonVegan() bool {
	switch c {
	case CategoryChicken, CategoryFish, CategoryMeat, CategoryVegetarian:
		return true
	}
	return false
}

// MealID identifies a dish within a recommendation payload. The service
// sends numbers; strings and null are tolerated.
type MealID string

// UnmarshalJSON accepts a number, a string or null
func (id *MealID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MealID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid meal id %s: %w", data, err)
	}
	if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
		*id = MealID(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*id = MealID(n.String())
	return nil
}

// Dish is a candidate dish for one restaurant and day, as sent by the service
type Dish struct {
	MealID        MealID   `json:"meal_id"`
	Name          string   `json:"dish"`
	Category      Category `json:"category"`
	PiecesPerDish float64  `json:"pcs_per_dish"`
	CO2           float64  `json:"co2"`
	Waste         float64  `json:"waste"`
	Restaurant    Location `json:"restaurant"`
}

// MenuInfo is one ranked menu of a recommendation payload
type MenuInfo struct {
	Dish1       MealID  `json:"dish_1"`
	Dish2       MealID  `json:"dish_2"`
	Dish3       MealID  `json:"dish_3"`
	Dish4       MealID  `json:"dish_4"`
	TotalPieces float64 `json:"total_pcs_from_dishes"`
	TotalWaste  float64 `json:"total_waste"`
	TotalCO2    float64 `json:"total_co2"`
}

// DishIDs returns the four referenced meal ids in slot order
func (m MenuInfo) DishIDs() [MenuSlots]MealID {
	return [MenuSlots]MealID{m.Dish1, m.Dish2, m.Dish3, m.Dish4}
}

// Recommendation is the payload of the recommendation endpoint
type Recommendation struct {
	Dishes []Dish     `json:"dishes_info"`
	Menus  []MenuInfo `json:"menus_info"`
}

// DishesFor keeps the dishes served at one restaurant
func (r *Recommendation) DishesFor(loc Location) []Dish {
	var dishes []Dish
	for _, d := range r.Dishes {
		if d.Restaurant == loc {
			dishes = append(dishes, d)
		}
	}
	return dishes
}

// MenuSlots is the number of dishes on a menu
const MenuSlots = 4

// UnknownDishName replaces a dish id that has no entry in dishes_info
const UnknownDishName = "Unknown Dish"

// Menu is a ranked menu with four optional dish slots. Slots 0 and 1 hold
// vegan dishes, slots 2 and 3 hold the other categories.
type Menu struct {
	Rank        int              `json:"rank"`
	Slots       [MenuSlots]*Dish `json:"slots"`
	TotalPieces float64          `json:"total_pieces"`
	TotalWaste  float64          `json:"total_waste"`
	TotalCO2    float64          `json:"total_co2"`
}

// SlotAccepts reports whether a dish of the category may fill the slot
func SlotAccepts(slot int, c Category) bool {
	switch slot {
	case 0, 1:
		return c.IsVegan()
	case 2, 3:
		return c.IsNonVegan()
	}
	return false
}

// ValidateSlot checks slot bounds and the category constraint
func ValidateSlot(slot int, dish *Dish) error {
	if slot < 0 || slot >= MenuSlots {
		return NewValidationError("slot", fmt.Sprintf("slot must be between 1 and %d", MenuSlots))
	}
	if dish != nil && !SlotAccepts(slot, dish.Category) {
		if slot < 2 {
			return NewValidationError("slot", fmt.Sprintf("slot %d only accepts vegan dishes", slot+1))
		}
		return NewValidationError("slot", fmt.Sprintf("slot %d does not accept vegan dishes", slot+1))
	}
	return nil
}

// FindDish looks up a meal id among the given dishes
func FindDish(dishes []Dish, id MealID) *Dish {
	if id == "" {
		return nil
	}
	for i := range dishes {
		if dishes[i].MealID == id {
			d := dishes[i]
			return &d
		}
	}
	return nil
}
