package planning

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"fwowebserver/internal/forecast"
	"fwowebserver/internal/models"
)

// MaxRankedMenus is how many ranked menus a daily recommendation shows
const MaxRankedMenus = 5

// SlotOptions are the dishes a user may pick per slot group, most popular
// first
type SlotOptions struct {
	Vegan    []models.Dish `json:"vegan"`
	NonVegan []models.Dish `json:"non_vegan"`
}

// ForSlot returns the candidates for a zero-based slot
func (o SlotOptions) ForSlot(slot int) []models.Dish {
	if slot < 2 {
		return o.Vegan
	}
	return o.NonVegan
}

// MenuMetrics summarises a menu for the comparison charts
type MenuMetrics struct {
	TotalPieces      float64 `json:"total_pieces"`
	CO2PerCustomer   float64 `json:"co2_per_customer"`
	WastePerCustomer float64 `json:"waste_per_customer"`
}

// DailyRecommendation is the ranked menu set of one restaurant and day
type DailyRecommendation struct {
	Location models.Location `json:"location"`
	Date     time.Time       `json:"date"`
	Dishes   []models.Dish   `json:"dishes"`
	Menus    []models.Menu   `json:"menus"`
	Options  SlotOptions     `json:"options"`
}

// RecommendDaily fetches the recommendation of one day and maps the top
// ranked menus onto the restaurant's dishes.
func RecommendDaily(ctx context.Context, svc forecast.Service, loc models.Location, date time.Time) (*DailyRecommendation, error) {
	if !loc.IsValid() {
		return nil, models.NewValidationError("location", "unsupported restaurant "+string(loc))
	}

	rec, err := svc.Recommendation(ctx, loc, date)
	if err != nil {
		return nil, err
	}

	dishes := rec.DishesFor(loc)
	return &DailyRecommendation{
		Location: loc,
		Date:     models.DateOf(date),
		Dishes:   dishes,
		Menus:    RankedMenus(rec.Menus, dishes, MaxRankedMenus),
		Options:  BuildSlotOptions(dishes),
	}, nil
}

// RankedMenus resolves up to limit menus against dishes. Ids without a
// matching dish leave their slot empty.
func RankedMenus(infos []models.MenuInfo, dishes []models.Dish, limit int) []models.Menu {
	if len(infos) > limit {
		infos = infos[:limit]
	}
	menus := make([]models.Menu, 0, len(infos))
	for i, info := range infos {
		m := models.Menu{
			Rank:        i + 1,
			TotalPieces: info.TotalPieces,
			TotalWaste:  info.TotalWaste,
			TotalCO2:    info.TotalCO2,
		}
		for slot, id := range info.DishIDs() {
			m.Slots[slot] = models.FindDish(dishes, id)
		}
		menus = append(menus, m)
	}
	return menus
}

// BuildSlotOptions splits dishes into vegan and non-vegan candidates,
// sorted by pieces per dish, descending
func BuildSlotOptions(dishes []models.Dish) SlotOptions {
	var opts SlotOptions
	for _, d := range dishes {
		switch {
		case d.Category.IsVegan():
			opts.Vegan = append(opts.Vegan, d)
		case d.Category.IsNonVegan():
			opts.NonVegan = append(opts.NonVegan, d)
		}
	}
	byPieces := func(list []models.Dish) func(i, j int) bool {
		return func(i, j int) bool { return list[i].PiecesPerDish > list[j].PiecesPerDish }
	}
	sort.SliceStable(opts.Vegan, byPieces(opts.Vegan))
	sort.SliceStable(opts.NonVegan, byPieces(opts.NonVegan))
	return opts
}

// OverrideSlot returns a copy of menu with one slot replaced by a dish of
// the same day. The service is not asked again.
func OverrideSlot(menu models.Menu, slot int, id models.MealID, dishes []models.Dish) (models.Menu, error) {
	if err := models.ValidateSlot(slot, nil); err != nil {
		return menu, err
	}
	dish := models.FindDish(dishes, id)
	if dish == nil {
		return menu, models.NewValidationError("meal_id", fmt.Sprintf("dish %s is not offered on this day", id))
	}
	if err := models.ValidateSlot(slot, dish); err != nil {
		return menu, err
	}
	menu.Slots[slot] = dish
	return menu, nil
}

// ComputeMenuMetrics sums the pieces of a menu and averages its CO2 and
// waste per customer, weighted by pieces and rounded to two decimals.
func ComputeMenuMetrics(menu models.Menu) MenuMetrics {
	var pieces, co2, waste float64
	for _, d := range menu.Slots {
		if d == nil {
			continue
		}
		pieces += d.PiecesPerDish
		co2 += d.CO2 * d.PiecesPerDish
		waste += d.Waste * d.PiecesPerDish
	}
	if pieces <= 0 {
		return MenuMetrics{TotalPieces: pieces}
	}
	return MenuMetrics{
		TotalPieces:      pieces,
		CO2PerCustomer:   round2(co2 / pieces),
		WastePerCustomer: round2(waste / pieces),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
