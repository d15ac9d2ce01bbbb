package database

import (
	"strconv"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type seedItem struct {
	name     string
	price    int64
	category string
}

var defaultMenu = []seedItem{
	// Starters
	{"Gobi Manchurian", 100, "Starters"},
	{"Gobi Masala", 100, "Starters"},
	{"Mushroom Fry", 100, "Starters"},
	{"Mushroom Manchurian", 120, "Starters"},
	{"Mushroom Pepper Fry", 120, "Starters"},
	{"Chilly Chicken", 80, "Starters"},
	{"Gobi Chilly", 70, "Starters"},
	{"Mushroom Chilly", 70, "Starters"},
	{"Boiled Egg", 15, "Starters"},
	{"Omelette", 15, "Starters"},
	{"Kalaki", 15, "Starters"},
	{"Full Boil", 15, "Starters"},
	{"Egg Poriyal", 25, "Starters"},
	{"Kullumbu Kalaki", 15, "Starters"},
	// Tiffen
	{"Tiffen", 50, "Tiffen"},
	{"Amount", 10, "Tiffen"},
	{"Pongal", 50, "Tiffen"},
	{"Poori", 25, "Tiffen"},
	// Dosa
	{"Dosa", 15, "Dosa"},
	{"Kal Dosa", 15, "Dosa"},
	{"Egg Dosa", 30, "Dosa"},
	{"Chicken Roast", 120, "Dosa"},
	{"Egg Kal Dosa", 30, "Dosa"},
	{"Egg Roast", 70, "Dosa"},
	{"Ghee Dosa", 40, "Dosa"},
	{"Ghee Roast", 70, "Dosa"},
	{"Roast", 50, "Dosa"},
	{"Uthappam", 30, "Dosa"},
	{"Kari Dosa", 120, "Dosa"},
	{"Podi Dosa", 30, "Dosa"},
	{"Podi Roast", 70, "Dosa"},
	{"Masala Roast", 80, "Dosa"},
	{"Mushroom Roast", 100, "Dosa"},
	{"Onion Dosa", 30, "Dosa"},
	{"Onion Kal Dosa", 30, "Dosa"},
	{"Onion Roast", 70, "Dosa"},
	{"Onion Uthappam", 70, "Dosa"},
	{"Panner Roast", 120, "Dosa"},
	// Rice
	{"Meals", 70, "Rice"},
	{"Tomato Rice", 50, "Rice"},
	// Biryani
	{"Egg Biryani", 80, "Biryani"},
	{"Chicken Biryani", 100, "Biryani"},
	{"MT Biryani", 70, "Biryani"},
	{"Veg Biryani", 60, "Biryani"},
	// Parotta
	{"Bun Parotta", 20, "Parotta"},
	{"Parotta", 15, "Parotta"},
	{"Kothu Parotta", 70, "Parotta"},
	{"Chappathi", 15, "Parotta"},
	{"Chicken Kothu Parotta", 120, "Parotta"},
	{"Egg Lappa", 80, "Parotta"},
	{"Chicken Lappa", 120, "Parotta"},
	{"Veechu Parotta", 20, "Parotta"},
	{"Egg Veechu Parotta", 40, "Parotta"},
	{"Chilly Parotta", 50, "Parotta"},
	{"Chicken Leaf Parotta", 150, "Parotta"},
	// Noodles
	{"Chicken Noodles", 100, "Noodles"},
	{"Veg Noodles", 70, "Noodles"},
	{"Egg Noodles", 80, "Noodles"},
	{"Gobi Noodles", 90, "Noodles"},
	{"Mushroom Noodles", 100, "Noodles"},
	{"Panner Noodles", 100, "Noodles"},
	// Fried Rice
	{"Chicken Rice", 100, "Fried Rice"},
	{"Egg Rice", 80, "Fried Rice"},
	{"Jeera Rice", 90, "Fried Rice"},
	{"Gobi Rice", 90, "Fried Rice"},
	{"Veg Rice", 70, "Fried Rice"},
	{"Mushroom Rice", 100, "Fried Rice"},
	{"Panner Rice", 100, "Fried Rice"},
	// Veg Gravy
	{"Mushroom Gravy", 120, "Veg Gravy"},
	{"Panner Butter Masala", 120, "Veg Gravy"},
	{"Panner Pepper Fry", 120, "Veg Gravy"},
	// Chicken Gravy
	{"Butter Chicken Gravy", 150, "Chicken Gravy"},
	{"Pallipalayam Chicken Gravy", 140, "Chicken Gravy"},
	{"Pepper Chicken Gravy", 140, "Chicken Gravy"},
	{"Chicken Fry", 120, "Chicken Gravy"},
}

// DefaultMenu returns the menu a fresh install starts with. IDs are the
// one-based position so that resets keep cart references stable.
func DefaultMenu() []entity.MenuItem {
	items := make([]entity.MenuItem, len(defaultMenu))
	for i, s := range defaultMenu {
		items[i] = entity.MenuItem{
			ID:          strconv.Itoa(i + 1),
			Name:        s.name,
			Price:       decimal.NewFromInt(s.price),
			Category:    s.category,
			IsAvailable: true,
			Position:    i,
		}
	}
	return items
}
