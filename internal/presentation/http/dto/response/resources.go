package response

import (
	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// UserResponse is the public view of a staff account
type UserResponse struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Username string        `json:"username"`
	Role     enum.UserRole `json:"role"`
}

// NewUserResponse converts a user entity
func NewUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
	}
}

// MenuItemResponse is a dish as the billing screen shows it
type MenuItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	IsAvailable bool            `json:"is_available"`
	NonVeg      bool            `json:"non_veg"`
}

// NewMenuItemResponse converts a menu item entity
func NewMenuItemResponse(item *entity.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Category:    item.Category,
		IsAvailable: item.IsAvailable,
		NonVeg:      item.IsNonVeg(),
	}
}

// NewMenuResponse converts a menu listing
func NewMenuResponse(items []entity.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, len(items))
	for i := range items {
		out[i] = NewMenuItemResponse(&items[i])
	}
	return out
}
