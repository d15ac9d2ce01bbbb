package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/billing"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/pkg/apperror"
)

// CartView is a cart with its totals under the current tax rates
type CartView struct {
	Items     []entity.BillItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Totals    billing.Totals    `json:"totals"`
}

// CartService keeps one in-progress cart per signed-in user. Carts live in
// memory and are lost on restart.
type CartService struct {
	menuRepo     repository.MenuRepository
	settingsRepo repository.SettingsRepository

	mu    sync.Mutex
	carts map[uuid.UUID]*billing.Cart
}

// NewCartService creates a new cart service
func NewCartService(menuRepo repository.MenuRepository, settingsRepo repository.SettingsRepository) *CartService {
	return &CartService{
		menuRepo:     menuRepo,
		settingsRepo: settingsRepo,
		carts:        make(map[uuid.UUID]*billing.Cart),
	}
}

// cart returns the user's cart; the caller must hold s.mu
func (s *CartService) cart(userID uuid.UUID) *billing.Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = billing.NewCart()
		s.carts[userID] = c
	}
	return c
}

// AddItem puts one unit of a menu item in the user's cart
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, menuItemID string) (*CartView, error) {
	item, err := s.menuRepo.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	if !item.IsAvailable {
		return nil, apperror.NewBadRequestError(item.Name + " is not available")
	}

	s.mu.Lock()
	s.cart(userID).Add(*item)
	s.mu.Unlock()

	return s.ViewCart(ctx, userID)
}

// UpdateQuantity changes a line by delta. Dropping below 1 is rejected.
func (s *CartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, menuItemID string, delta int) (*CartView, error) {
	s.mu.Lock()
	_, err := s.cart(userID).UpdateQuantity(menuItemID, delta)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return s.ViewCart(ctx, userID)
}

// RemoveItem deletes a line from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, menuItemID string) (*CartView, error) {
	s.mu.Lock()
	removed := s.cart(userID).Remove(menuItemID)
	s.mu.Unlock()
	if !removed {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	return s.ViewCart(ctx, userID)
}

// ClearCart empties the user's cart
func (s *CartService) ClearCart(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// Items returns a copy of the user's cart lines
func (s *CartService) Items(userID uuid.UUID) []entity.BillItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		return c.Items()
	}
	return []entity.BillItem{}
}

// ViewCart returns the user's cart with totals
func (s *CartService) ViewCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	items := s.Items(userID)
	return &CartView{
		Items:     items,
		ItemCount: len(items),
		Totals:    billing.CalculateTotals(items, billing.RatesFromSettings(settings)),
	}, nil
}
