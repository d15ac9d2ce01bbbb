package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/pkg/apperror"
)

// Quick filters match on the dish name and replace category and search.
var quickFilters = map[string]*regexp.Regexp{
	"egg":     regexp.MustCompile(`(?i)egg`),
	"chicken": regexp.MustCompile(`(?i)chicken`),
	"paneer":  regexp.MustCompile(`(?i)paneer|panner`),
	"panner":  regexp.MustCompile(`(?i)paneer|panner`),
}

// MenuService handles menu browsing
type MenuService struct {
	menuRepo    repository.MenuRepository
	defaultMenu func() []entity.MenuItem
}

// NewMenuService creates a new menu service. defaultMenu builds the menu
// that Reset restores.
func NewMenuService(menuRepo repository.MenuRepository, defaultMenu func() []entity.MenuItem) *MenuService {
	return &MenuService{
		menuRepo:    menuRepo,
		defaultMenu: defaultMenu,
	}
}

// MenuFilter narrows and orders the menu listing
type MenuFilter struct {
	Category string // "" or "all" means every category
	Search   string
	Quick    string // all, egg, chicken or paneer
	Sort     string // asc, desc or "" for menu order
}

// ListMenu returns the menu items matching filter
func (s *MenuService) ListMenu(ctx context.Context, filter MenuFilter) ([]entity.MenuItem, error) {
	quick := strings.ToLower(strings.TrimSpace(filter.Quick))
	var quickPattern *regexp.Regexp
	if quick != "" && quick != "all" {
		p, ok := quickFilters[quick]
		if !ok {
			return nil, apperror.NewBadRequestError("Unknown quick filter, use egg, chicken or paneer")
		}
		quickPattern = p
	}

	order := strings.ToLower(strings.TrimSpace(filter.Sort))
	if order != "" && order != "asc" && order != "desc" {
		return nil, apperror.NewBadRequestError("Sort must be asc or desc")
	}

	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.MenuItem, 0, len(items))
	for _, item := range items {
		if quickPattern != nil {
			if quickPattern.MatchString(item.Name) {
				filtered = append(filtered, item)
			}
			continue
		}
		if matchesCategory(item, filter.Category) && matchesSearch(item, filter.Search) {
			filtered = append(filtered, item)
		}
	}

	if order != "" {
		sort.SliceStable(filtered, func(i, j int) bool {
			a, b := strings.ToLower(filtered[i].Name), strings.ToLower(filtered[j].Name)
			if order == "desc" {
				return a > b
			}
			return a < b
		})
	}

	return filtered, nil
}

func matchesCategory(item entity.MenuItem, category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || strings.EqualFold(category, "all") || item.Category == category
}

func matchesSearch(item entity.MenuItem, search string) bool {
	return strings.Contains(strings.ToLower(item.Name), strings.ToLower(strings.TrimSpace(search)))
}

// Categories returns the distinct categories in menu order
func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories, nil
}

// GetMenuItem retrieves one menu item
func (s *MenuService) GetMenuItem(ctx context.Context, id string) (*entity.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	return item, nil
}

// ResetMenu replaces the stored menu with the default menu
func (s *MenuService) ResetMenu(ctx context.Context) (int, error) {
	items := s.defaultMenu()
	if err := s.menuRepo.ReplaceAll(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}
