package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restobill-api/internal/application/service"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/response"
)

// MenuHandler handles menu browsing requests
type MenuHandler struct {
	menuService *service.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// List handles listing the menu with category, search, quick filter and sort
func (h *MenuHandler) List(c *gin.Context) {
	var filter request.MenuFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	items, err := h.menuService.ListMenu(c.Request.Context(), service.MenuFilter{
		Category: filter.Category,
		Search:   filter.Search,
		Quick:    filter.Quick,
		Sort:     filter.Sort,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu retrieved successfully", response.NewMenuResponse(items))
}

// Categories lists the menu categories in menu order
func (h *MenuHandler) Categories(c *gin.Context) {
	categories, err := h.menuService.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// Get retrieves a single menu item
func (h *MenuHandler) Get(c *gin.Context) {
	item, err := h.menuService.GetMenuItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu item retrieved successfully", response.NewMenuItemResponse(item))
}

// Reset restores the default menu
func (h *MenuHandler) Reset(c *gin.Context) {
	count, err := h.menuService.ResetMenu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu reset successfully", gin.H{"count": count})
}
