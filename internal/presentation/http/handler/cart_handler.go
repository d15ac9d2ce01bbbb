package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restobill-api/internal/application/service"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/response"
)

// CartHandler handles the signed-in user's cart
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart with totals
func (h *CartHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	cart, err := h.cartService.ViewCart(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", cart)
}

// AddItem adds one unit of a menu item
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), *userID, req.MenuItemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cart)
}

// UpdateItem changes a line's quantity by delta
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), *userID, c.Param("id"), req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", cart)
}

// RemoveItem deletes a line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), *userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", cart)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	h.cartService.ClearCart(*userID)
	response.NoContent(c)
}
