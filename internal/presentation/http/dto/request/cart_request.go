package request

// AddCartItemRequest adds one unit of a menu item
type AddCartItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
}

// UpdateCartItemRequest changes a cart line by delta, usually +1 or -1
type UpdateCartItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}
