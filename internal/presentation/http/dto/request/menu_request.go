package request

// MenuFilterRequest represents menu listing parameters
type MenuFilterRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Quick    string `form:"quick"`
	Sort     string `form:"sort"`
}
