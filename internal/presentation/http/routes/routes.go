package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restobill-api/internal/config"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	domainRepo "github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/internal/presentation/http/handler"
	"github.com/sangkips/restobill-api/internal/presentation/http/middleware"
	"github.com/sangkips/restobill-api/internal/presentation/ws"
	"github.com/sangkips/restobill-api/pkg/logger"
	"github.com/sangkips/restobill-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Menu     *handler.MenuHandler
	Cart     *handler.CartHandler
	Bill     *handler.BillHandler
	Report   *handler.ReportHandler
	Settings *handler.SettingsHandler
	Printer  *handler.PrinterHandler
	Sync     *handler.SyncHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Hub             *ws.Hub
	Log             *logger.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// the websocket handshake authenticates with ?token=
	router.GET("/ws/bills", ws.ServeWS(deps.Hub, deps.JWTManager))

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(deps.RateLimiter.Middleware())
		public.POST("/auth/login", h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)

		admin := protected.Group("")
		admin.Use(middleware.RequireRole(enum.UserRoleAdmin))

		registerAdminRoutes(admin, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)

	// Menu
	menu := protected.Group("/menu")
	{
		menu.GET("", h.Menu.List)
		menu.GET("/categories", h.Menu.Categories)
		menu.GET("/:id", h.Menu.Get)
	}

	// Cart
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items/:id", h.Cart.UpdateItem)
		cart.DELETE("/items/:id", h.Cart.RemoveItem)
	}

	// Bills
	bills := protected.Group("/bills")
	{
		bills.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Bill.Save)
		bills.GET("/:id", h.Bill.Get)
		bills.GET("/:id/receipt", h.Bill.Receipt)
		bills.GET("/:id/receipt.pdf", h.Bill.ReceiptPDF)
		bills.POST("/:id/print", h.Bill.Reprint)
	}

	// Bill numbers
	protected.GET("/bill-number", h.Bill.Numbers)
	protected.PUT("/bill-number", h.Bill.OverrideNumber)

	// Reports
	reports := protected.Group("/reports")
	{
		reports.GET("", h.Report.Get)
		reports.GET("/bills", h.Report.ListBills)
		reports.GET("/export", h.Report.Export)
		reports.POST("/import", h.Report.Import)
		reports.POST("/print-range", h.Report.PrintRange)
	}

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)

	// Printer
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}

	protected.GET("/sync", h.Sync.Status)
}

func registerAdminRoutes(admin *gin.RouterGroup, h *Handlers) {
	admin.PUT("/settings", h.Settings.UpdateSettings)
	admin.POST("/menu/reset", h.Menu.Reset)
	admin.POST("/users", h.Auth.CreateUser)
	admin.POST("/sync", h.Sync.Sync)
}
