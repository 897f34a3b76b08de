package routes

import (
	"net/http"

	"invoice-dashboard/config"
	"invoice-dashboard/controllers"
	"invoice-dashboard/services"
	"invoice-dashboard/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(cfg config.Config, db *gorm.DB, views *services.ViewCache) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	policy := services.SurfaceStoreErrors
	if cfg.StoreErrors == config.StoreErrorsSwallow {
		policy = services.SwallowStoreErrors
	}
	invoiceService := services.NewInvoiceService(db, views, policy)
	authService := services.NewAuthService(
		services.NewCredentialsProvider(db, cfg.JWTSecret, cfg.TokenTTL()),
	)

	authController := &controllers.AuthController{Auth: authService, CookieSecure: cfg.CookieSecure}
	invoiceController := &controllers.InvoiceController{Invoices: invoiceService, Views: views}
	customerController := &controllers.CustomerController{Invoices: invoiceService}
	dashboardController := &controllers.DashboardController{Invoices: invoiceService}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/login", authController.Login)
	r.POST("/logout", authController.Logout)

	dashboard := r.Group("/dashboard")
	dashboard.Use(utils.AuthMiddleware(cfg.JWTSecret, "/login"))
	{
		dashboard.GET("", dashboardController.GetDashboardOverview)
		dashboard.GET("/customers", customerController.GetCustomers)

		invoices := dashboard.Group("/invoices")
		{
			invoices.GET("", invoiceController.GetInvoices)
			invoices.POST("/create", invoiceController.CreateInvoice)
			invoices.GET("/:id/edit", invoiceController.GetInvoice)
			invoices.POST("/:id/edit", invoiceController.UpdateInvoice)
			invoices.PUT("/:id", invoiceController.UpdateInvoice)
			invoices.POST("/:id/delete", invoiceController.DeleteInvoice)
			invoices.DELETE("/:id", invoiceController.DeleteInvoice)
		}
	}

	return r
}
