package router

import (
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/handler"
	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler mounted under the API prefix
type Handlers struct {
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	Tenant     *handler.TenantHandler
	Product    *handler.ProductHandler
	Customer   *handler.CustomerHandler
	Warehouse  *handler.WarehouseHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	Payment    *handler.PaymentHandler
	Review     *handler.ReviewHandler
	Automation *handler.AutomationHandler
	Report     *handler.ReportHandler
}

// ShopRoutes builds the domain groups of the shop API.
// Tenant profile changes, review moderation and automation rule changes
// are limited to admins.
func ShopRoutes(h Handlers) []RouteRegistrar {
	adminOnly := middleware.RequireRole(string(identity.RoleAdmin))

	root := NewDomainGroup("system", "")
	root.GET("/health", h.System.Health)
	root.GET("/ping", h.System.Ping)
	root.GET("/system/info", h.System.GetSystemInfo)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me)

	tenants := NewDomainGroup("tenants", "/tenants")
	tenants.GET("/current", h.Tenant.GetCurrent)
	tenants.PUT("/current", adminOnly, h.Tenant.UpdateCurrent)

	products := NewDomainGroup("catalog", "/products")
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.POST("/import", h.Product.Import)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)
	products.POST("/:id/activate", h.Product.Activate)
	products.POST("/:id/deactivate", h.Product.Deactivate)
	products.POST("/:id/image-upload-url", h.Product.RequestImageUpload)
	products.GET("/:id/image-url", h.Product.ImageURL)
	products.GET("/:id/rating", h.Product.Rating)

	customers := NewDomainGroup("partner", "/customers")
	customers.POST("", h.Customer.Create)
	customers.GET("", h.Customer.List)
	customers.GET("/:id", h.Customer.GetByID)
	customers.PUT("/:id", h.Customer.Update)
	customers.DELETE("/:id", h.Customer.Delete)
	customers.POST("/:id/activate", h.Customer.Activate)
	customers.POST("/:id/deactivate", h.Customer.Deactivate)

	warehouses := NewDomainGroup("inventory", "/warehouses")
	warehouses.POST("", h.Warehouse.Create)
	warehouses.GET("", h.Warehouse.List)
	warehouses.GET("/:id", h.Warehouse.GetByID)
	warehouses.PUT("/:id", h.Warehouse.Update)
	warehouses.DELETE("/:id", h.Warehouse.Delete)
	warehouses.POST("/:id/stock-adjustments", h.Warehouse.AdjustStock)
	warehouses.GET("/:id/stock-movements", h.Warehouse.ListMovements)

	carts := NewDomainGroup("trade", "/carts")
	carts.POST("", h.Cart.Create)
	carts.GET("/:id", h.Cart.GetByID)
	carts.POST("/:id/items", h.Cart.AddItem)
	carts.DELETE("/:id/items", h.Cart.Clear)
	carts.PUT("/:id/items/:item_id", h.Cart.UpdateItem)
	carts.DELETE("/:id/items/:item_id", h.Cart.RemoveItem)
	carts.POST("/:id/checkout", h.Cart.Checkout)

	orders := NewDomainGroup("trade", "/orders")
	orders.GET("", h.Order.List)
	orders.GET("/:id", h.Order.GetByID)
	orders.POST("/:id/ship", h.Order.Ship)
	orders.POST("/:id/deliver", h.Order.Deliver)
	orders.POST("/:id/cancel", h.Order.Cancel)

	payments := NewDomainGroup("finance", "/payments")
	payments.POST("", h.Payment.Create)
	payments.GET("", h.Payment.List)
	payments.GET("/:id", h.Payment.GetByID)
	payments.POST("/:id/complete", h.Payment.Complete)
	payments.POST("/:id/fail", h.Payment.Fail)
	payments.POST("/:id/refund", h.Payment.Refund)

	reviews := NewDomainGroup("review", "/reviews")
	reviews.POST("", h.Review.Create)
	reviews.GET("", h.Review.List)
	reviews.GET("/:id", h.Review.GetByID)
	reviews.DELETE("/:id", h.Review.Delete)
	reviews.POST("/:id/approve", adminOnly, h.Review.Approve)
	reviews.POST("/:id/reject", adminOnly, h.Review.Reject)

	rules := NewDomainGroup("automation", "/automation-rules")
	rules.GET("", h.Automation.List)
	rules.GET("/:id", h.Automation.GetByID)
	rules.POST("", adminOnly, h.Automation.Create)
	rules.PUT("/:id", adminOnly, h.Automation.Update)
	rules.DELETE("/:id", adminOnly, h.Automation.Delete)
	rules.POST("/:id/enable", adminOnly, h.Automation.Enable)
	rules.POST("/:id/disable", adminOnly, h.Automation.Disable)

	reports := NewDomainGroup("report", "/reports")
	reports.GET("/sales/summary", h.Report.SalesSummary)
	reports.GET("/sales/daily", h.Report.DailySales)
	reports.GET("/sales/top-products", h.Report.TopProducts)

	return []RouteRegistrar{
		root, auth, tenants, products, customers, warehouses,
		carts, orders, payments, reviews, rules, reports,
	}
}
