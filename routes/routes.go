package routes

import (
	"github.com/julienschmidt/httprouter"

	"wayfare/cart"
	"wayfare/middleware"
	"wayfare/notifications"
	"wayfare/planner"
	"wayfare/push"
	"wayfare/ratelim"
	"wayfare/servicelist"
	"wayfare/timeline"
	"wayfare/wallet"
)

func AddPlannerRoutes(router *httprouter.Router, h *planner.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/planners", middleware.Authenticate(h.ListPlanners))
	router.POST("/api/planners", rl.Limit(middleware.Authenticate(h.CreatePlanner)))
	router.GET("/api/planners/active", middleware.Authenticate(h.GetActivePlanner))
	router.POST("/api/planners/active", middleware.Authenticate(h.SetActivePlanner))

	router.GET("/api/planners/all/:id", middleware.Authenticate(h.GetPlanner))
	router.PATCH("/api/planners/all/:id", rl.Limit(middleware.Authenticate(h.UpdatePlanner)))
	router.DELETE("/api/planners/all/:id", rl.Limit(middleware.Authenticate(h.DeletePlanner)))

	router.GET("/api/planners/all/:id/days", middleware.Authenticate(h.GetPlannerDays))
	router.GET("/api/planners/all/:id/summary", middleware.Authenticate(h.GetPlannerSummary))
	router.GET("/api/planners/all/:id/items", middleware.Authenticate(h.GetPlannerItems))
	router.GET("/api/planners/all/:id/range", middleware.Authenticate(h.GetPlannerDateRange))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/planners/all/:id/cart", middleware.Authenticate(h.GetCart))
	router.POST("/api/planners/all/:id/cart/items", rl.Limit(middleware.Authenticate(h.AddToCart)))
	router.PATCH("/api/planners/all/:id/cart/items/:itemId", rl.Limit(middleware.Authenticate(h.UpdateCartItem)))
	router.DELETE("/api/planners/all/:id/cart/items/:itemId", rl.Limit(middleware.Authenticate(h.RemoveFromCart)))
	router.DELETE("/api/planners/all/:id/cart", rl.Limit(middleware.Authenticate(h.ClearCart)))
	router.POST("/api/planners/quick", rl.Limit(middleware.Authenticate(h.QuickPlanner)))

	router.POST("/api/payments/installments", middleware.Authenticate(h.Installments))
	router.POST("/api/payments/plan", middleware.Authenticate(h.PaymentPlan))
}

func AddTimelineRoutes(router *httprouter.Router, h *timeline.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/planners/all/:id/items", rl.Limit(middleware.Authenticate(h.AddItem)))
	router.PATCH("/api/planners/all/:id/items/:itemId", rl.Limit(middleware.Authenticate(h.UpdateItem)))
	router.PATCH("/api/planners/all/:id/items/:itemId/move", rl.Limit(middleware.Authenticate(h.MoveItem)))
	router.DELETE("/api/planners/all/:id/items/:itemId", rl.Limit(middleware.Authenticate(h.RemoveItem)))
	router.POST("/api/planners/all/:id/pay", rl.Limit(middleware.Authenticate(h.PayItems)))
	router.POST("/api/planners/migrate", rl.Limit(middleware.Authenticate(h.MigrateFromCart)))

	router.POST("/api/planners/all/:id/share", middleware.Authenticate(h.SharePlanner))
	router.POST("/api/planners/join/:token", middleware.Authenticate(h.JoinSharedPlanner))
	router.GET("/api/planners/shared/:token/qr", h.ShareQRCode)
	router.GET("/api/planners/all/:id/export/pdf", middleware.Authenticate(h.ExportPDF))
}

func AddWalletRoutes(router *httprouter.Router, svc *wallet.Service, rl *ratelim.RateLimiter) {
	router.GET("/api/wallet/balance", middleware.Authenticate(svc.GetBalance))
	router.POST("/api/wallet/transfer", rl.Limit(middleware.Authenticate(svc.Transfer)))
	router.GET("/api/wallet/transactions", middleware.Authenticate(svc.ListTransactions))
}

func AddServiceRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/services", servicelist.GetServices)
	router.GET("/api/services/:id", servicelist.GetService)
	router.POST("/api/services", rl.Limit(middleware.Authenticate(servicelist.CreateService)))
	router.PUT("/api/services/:id", rl.Limit(middleware.Authenticate(servicelist.UpdateService)))
	router.DELETE("/api/services/:id", rl.Limit(middleware.Authenticate(servicelist.DeleteService)))
}

func AddNotificationRoutes(router *httprouter.Router) {
	router.GET("/api/notifications", middleware.Authenticate(notifications.GetNotifications))
	router.PUT("/api/notifications/:id/read", middleware.Authenticate(notifications.MarkRead))
}

func AddPushRoutes(router *httprouter.Router, hub *push.Hub) {
	router.GET("/ws/planners", push.WebSocketHandler(hub))
}
