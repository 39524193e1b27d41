package routes

import (
	"pizzabot-api/handlers"
	"pizzabot-api/middleware"
	"pizzabot-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Catalog & branches (no auth needed)
		public.GET("/menu", handlers.GetMenu)
		public.GET("/branches", handlers.ListBranches)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Chat surface (login optional; cart/order intents prompt) ──
	chat := r.Group("/api/chat")
	chat.Use(middleware.AuthOptional())
	{
		chat.POST("", handlers.Chat)
		chat.GET("/history", handlers.ChatHistory)
		chat.DELETE("", handlers.EndChat)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.PUT("/orders/:orderId/cancel", handlers.CancelOrder)
	}

	// ── Employee & deliveryman routes ──────────────────────────────
	employee := r.Group("/api/employee")
	employee.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleEmployee, models.RoleDeliveryman))
	{
		employee.GET("/orders", handlers.GetAllOrders)
		employee.PUT("/orders/:userId/:orderId/status", handlers.UpdateOrderStatus)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.PUT("/menu/:itemId", handlers.UpsertMenuItem)
		admin.PUT("/branches/:code", handlers.UpsertBranch)
		admin.GET("/users", handlers.AdminGetAllUsers)
	}
}
