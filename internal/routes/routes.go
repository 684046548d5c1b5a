package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/strongx-golang/internal/handlers"
	"github.com/01moynul/strongx-golang/internal/logging"
	"github.com/01moynul/strongx-golang/internal/metrics"
	"github.com/01moynul/strongx-golang/internal/middleware"
)

// Options are the router settings that do not live on Handlers.
type Options struct {
	Production   bool
	CORSOrigins  []string
	LoginLimiter *middleware.RateLimiter
	AILimiter    *middleware.RateLimiter
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()

	// --- Global middleware ---
	// CORS runs before the error handler so preflights never reach it.
	router.Use(
		gin.Recovery(),
		logging.RequestLogger(logging.Logger),
		metrics.Middleware(),
		middleware.CORS(opts.CORSOrigins),
		middleware.ErrorHandler(opts.Production),
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if h.Uploads.Dir != "" {
		router.Static("/uploads", h.Uploads.Dir)
	}

	requireAuth := middleware.AuthMiddleware(h.DB, h.Tokens)

	api := router.Group("/api")
	{
		// --- Health (Public) ---
		api.GET("/health", h.Health)

		// --- Auth Routes ---
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", opts.LoginLimiter.Handler(), h.Login)
			authGroup.POST("/register", requireAuth, middleware.RequireSuperAdmin(), h.Register)
			authGroup.GET("/me", requireAuth, h.Me)
			authGroup.POST("/logout", requireAuth, h.Logout)
		}

		// --- AI Routes (Public, rate limited) ---
		aiGroup := api.Group("/ai")
		aiGroup.Use(opts.AILimiter.Handler())
		{
			aiGroup.POST("/workout-plan", h.GenerateWorkoutPlan)
			aiGroup.GET("/motivation", h.GetMotivation)
		}

		// --- Protected Routes (Login Required) ---
		protected := api.Group("/")
		protected.Use(requireAuth)
		{
			staffOnly := middleware.RequireStaff()
			adminOnly := middleware.RequireAdmin()

			// Dashboard
			protected.GET("/admin/dashboard/summary", staffOnly, h.GetDashboardSummary)
			protected.GET("/admin/dashboard/revenue", staffOnly, h.GetRevenueSummary)

			// Uploads
			protected.POST("/uploads", staffOnly, h.Uploads.UploadFile)

			// Members
			members := protected.Group("/members")
			{
				members.GET("", staffOnly, h.GetMembers)
				members.GET("/:id", staffOnly, h.GetMember)
				members.GET("/:id/membership-history", staffOnly, h.GetMembershipHistory)
				members.POST("", staffOnly, h.CreateMember)
				members.POST("/:id/memberships", staffOnly, h.AddMembership)
				members.PUT("/:id", staffOnly, h.UpdateMember)
				members.DELETE("/:id", adminOnly, h.DeleteMember)
			}

			// Plans
			plans := protected.Group("/plans")
			{
				plans.GET("", staffOnly, h.GetPlans)
				plans.GET("/:id", staffOnly, h.GetPlan)
				plans.POST("", adminOnly, h.CreatePlan)
				plans.PUT("/:id", adminOnly, h.UpdatePlan)
				plans.DELETE("/:id", adminOnly, h.DeletePlan)
			}

			// Payments
			payments := protected.Group("/payments")
			{
				payments.GET("", staffOnly, h.GetPayments)
				payments.GET("/invoices/:id/pdf", staffOnly, h.GetInvoicePDF)
				payments.GET("/:id", staffOnly, h.GetPayment)
				payments.POST("", staffOnly, h.CreatePayment)
				payments.POST("/:id/refund", adminOnly, h.RefundPayment)
			}

			// Staff (admin only)
			staff := protected.Group("/staff")
			staff.Use(adminOnly)
			{
				staff.GET("", h.GetStaff)
				staff.GET("/:id", h.GetStaffMember)
				staff.POST("", h.CreateStaff)
				staff.PUT("/:id", h.UpdateStaff)
				staff.DELETE("/:id", h.DeleteStaff)
			}

			// Trainers
			trainers := protected.Group("/trainers")
			{
				trainers.GET("", staffOnly, h.GetTrainers)
				trainers.GET("/:id", staffOnly, h.GetTrainer)
				trainers.POST("", adminOnly, h.CreateTrainer)
				trainers.PUT("/:id", adminOnly, h.UpdateTrainer)
				trainers.DELETE("/:id", adminOnly, h.DeleteTrainer)
			}
		}
	}

	return router
}
