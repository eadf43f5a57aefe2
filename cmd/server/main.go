package main

import (
	"strings"

	"lottery-backend/internal/audit"
	"lottery-backend/internal/auth"
	"lottery-backend/internal/config"
	"lottery-backend/internal/dailyrecord"
	"lottery-backend/internal/database"
	"lottery-backend/internal/distribution"
	"lottery-backend/internal/loan"
	"lottery-backend/internal/logger"
	"lottery-backend/internal/lottery"
	"lottery-backend/internal/models"
	"lottery-backend/internal/note"
	"lottery-backend/internal/profit"
	"lottery-backend/internal/shop"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	log := logger.Get()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.LogError("main", "ErrorHandler", c.Path(), nil, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(cfg))

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Shop management
	adminRoutes.Post("/shops", shop.CreateShopHandler())
	adminRoutes.Get("/shops", shop.ListShopsHandler())
	adminRoutes.Get("/shops/:id", shop.GetShopHandler())
	adminRoutes.Put("/shops/:id", shop.UpdateShopHandler())
	adminRoutes.Delete("/shops/:id", shop.DeleteShopHandler())
	adminRoutes.Post("/shops/:id/operator", shop.CreateShopOperatorHandler())

	// Lottery type management
	adminRoutes.Post("/lotteries", lottery.CreateLotteryHandler())
	adminRoutes.Put("/lotteries/:id", lottery.UpdateLotteryHandler())

	// Ledger routes: valid token AND on the operator allow-list
	ledger := protected.Group("")
	ledger.Use(auth.RequireAuthorized(cfg))

	ledger.Get("/lotteries", lottery.ListLotteriesHandler())

	// Daily reconciliation
	ledger.Post("/daily-records/initialise", dailyrecord.InitialiseHandler())
	ledger.Post("/daily-records", dailyrecord.ApplyStepHandler())
	ledger.Get("/daily-records", dailyrecord.GetDailyRecordHandler())
	ledger.Delete("/daily-records", dailyrecord.DeleteDailyRecordHandler())

	// Distribution planning
	ledger.Post("/daily-distributions", distribution.SaveDistributionsHandler())
	ledger.Get("/daily-distributions", distribution.GetDistributionsHandler())
	ledger.Get("/daily-orders", distribution.GetDailyOrdersHandler())

	// Loans
	ledger.Post("/loans", loan.ApplyLoanHandler(cfg))
	ledger.Get("/loans", loan.GetLoansHandler(cfg))
	ledger.Get("/loans/allocations", loan.ListAllocationsHandler())

	// Profit statistics
	ledger.Post("/daily-profit", profit.SaveDailyProfitHandler())
	ledger.Put("/daily-profit", profit.SaveDailyProfitHandler())
	ledger.Get("/daily-profit", profit.GetDailyProfitHandler())

	// Notes
	ledger.Post("/shop-notes", note.CreateNoteHandler())
	ledger.Get("/shop-notes", note.ListNotesHandler())
	ledger.Put("/shop-notes/:id", note.UpdateNoteHandler())
	ledger.Delete("/shop-notes/:id", note.DeleteNoteHandler())

	// Audit logs
	ledger.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Infof("Server listening on port %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
