package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/database"
	"github.com/ramnagarhs/mdm-service/internal/handlers"
	"github.com/ramnagarhs/mdm-service/internal/jobs"
	"github.com/ramnagarhs/mdm-service/internal/mailer"
	"github.com/ramnagarhs/mdm-service/internal/middleware"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/types"
	"gorm.io/gorm"

	_ "github.com/ramnagarhs/mdm-service/docs/api" // Swagger docs
)

// Default admin credentials seeded on an empty user table. The password must
// be changed after first login.
const (
	defaultAdminEmail    = "admin@ramnagarhs.edu"
	defaultAdminPassword = "admin123"
)

// @title RHS MDM API
// @version 1.0.0
// @description Mid-day meal record-keeping service
// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := seedDefaultAdmin(db); err != nil {
		log.Fatalf("Failed to seed default admin: %v", err)
	}

	mail := mailer.New(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    12 << 20, // photo uploads
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.FrontendURL}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("mdm_service")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded photos are served as static files
	app.Static("/uploads", cfg.UploadDir)

	registerRoutes(app, db, cfg, mail)

	// Scheduled jobs
	scheduler := jobs.New(db, cfg, mail, log.New(os.Stderr, "[jobs] ", log.LstdFlags))
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// registerRoutes wires every API route with its auth and role gates.
func registerRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, mail *mailer.Mailer) {
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg, Mailer: mail}
	userHandler := &handlers.UserHandler{DB: db}
	ledgerHandler := &handlers.LedgerHandler{DB: db}
	settingsHandler := &handlers.SettingsHandler{DB: db}
	importExportHandler := &handlers.ImportExportHandler{DB: db}
	backupHandler := &handlers.BackupHandler{DB: db, Cfg: cfg}
	dashboardHandler := &handlers.DashboardHandler{DB: db}
	activityHandler := &handlers.ActivityHandler{DB: db}
	photoHandler := &handlers.PhotoHandler{DB: db, Cfg: cfg}
	notificationHandler := &handlers.NotificationHandler{DB: db}
	qrHandler := &handlers.QRHandler{Cfg: cfg}

	protected := middleware.Protected(cfg.JWTSecret)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	canWrite := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	api := app.Group("/api")

	// Public routes
	api.Get("/health", dashboardHandler.Health)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/forgot-password", authHandler.ForgotPassword)
	api.Post("/auth/reset-password", authHandler.ResetPassword)

	// Authenticated routes
	api.Post("/auth/logout", protected, authHandler.Logout)
	api.Get("/auth/me", protected, authHandler.Me)
	api.Post("/auth/register", protected, adminOnly, authHandler.Register)

	api.Get("/users", protected, adminOnly, userHandler.List)
	api.Get("/users/:id", protected, adminOnly, userHandler.Get)
	api.Put("/users/:id", protected, adminOnly, userHandler.Update)
	api.Delete("/users/:id", protected, adminOnly, userHandler.Delete)

	api.Get("/formC", protected, ledgerHandler.ListFormC)
	api.Post("/formC", protected, canWrite, ledgerHandler.CreateFormC)
	api.Put("/formC/:id", protected, canWrite, ledgerHandler.UpdateFormC)
	api.Delete("/formC/:id", protected, canWrite, ledgerHandler.DeleteFormC)

	api.Get("/bankLedger", protected, ledgerHandler.ListBank)
	api.Post("/bankLedger", protected, canWrite, ledgerHandler.CreateBank)
	api.Delete("/bankLedger/:id", protected, canWrite, ledgerHandler.DeleteBank)

	api.Get("/riceLedger", protected, ledgerHandler.ListRice)
	api.Post("/riceLedger", protected, canWrite, ledgerHandler.CreateRice)
	api.Delete("/riceLedger/:id", protected, canWrite, ledgerHandler.DeleteRice)

	api.Get("/expenseLedger", protected, ledgerHandler.ListExpense)
	api.Post("/expenseLedger", protected, canWrite, ledgerHandler.CreateExpense)
	api.Delete("/expenseLedger/:id", protected, canWrite, ledgerHandler.DeleteExpense)

	api.Get("/cooks", protected, ledgerHandler.ListCooks)
	api.Post("/cooks", protected, canWrite, ledgerHandler.CreateCook)
	api.Delete("/cooks/:id", protected, canWrite, ledgerHandler.DeleteCook)

	api.Get("/staff", protected, ledgerHandler.ListStaff)
	api.Post("/staff", protected, canWrite, ledgerHandler.CreateStaff)
	api.Delete("/staff/:id", protected, canWrite, ledgerHandler.DeleteStaff)

	api.Get("/settings", protected, settingsHandler.Get)
	api.Put("/settings", protected, canWrite, settingsHandler.Update)

	api.Post("/import", protected, canWrite, importExportHandler.Import)
	api.Get("/backup", protected, importExportHandler.Export)
	api.Post("/backup/create", protected, adminOnly, backupHandler.Create)
	api.Get("/backup/history", protected, adminOnly, backupHandler.History)
	api.Get("/backup/download/:filename", protected, adminOnly, backupHandler.Download)

	api.Get("/dashboard/stats", protected, dashboardHandler.Stats)
	api.Get("/activity-logs", protected, canWrite, activityHandler.List)

	api.Get("/photos", protected, photoHandler.List)
	api.Post("/photos/upload", protected, canWrite, photoHandler.Upload)
	api.Delete("/photos/:id", protected, canWrite, photoHandler.Delete)

	api.Get("/notifications", protected, notificationHandler.List)
	api.Post("/notifications", protected, adminOnly, notificationHandler.Create)
	api.Post("/notifications/read-all", protected, notificationHandler.MarkAllRead)
	api.Post("/notifications/:id/read", protected, notificationHandler.MarkRead)
	api.Delete("/notifications/:id", protected, adminOnly, notificationHandler.Delete)

	api.Get("/qr/daily/:date", protected, qrHandler.Daily)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Resource not found",
		})
	})
}

// seedDefaultAdmin creates the default admin account when no user exists.
func seedDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err := services.Register(db, services.RegisterInput{
		Name:     "Administrator",
		Email:    defaultAdminEmail,
		Password: defaultAdminPassword,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return err
	}

	log.Printf("Seeded default admin %s; change the password after first login", defaultAdminEmail)
	return nil
}

// customErrorHandler maps errors to the response envelope. CustomError
// carries its own status; Fiber errors keep theirs; anything else is a 500
// with a generic message.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server error"

	var custom *types.CustomError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &custom):
		code = custom.Code
		message = custom.Message
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	default:
		log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
