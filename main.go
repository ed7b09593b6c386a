package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"railgriev/config"
	"railgriev/handler"
	"railgriev/middleware"
	"railgriev/notification"
	"railgriev/repository"
	"railgriev/routes"
	"railgriev/schema"
	"railgriev/service"
	"railgriev/worker"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := config.LoadConfig()

	// Initialize database connection (UTC for consistent timestamps)
	dsn := cfg.Database.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.DBName,
		)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Database connection established")

	schema.InitializeDatabase(db)

	// Initialize repositories
	complaintRepo := repository.NewComplaintRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	shedRepo := repository.NewShedRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	evidenceRepo := repository.NewEvidenceRepository(db)
	mailLogRepo := repository.NewMailLogRepository(db)

	// Initialize services
	tokenExpiry := time.Duration(cfg.Auth.TokenExpiryHours) * time.Hour
	mailService := service.NewMailService(
		notification.NewEmailSender(cfg.Mail.SendGridAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName),
		staffRepo,
		customerRepo,
		mailLogRepo,
	)
	routingService := service.NewRoutingService(shedRepo, staffRepo)
	complaintService := service.NewComplaintService(
		complaintRepo,
		transactionRepo,
		categoryRepo,
		routingService,
		mailService,
	)
	customerService := service.NewCustomerService(customerRepo, cfg.Auth.JWTSecret, tokenExpiry)
	staffService := service.NewStaffService(staffRepo, cfg.Auth.JWTSecret, tokenExpiry)
	reportService := service.NewReportService(complaintRepo)
	priorityService := service.NewPriorityService(complaintRepo)
	autoCloseService := service.NewAutoCloseService(complaintRepo, transactionRepo)

	// Start the sweep worker
	sweepWorker := worker.NewSweepWorker(cfg.Sweep, priorityService, autoCloseService)
	if err := sweepWorker.Start(); err != nil {
		log.Fatalf("Failed to start sweep worker: %v", err)
	}
	defer sweepWorker.Stop()

	// Initialize handlers and routes
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
	router := routes.SetupRoutes(
		handler.NewComplaintHandler(complaintService, complaintRepo, evidenceRepo),
		handler.NewCustomerHandler(customerService),
		handler.NewStaffHandler(complaintService, staffService),
		handler.NewAdminHandler(categoryRepo, shedRepo, customerService, reportService, priorityService, autoCloseService),
		authMiddleware,
	)

	// Add CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, corsHandler(router)))
}
