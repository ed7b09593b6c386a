// verify_sweeps runs one end-to-end check of the background sweeps against a
// live database: it reports the current open-complaint priorities, runs the
// priority sweep and the auto-close sweep once, and prints what changed.
// Usage: from project root, run: go run ./cmd/verify_sweeps
// Requires .env (or env) with DB_* variables.
package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"railgriev/config"
	"railgriev/repository"
	"railgriev/schema"
	"railgriev/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found")
	}
	cfg := config.LoadConfig()

	dsn := cfg.Database.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("DB open: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("DB ping: %v", err)
	}
	schema.InitializeDatabase(db)

	complaintRepo := repository.NewComplaintRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// --- 1) Open complaints before the sweeps ---
	candidates, err := complaintRepo.GetPrioritySweepCandidates()
	if err != nil {
		log.Fatalf("Candidate query: %v", err)
	}
	fmt.Printf("Open complaints (Pending/Replied): %d\n", len(candidates))
	for _, c := range candidates {
		fmt.Printf("  %s  status=%-18s priority=%-8s age=%s\n",
			c.ComplaintNumber, c.Status, c.Priority, c.CreatedAt.Format("2006-01-02 15:04"))
	}

	// --- 2) One priority sweep ---
	priorityService := service.NewPriorityService(complaintRepo)
	updated, err := priorityService.RunPrioritySweep()
	if err != nil {
		log.Fatalf("Priority sweep: %v", err)
	}
	fmt.Printf("\nPriority sweep: %d complaint(s) escalated\n", updated)

	// --- 3) One auto-close sweep ---
	autoCloseService := service.NewAutoCloseService(complaintRepo, transactionRepo)
	closed, err := autoCloseService.RunAutoCloseSweep()
	if err != nil {
		log.Fatalf("Auto-close sweep: %v", err)
	}
	fmt.Printf("Auto-close sweep: %d complaint(s) closed\n", closed)

	// --- 4) Proof: second pass must be a no-op ---
	updated, err = priorityService.RunPrioritySweep()
	if err != nil {
		log.Fatalf("Priority sweep (second pass): %v", err)
	}
	closed, err = autoCloseService.RunAutoCloseSweep()
	if err != nil {
		log.Fatalf("Auto-close sweep (second pass): %v", err)
	}
	if updated == 0 && closed == 0 {
		fmt.Println("\nSecond pass changed nothing: sweeps are idempotent. OK")
	} else {
		fmt.Printf("\nWARNING: second pass changed %d+%d records, sweeps are not idempotent\n", updated, closed)
	}
}
