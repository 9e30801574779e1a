package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Development helper: wipes all business data and reseeds the default
// admin account. Roles survive (the migration reseeds them anyway).
func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all transfers, dispatch and receiving slips")
	fmt.Println("  - Delete all stock movements and inventory balances")
	fmt.Println("  - Delete all discrepancies and document sequences")
	fmt.Println("  - Delete all items, categories and branches")
	fmt.Println("  - Delete all users and recreate the default admin")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "stockflow_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("Resetting database...")

	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SET session_replication_role = 'replica'")
	if err != nil {
		log.Fatalf("Failed to disable foreign key checks: %v\n", err)
	}

	tables := []string{
		"receiving_slip_items",
		"receiving_slips",
		"dispatch_slips",
		"transfer_request_items",
		"transfer_requests",
		"stock_discrepancies",
		"stock_movements",
		"inventory",
		"items",
		"categories",
		"branches",
		"users",
		"document_sequences",
	}

	for _, table := range tables {
		_, err = tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  cleared %s\n", table)
	}

	_, err = tx.Exec(ctx, "SET session_replication_role = 'origin'")
	if err != nil {
		log.Fatalf("Failed to enable foreign key checks: %v\n", err)
	}

	sequences := []string{
		"users_id_seq",
		"branches_id_seq",
		"categories_id_seq",
		"items_id_seq",
		"inventory_id_seq",
		"stock_movements_id_seq",
		"transfer_requests_id_seq",
		"transfer_request_items_id_seq",
		"dispatch_slips_id_seq",
		"receiving_slips_id_seq",
		"receiving_slip_items_id_seq",
		"stock_discrepancies_id_seq",
	}

	for _, seq := range sequences {
		_, err = tx.Exec(ctx, fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH 1", seq))
		if err != nil {
			log.Printf("Warning: Failed to reset sequence %s: %v\n", seq, err)
		}
	}
	fmt.Println("  reset ID sequences")

	// Default admin, password: admin123
	_, err = tx.Exec(ctx, `
		INSERT INTO users (username, full_name, email, password_hash, role_id, is_active)
		VALUES ($1, $2, $3, $4, (SELECT id FROM roles WHERE role_name = 'admin'), TRUE)`,
		"admin",
		"Administrator",
		"admin@stockflow.local",
		"$2a$10$N9qo8uLOickgx2ZMRZoMye7U4hWJQbFlLwt7xW.hQOKvH8QhPVN8S",
	)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v\n", err)
	}
	fmt.Println("  created admin user")

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Done. Login with admin / admin123.")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
