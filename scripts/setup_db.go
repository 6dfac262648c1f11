// Command setup_db applies or reports the drive schema migrations.
//
//	go run ./scripts up
//	go run ./scripts status
package main

import (
	"context"
	"fmt"
	"os"

	"file-drive/internal/config"
	"file-drive/internal/migrations"
	"file-drive/internal/repository/postgres"

	"github.com/joho/godotenv"
)

const (
	commandUp     = "up"
	commandStatus = "status"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	command := commandUp
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := run(command); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(command string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	ctx := context.Background()
	switch command {
	case commandUp:
		if err := migrations.Up(ctx, db.SQL); err != nil {
			return err
		}
		fmt.Println("✅ Migrations applied")
		return migrations.Status(ctx, db.SQL)
	case commandStatus:
		return migrations.Status(ctx, db.SQL)
	default:
		return fmt.Errorf("unknown command %q (want %q or %q)", command, commandUp, commandStatus)
	}
}
