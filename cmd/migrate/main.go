package main

import (
	"flag"
	"log"
	"os"

	"ms-reminders/internal/config"
	"ms-reminders/internal/store"
)

func main() {
	var command = flag.String("command", "up", "Migration command: up, status")
	flag.Parse()

	cfg := config.Load()

	db, err := store.New(store.DatabaseConfig{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		DBName:   cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	switch *command {
	case "up":
		log.Println("Running migrations...")
		if err := db.RunMigrations(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("✓ Migrations completed successfully")

	case "status":
		log.Println("Checking migration status...")
		if err := db.MigrationStatus(); err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}

	default:
		log.Printf("Unknown command: %s", *command)
		log.Println("Available commands: up, status")
		os.Exit(1)
	}
}
