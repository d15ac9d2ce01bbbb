package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sangkips/restobill-api/internal/config"
	"github.com/sangkips/restobill-api/internal/infrastructure/database"
	"github.com/sangkips/restobill-api/internal/infrastructure/repository"
)

// seed restores the default menu and makes sure the admin account, shop
// settings and bill counter exist. Bills are never touched.
func main() {
	// .env wins over the shell so a seed run can point at a scratch database
	if err := godotenv.Overload(); err != nil {
		log.Printf("Warning: .env file not loaded: %v", err)
	}

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedDefaultData(ctx, db, cfg); err != nil {
		log.Fatalf("Failed to seed default data: %v", err)
	}

	menu := database.DefaultMenu()
	if err := repository.NewMenuRepository(db).ReplaceAll(ctx, menu); err != nil {
		log.Fatalf("Failed to reset menu: %v", err)
	}

	log.Printf("Menu reset to %d items", len(menu))
}
