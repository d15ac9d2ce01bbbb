package database

import (
	"context"
	"fmt"
	"log"

	"github.com/sangkips/restobill-api/internal/config"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// a single shop runs a handful of terminals
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.AppSettings{},
		&entity.MenuItem{},
		&entity.Bill{},
		&entity.BillItem{},
		&entity.BillCounter{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the admin user, the settings row, the bill counter
// and the default menu when they are missing. Existing rows are left alone.
func SeedDefaultData(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	log.Println("Seeding default data...")

	if err := seedAdmin(ctx, db, &cfg.Seed); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(DefaultSettings(&cfg.Shop, cfg.App.Locale)).Error; err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.BillCounter{ID: entity.BillCounterID, LastNumber: "00"}).Error; err != nil {
		return fmt.Errorf("seed bill counter: %w", err)
	}

	var menuCount int64
	if err := db.WithContext(ctx).Model(&entity.MenuItem{}).Count(&menuCount).Error; err != nil {
		return fmt.Errorf("count menu items: %w", err)
	}
	if menuCount == 0 {
		if err := db.WithContext(ctx).CreateInBatches(DefaultMenu(), 100).Error; err != nil {
			return fmt.Errorf("seed menu: %w", err)
		}
		log.Printf("Seeded %d menu items", len(DefaultMenu()))
	}

	log.Println("Default data seeding completed")
	return nil
}

func seedAdmin(ctx context.Context, db *gorm.DB, cfg *config.SeedConfig) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	var existing entity.User
	if err := db.WithContext(ctx).Where("username = ?", cfg.AdminUsername).First(&existing).Error; err == nil {
		log.Printf("Admin user already exists: %s", cfg.AdminUsername)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := entity.User{
		Name:     cfg.AdminName,
		Username: cfg.AdminUsername,
		Password: string(hashed),
		Role:     enum.UserRoleAdmin,
		Active:   true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("Admin user created: %s", cfg.AdminUsername)
	return nil
}

// DefaultSettings builds the first settings row from configuration.
func DefaultSettings(shop *config.ShopConfig, locale string) *entity.AppSettings {
	format, err := enum.ParsePrinterFormat(shop.PrinterFormat)
	if err != nil {
		format = enum.PrinterFormat80mm
	}
	cgst := decimal.NewFromFloat(shop.CGSTRate)
	sgst := decimal.NewFromFloat(shop.SGSTRate)

	settings := &entity.AppSettings{
		ID:            entity.AppSettingsID,
		ShopName:      shop.Name,
		ShopAddress:   shop.Address,
		Currency:      shop.Currency,
		CGSTRate:      &cgst,
		SGSTRate:      &sgst,
		PrinterFormat: format,
		Locale:        locale,
	}
	if shop.GST != "" {
		settings.ShopGST = &shop.GST
	}
	if shop.Phone != "" {
		settings.ShopPhone = &shop.Phone
	}
	return settings
}
