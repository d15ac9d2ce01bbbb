package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Shop      ShopConfig
	Printer   PrinterConfig
	Drive     DriveConfig
	Seed      SeedConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	Timezone string
	Locale   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level  string
	Format string
}

// ShopConfig seeds the settings row the first time the service boots.
type ShopConfig struct {
	Name          string
	Address       string
	GST           string
	Phone         string
	Currency      string
	CGSTRate      float64
	SGSTRate      float64
	PrinterFormat string
}

type PrinterConfig struct {
	Type       string
	USBPath    string
	Address    string
	ChromePath string
	PrintDelay time.Duration
	RangeDelay time.Duration
}

type DriveConfig struct {
	CredentialsFile string
	FolderID        string
}

type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	AdminName     string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	viper.SetDefault("APP_NAME", "restobill-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("APP_LOCALE", "en-GB")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "restobill")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("SHOP_NAME", "My Restaurant")
	viper.SetDefault("SHOP_ADDRESS", "")
	viper.SetDefault("SHOP_GST", "")
	viper.SetDefault("SHOP_PHONE", "")
	viper.SetDefault("SHOP_CURRENCY", "₹")
	viper.SetDefault("SHOP_CGST_RATE", 2.5)
	viper.SetDefault("SHOP_SGST_RATE", 2.5)
	viper.SetDefault("SHOP_PRINTER_FORMAT", "80mm")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_PRINT_DELAY_MS", 600)
	viper.SetDefault("PRINTER_RANGE_DELAY_MS", 300)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_NAME", "Admin")

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			Timezone: viper.GetString("APP_TIMEZONE"),
			Locale:   viper.GetString("APP_LOCALE"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Shop: ShopConfig{
			Name:          viper.GetString("SHOP_NAME"),
			Address:       viper.GetString("SHOP_ADDRESS"),
			GST:           viper.GetString("SHOP_GST"),
			Phone:         viper.GetString("SHOP_PHONE"),
			Currency:      viper.GetString("SHOP_CURRENCY"),
			CGSTRate:      viper.GetFloat64("SHOP_CGST_RATE"),
			SGSTRate:      viper.GetFloat64("SHOP_SGST_RATE"),
			PrinterFormat: viper.GetString("SHOP_PRINTER_FORMAT"),
		},
		Printer: PrinterConfig{
			Type:       viper.GetString("PRINTER_TYPE"),
			USBPath:    viper.GetString("PRINTER_USB_PATH"),
			Address:    viper.GetString("PRINTER_ADDRESS"),
			ChromePath: viper.GetString("PRINTER_CHROME_PATH"),
			PrintDelay: time.Duration(viper.GetInt("PRINTER_PRINT_DELAY_MS")) * time.Millisecond,
			RangeDelay: time.Duration(viper.GetInt("PRINTER_RANGE_DELAY_MS")) * time.Millisecond,
		},
		Drive: DriveConfig{
			CredentialsFile: viper.GetString("DRIVE_CREDENTIALS_FILE"),
			FolderID:        viper.GetString("DRIVE_FOLDER_ID"),
		},
		Seed: SeedConfig{
			AdminUsername: viper.GetString("ADMIN_USERNAME"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
			AdminName:     viper.GetString("ADMIN_NAME"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Location resolves the shop timezone, falling back to the host's local zone.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}
