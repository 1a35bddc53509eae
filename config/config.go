package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSQLitePath string
	DBLogLevel   string
	Port         string
	JWTSecret    string
	CORSOrigins  []string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       getEnv("DB_NAME", "eventhub"),
		DBSQLitePath: getEnv("DB_SQLITE_PATH", "eventhub.db"),
		DBLogLevel:   getEnv("DB_LOG_LEVEL", "error"),
		Port:         getEnv("PORT", "8080"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func (cfg *Config) dialector() gorm.Dialector {
	if cfg.DBDriver == "sqlite" {
		return sqlite.Open(cfg.DBSQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
	return postgres.Open(dsn)
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(cfg.dialector(), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.DBLogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.DBDriver == "sqlite" {
		// SQLite has no row locks; one connection serializes writers instead.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := SeedRoles(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Event{},
		&models.Question{},
		&models.Registration{},
		&models.Answer{},
	)
}

// SeedRoles creates the fixed role rows if they are missing.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleOrganizer, models.RoleAttendee, models.RoleAdmin} {
		role := models.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}
	return nil
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Error
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
