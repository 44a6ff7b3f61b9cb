package database

import (
	"fmt"
	"strings"

	"uniform-tracker-api/config"
	"uniform-tracker-api/internal/logs"
	"uniform-tracker-api/internal/technician"

	"github.com/glebarez/sqlite"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to the record store selected by cfg.DBDriver.
func Open(cfg config.Config, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{}
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Dialector(cfg config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DBDriver)) {
	case "sqlite":
		return sqlite.Open(SQLiteDSN(cfg.SQLitePath)), nil
	case "", "postgres", "postgresql":
		dsn, err := PostgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// SQLiteDSN turns on foreign keys for every pooled connection; sqlite ignores
// ON DELETE CASCADE otherwise.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// PostgresDSN prefers DATABASE_URL and falls back to the individual DB_* settings.
func PostgresDSN(cfg config.Config) (string, error) {
	if cfg.DatabaseURL != "" {
		dsn, err := pq.ParseURL(cfg.DatabaseURL)
		if err != nil {
			return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		return dsn, nil
	}

	sslmode := cfg.DBSSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=" + sslmode
	return dsn, nil
}

// Migrate creates or updates every table the service and the seed job use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&technician.Technician{},
		&technician.CheckIn{},
		&logs.ImportRun{},
	)
}
