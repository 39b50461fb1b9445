package database

import (
	"fmt"
	"os"
	"time"

	"github.com/special-song-search/backend/internal/logger"
	"github.com/special-song-search/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize creates and configures the database connection.
// DATABASE_URL selects Postgres; with no configuration at all we fall back to
// a local SQLite file so the CLI works out of the box.
func Initialize() error {
	gormLogger := gormlogger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	cfg := &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)

	if databaseURL := postgresURL(); databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), cfg)
	} else {
		path := getEnvOrDefault("SQLITE_PATH", "test.db")
		db, err = gorm.Open(sqlite.Open(path), cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	logger.Log.Info("Database connected")

	return nil
}

// postgresURL assembles a Postgres DSN from the environment, or returns ""
// when no Postgres configuration is present.
func postgresURL() string {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		return databaseURL
	}
	if os.Getenv("DB_HOST") == "" {
		return ""
	}

	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "")
	dbname := getEnvOrDefault("DB_NAME", "songsearch")
	sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

// Migrate runs auto-migration for the catalog models
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(
		&models.Artist{},
		&models.ArtistTag{},
		&models.Recording{},
		&models.RecordingTag{},
		&models.ArtistRecording{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Log.Info("Database migrations completed")
	return nil
}

// createIndexes creates performance indexes for the recommendation queries
func createIndexes() error {
	statements := []string{
		// Tag lookups drive the per-category score subqueries
		"CREATE INDEX IF NOT EXISTS idx_artist_tags_tag ON artist_tags (tag)",
		"CREATE INDEX IF NOT EXISTS idx_recording_tags_tag ON recording_tags (tag)",

		// Both directions of the many-to-many link
		"CREATE INDEX IF NOT EXISTS idx_artist_recordings_recording ON artist_recordings (recording_mbid)",
		"CREATE INDEX IF NOT EXISTS idx_artist_recordings_artist ON artist_recordings (artist_mbid)",

		// Hard-filter columns
		"CREATE INDEX IF NOT EXISTS idx_recordings_length ON recordings (length)",
		"CREATE INDEX IF NOT EXISTS idx_recordings_year ON recordings (year)",
		"CREATE INDEX IF NOT EXISTS idx_recordings_release_status ON recordings (release_status)",
	}
	for _, stmt := range statements {
		if err := DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index creation failed (%s): %w", stmt, err)
		}
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
