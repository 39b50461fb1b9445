package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/special-song-search/backend/internal/database"
	"github.com/special-song-search/backend/internal/logger"
	"github.com/special-song-search/backend/internal/seed"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	artists := flag.Int("artists", 50, "number of artists to seed")
	recordings := flag.Int("recordings", 8, "maximum recordings per artist")
	flag.Parse()

	// Parse command
	command := "dev"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	switch command {
	case "dev":
		seedDev(*artists, *recordings)
	case "clean":
		cleanSeed()
	default:
		fmt.Println("Usage: seed [flags] [dev|clean]")
		fmt.Println("  dev   - Seed development database with a fake catalog")
		fmt.Println("  clean - Remove all catalog data (use with caution)")
		os.Exit(1)
	}
}

func connect() {
	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}

func seedDev(artists, recordings int) {
	log.Println("Seeding development catalog...")

	connect()
	defer database.Close()

	seeder := seed.NewSeeder(database.DB)
	if err := seeder.SeedDev(artists, recordings); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Development catalog seeded successfully")
}

func cleanSeed() {
	log.Println("Cleaning catalog data...")

	connect()
	defer database.Close()

	seeder := seed.NewSeeder(database.DB)
	if err := seeder.Clean(); err != nil {
		log.Fatalf("Clean failed: %v", err)
	}

	log.Println("Catalog data cleaned successfully")
}
