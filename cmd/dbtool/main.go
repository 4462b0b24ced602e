package main

import (
	"context"
	"flag"
	"fmt"
	"itinerary-planner-service/internal/adapters/cache"
	"itinerary-planner-service/internal/adapters/repositories"
	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/platform/db"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const usage = `usage: dbtool <command> [flags]

commands:
  migrate            create or update the record store and cache tables
  seed -trip FILE    migrate, then store the trip file (it must carry an id)`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	switch os.Args[1] {
	case "migrate":
		if err := migrate(context.Background(), databaseURL, ""); err != nil {
			log.Fatal(err)
		}
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ExitOnError)
		tripPath := fs.String("trip", config.Get("TRIP_SEED", ""), "trip file to store")
		_ = fs.Parse(os.Args[2:])
		if *tripPath == "" {
			log.Fatal("seed: -trip is required")
		}
		if err := migrate(context.Background(), databaseURL, *tripPath); err != nil {
			log.Fatal(err)
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func migrate(ctx context.Context, databaseURL, tripPath string) error {
	sqlDB, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	log.Println("Initializing database schema...")
	if err := cache.InitPostgresSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("cache schema initialization failed: %w", err)
	}
	gdb, err := db.OpenGorm(sqlDB)
	if err != nil {
		return err
	}
	if err := repositories.Migrate(gdb); err != nil {
		return fmt.Errorf("record store migration failed: %w", err)
	}
	log.Println("Schema ready.")

	if tripPath == "" {
		return nil
	}

	log.Println("Seeding database...")
	id, err := repositories.SeedFromJSON(ctx, repositories.NewGormTripRepository(gdb), tripPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeding complete. trip_id=%s", id)
	return nil
}
