package main

import (
	"context"
	"flag"
	"fmt"
	"itinerary-planner-service/internal/app"
	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/export"
	"itinerary-planner-service/internal/tripfile"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
)

// plan runs one planning pass over a trip file and writes per-day exports.
func main() {
	tripPath := flag.String("trip", "", "trip file (JSON)")
	outDir := flag.String("out", ".", "directory for the per-day exports")
	only := flag.String("day", "", "export only this date (YYYY-MM-DD)")
	withPDF := flag.Bool("pdf", false, "also write a printable PDF per day")
	flag.Parse()

	if *tripPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *tripPath, *outDir, *only, *withPDF); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, tripPath, outDir, only string, withPDF bool) error {
	doc, err := tripfile.Load(tripPath)
	if err != nil {
		return err
	}
	trip, dests, err := doc.ToDomain()
	if err != nil {
		return err
	}

	cfg := config.Load()
	a, err := app.New(ctx, cfg, app.WithMemoryTrips())
	if err != nil {
		return err
	}
	defer a.Close()

	it, err := a.Trips.PlanInline(ctx, trip, dests)
	if err != nil {
		return err
	}

	days := it.Days
	if only != "" {
		date, err := domain.ParseDate(only)
		if err != nil {
			return err
		}
		day := it.Day(date)
		if day == nil {
			return fmt.Errorf("no plan for %s", only)
		}
		days = []*domain.DayPlan{day}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	title := trip.Title
	if title == "" {
		title = "Itinerary"
	}
	for _, day := range days {
		date := day.Date.Format(domain.DateLayout)
		u, err := export.DirectionsURL(cfg.MapsHost, day, trip.Mode)
		if err != nil {
			log.Printf("day=%s directions unavailable: %v", date, err)
		}
		fmt.Printf("%s  %-28s stops=%d  %s\n", date, day.Hotel, day.Count(), u)

		if err := writeFile(filepath.Join(outDir, "day-"+date+".csv"), func(f *os.File) error {
			return export.WriteCSV(f, day)
		}); err != nil {
			return err
		}
		if withPDF {
			if err := writeFile(filepath.Join(outDir, "day-"+date+".pdf"), func(f *os.File) error {
				return export.WritePDF(f, title, day, u)
			}); err != nil {
				return err
			}
		}
	}

	for _, w := range it.Warnings {
		log.Printf("warning kind=%s destination=%q %s", w.Kind, w.Destination, w.Message)
	}
	log.Printf("planned run_id=%s days=%d unresolved=%d unassigned=%d overflowed=%d",
		it.RunID, len(it.Days), it.Unresolved, it.Unassigned, it.Overflowed)
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
