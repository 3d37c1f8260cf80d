// Command report prints the monthly consumption report for the snapshotted
// state, without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/messmate/messmate-backend/internal/export"
	"github.com/messmate/messmate-backend/internal/snapshot"
	"github.com/messmate/messmate-backend/internal/stats"
	"github.com/messmate/messmate-backend/pkg/config"
	"github.com/messmate/messmate-backend/pkg/logger"
)

func main() {
	now := time.Now()
	year := flag.Int("year", now.Year(), "report year")
	month := flag.Int("month", int(now.Month()), "report month (1-12)")
	format := flag.String("format", "json", "output format: json or csv")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "report", Output: os.Stderr})

	if *month < 1 || *month > 12 {
		fmt.Fprintf(os.Stderr, "invalid month %d\n", *month)
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	store, err := snapshot.New(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap snapshot store", err)
		os.Exit(1)
	}
	defer store.Close()

	state := store.Load(context.Background())
	report := stats.Monthly(state.Usage, state.Items, state.Meals, *year, time.Month(*month))

	switch *format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			logg.Error(context.Background(), "failed to encode report", err)
			os.Exit(1)
		}
	case "csv":
		fmt.Printf("# most used items, %d-%02d\n", *year, *month)
		if err := export.WriteCSV(os.Stdout, export.TopItemsTable(report.MostUsedItems)); err != nil {
			logg.Error(context.Background(), "failed to write report", err)
			os.Exit(1)
		}
		fmt.Printf("\n# items needing restock\n")
		if err := export.WriteCSV(os.Stdout, export.RestockTable(report.ItemsNeedRestocking)); err != nil {
			logg.Error(context.Background(), "failed to write report", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		os.Exit(2)
	}
}
