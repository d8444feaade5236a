package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethan-geography-nea/price-paid/internal/config"
	"github.com/ethan-geography-nea/price-paid/internal/data"
)

// update-estates refreshes each configured estate's sales CSV from the Land
// Registry open data service. Estates without a postcode are skipped.
func main() {
	var (
		cfgPath    = flag.String("config", "", "Path to YAML config")
		estateName = flag.String("estate", "", "Optional: update a single estate")
		minDate    = flag.String("min-date", "", "Optional lower bound on deed_date (YYYY-MM-DD)")
		maxDate    = flag.String("max-date", "", "Optional upper bound on deed_date (YYYY-MM-DD)")
	)
	flag.Parse()

	logger := logrus.New()

	if *cfgPath == "" {
		logger.Fatal("--config is required")
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	params := data.QueryEstateParams{}
	if *minDate != "" {
		params.MinDate, err = time.Parse(data.DateFormat, *minDate)
		if err != nil {
			logger.Fatalf("invalid --min-date: %v", err)
		}
	}
	if *maxDate != "" {
		params.MaxDate, err = time.Parse(data.DateFormat, *maxDate)
		if err != nil {
			logger.Fatalf("invalid --max-date: %v", err)
		}
	}

	estates := cfg.Estates
	if *estateName != "" {
		e, ok := cfg.Estate(*estateName)
		if !ok {
			logger.Fatalf("estate %q is not configured", *estateName)
		}
		estates = []config.EstateConfig{e}
	}

	client := data.NewLandRegistryClient("", logger)

	for _, estate := range estates {
		if estate.Postcode == "" {
			logger.Warnf("estate %s has no postcode, skipping", estate.Name)
			continue
		}

		params.Postcode = estate.Postcode
		records, err := client.QueryEstate(params)
		if err != nil {
			logger.Fatalf("estate %s: %v", estate.Name, err)
		}
		if err := data.WriteSaleCSV(estate.SalesFile, records); err != nil {
			logger.Fatalf("estate %s: write %s: %v", estate.Name, estate.SalesFile, err)
		}
		fmt.Printf("Saved %d sale records to %s\n", len(records), estate.SalesFile)
	}
}
