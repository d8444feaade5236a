package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ethan-geography-nea/price-paid/internal/analysis"
	"github.com/ethan-geography-nea/price-paid/internal/config"
	"github.com/ethan-geography-nea/price-paid/internal/data"
	"github.com/ethan-geography-nea/price-paid/internal/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --config examples/config.yaml [--estate barbican]")
	fmt.Println("  cli rank --sales estates/barbican.csv --min-sales 3 --min-span-days 7300")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run writes a raw-price pivot CSV and an excess-appreciation CSV per estate")
	fmt.Println("  - rank prints qualifying properties scored by span(days) * sales * 0.5")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	estateName := fs.String("estate", "", "Optional: run a single configured estate")
	verbose := fs.Bool("v", false, "Debug logging")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	logger := newLogger(*verbose)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	estates := cfg.Estates
	if *estateName != "" {
		e, ok := cfg.Estate(*estateName)
		if !ok {
			logger.Fatalf("estate %q is not configured", *estateName)
		}
		estates = []config.EstateConfig{e}
	}

	for _, estate := range estates {
		res, err := pipeline.Run(pipeline.ParamsFor(cfg, estate), logger)
		if err != nil {
			logger.Fatalf("estate %s: %v", estate.Name, err)
		}
		fmt.Printf("%s: selected %d properties (%s to %s), wrote %d price rows to %s and %d diff rows to %s\n",
			estate.Name,
			len(res.Selected),
			res.MinDate.Format(data.DateFormat),
			res.MaxDate.Format(data.DateFormat),
			res.PriceRows, estate.PriceTable,
			res.DiffRows, estate.DiffTable,
		)
	}
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	salesPath := fs.String("sales", "", "Path to price-paid CSV")
	minSales := fs.Int("min-sales", config.DefaultMinSaleCount, "Reject series with fewer sales")
	minSpanDays := fs.Int64("min-span-days", config.DefaultMinSpanDays, "Reject series spanning fewer days")
	limit := fs.Int("n", 0, "Optional: keep only the top N series (0=all)")
	verbose := fs.Bool("v", false, "Debug logging")
	_ = fs.Parse(args)

	if *salesPath == "" {
		fmt.Println("--sales is required")
		os.Exit(2)
	}

	logger := newLogger(*verbose)

	sales, err := data.LoadSaleCSV(*salesPath, logger)
	if err != nil {
		logger.Fatalf("read sale records: %v", err)
	}

	var topN *int
	if *limit > 0 {
		topN = limit
	}
	ranked, err := analysis.Rank(
		data.GroupByProperty(sales),
		analysis.MinSaleCount(*minSales),
		analysis.MinSpanDays(*minSpanDays),
		topN,
	)
	if err != nil {
		logger.Fatalf("rank series: %v", err)
	}

	fmt.Printf("%-4s %-40s %-8s %-10s %-12s %-12s %-12s\n", "rank", "property", "sales", "span(d)", "first", "last", "score")
	for i, dp := range ranked {
		fmt.Printf("%-4d %-40s %-8d %-10d %-12s %-12s %-12.1f\n",
			i+1,
			dp.Key.Label(),
			dp.Series.Count(),
			dp.Series.SpanDays(),
			dp.First.Format(data.DateFormat),
			dp.Last.Format(data.DateFormat),
			dp.Score,
		)
	}
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
