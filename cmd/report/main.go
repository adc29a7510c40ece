package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"complaint-insights-go/internal/aggregate"
	"complaint-insights-go/internal/apiclient"
	"complaint-insights-go/internal/chart"
	"complaint-insights-go/internal/dataset"
	"complaint-insights-go/internal/export"
	"complaint-insights-go/internal/filter"
	"complaint-insights-go/internal/logger"
	"complaint-insights-go/internal/types"
)

func main() {
	_ = godotenv.Load()

	domain := flag.String("domain", "yarn", "complaint domain: yarn or fabric")
	year := flag.String("year", "", "restrict to one calendar year")
	xlsxIn := flag.String("xlsx-in", "", "aggregate an offline .xlsx dump instead of calling the API")
	outDir := flag.String("out", "report", "output directory")
	ratio := flag.Bool("ratio", false, "per-100 mode (requires dispatch stats from the API)")
	charts := flag.Bool("charts", true, "render bar chart PNGs per dimension")
	flag.Parse()

	log := logger.New().WithComponent("report")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	apiBase := os.Getenv("COMPLAINTS_API_URL")
	var client *apiclient.Client
	if apiBase != "" {
		client = apiclient.New(apiBase, logger.New())
	}

	var records []types.Record
	var err error
	switch {
	case *xlsxIn != "":
		log.WithField("path", *xlsxIn).Info("loading offline dump")
		records, err = dataset.Load(*xlsxIn)
	case client != nil:
		records, err = fetchWithRetry(ctx, client, *domain, log)
	default:
		log.Fatal("COMPLAINTS_API_URL not set and no -xlsx-in given")
	}
	if err != nil {
		log.WithError(err).Fatal("failed to load records")
	}
	log.WithField("records", len(records)).Info("records loaded")

	var stats *types.DispatchStats
	if *ratio {
		if client == nil {
			log.Fatal("-ratio needs COMPLAINTS_API_URL for dispatch stats")
		}
		s, err := client.DispatchStats(ctx, nil)
		if err != nil {
			log.WithError(err).Fatal("failed to fetch dispatch stats")
		}
		stats = &s
	}

	state := filter.State{Year: *year}
	records = state.Apply(records)
	log.WithField("included", len(records)).Info("filter applied")

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.WithError(err).Fatal("failed to create output directory")
	}

	ratioDims := map[types.Dimension]bool{
		types.DimUnit: true, types.DimMarket: true,
		types.DimNature: true, types.DimCustomer: true,
	}

	results := make(map[string]types.GroupedResult, len(types.AllDimensions))
	bar := progressbar.Default(int64(len(types.AllDimensions)))
	for _, dim := range types.AllDimensions {
		opts := aggregate.Options{}
		if stats != nil && ratioDims[dim] {
			opts.Ratio = stats
		}
		results[string(dim)] = aggregate.Group(records, dim, opts)
		if *charts {
			png := filepath.Join(*outDir, fmt.Sprintf("%s_%s.png", *domain, dim))
			if err := chart.SaveBar(png, chartTitle(*domain, dim), results[string(dim)]); err != nil {
				log.WithError(err).WithField("dimension", dim).Warn("chart render failed")
			}
		}
		_ = bar.Add(1)
	}

	workbook := filepath.Join(*outDir, fmt.Sprintf("%s_complaints_report.xlsx", *domain))
	if err := export.WriteWorkbook(workbook, results); err != nil {
		log.WithError(err).Fatal("failed to write workbook")
	}
	log.WithField("workbook", workbook).Info("report complete")
}

// fetchWithRetry pulls complaint rows with exponential backoff. Unlike
// the interactive dashboard, the batch path retries transient failures.
func fetchWithRetry(ctx context.Context, client *apiclient.Client, domain string, log *logrus.Entry) ([]types.Record, error) {
	var records []types.Record
	operation := func() error {
		var err error
		records, err = client.Complaints(ctx, domain, nil)
		if err != nil {
			log.WithError(err).Warn("fetch failed, will retry")
		}
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return records, nil
}

func chartTitle(domain string, dim types.Dimension) string {
	return fmt.Sprintf("%s complaints by %s", domain, dim)
}
