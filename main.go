package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"github.com/alexpolo1/newolddkprice/config"
	"github.com/alexpolo1/newolddkprice/models"
	"github.com/alexpolo1/newolddkprice/scraper"
	"github.com/alexpolo1/newolddkprice/scraper/dba"
	"github.com/alexpolo1/newolddkprice/scraper/pricerunner"
	"github.com/alexpolo1/newolddkprice/services"
	"github.com/alexpolo1/newolddkprice/storage"
	"github.com/alexpolo1/newolddkprice/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLoggerTo(os.Stderr, utils.ParseLevel(cfg.LogLevel))

	opts, err := config.ParseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Error("%v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, opts, logger, os.Stdout)
	stop()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

// run performs one search: fetch, filter, print and export.
func run(ctx context.Context, cfg *config.Config, opts *config.Options, logger *utils.Logger, out io.Writer) error {
	logger.Info("=== dkprice starting ===")
	logger.Info("Searching for: %s", opts.Query)

	fetcher := scraper.NewFetcher(cfg, logger)
	pacer := utils.NewPacer(cfg.PacingDelayMs)

	dbaScraper := dba.New(cfg, logger, fetcher, scraper.NewRenderer(cfg, logger))
	var dbaListings []models.Listing
	err := pacer.Do(func() error {
		var err error
		dbaListings, err = dbaScraper.Search(ctx, opts.Query, opts.Engine, opts.Max)
		return err
	})
	if err != nil {
		return fmt.Errorf("error while scraping DBA: %w", err)
	}

	var prListings []models.Listing
	if opts.WantPriceRunner() {
		prScraper := pricerunner.New(cfg, logger, fetcher)
		err := pacer.Do(func() error {
			var err error
			prListings, err = prScraper.Search(ctx, opts.Query, opts.Max)
			return err
		})
		if err != nil {
			logger.Warn("Error while scraping PriceRunner, continuing without it: %v", err)
			prListings = nil
		}
	}

	dbaListings, prListings = applyPriceFilter(opts, logger, dbaListings, prListings)
	logger.Info("Found %d items on DBA", len(dbaListings))

	if err := render(out, opts, logger, dbaListings, prListings); err != nil {
		return err
	}

	all := make([]models.Listing, 0, len(dbaListings)+len(prListings))
	all = append(all, dbaListings...)
	all = append(all, prListings...)
	return export(ctx, cfg, opts, logger, all)
}

func applyPriceFilter(opts *config.Options, logger *utils.Logger, dbaListings, prListings []models.Listing) ([]models.Listing, []models.Listing) {
	minPrice := services.ParsePriceBound(opts.MinPrice)
	maxPrice := services.ParsePriceBound(opts.MaxPrice)
	if !minPrice.Valid && !maxPrice.Valid {
		return dbaListings, prListings
	}

	filteredDBA := services.FilterByRange(dbaListings, minPrice, maxPrice)
	filteredPR := services.FilterByRange(prListings, minPrice, maxPrice)
	logger.Info("Applied price filter: min=%s max=%s. DBA: %d->%d, PR: %d->%d",
		boundLabel(minPrice), boundLabel(maxPrice),
		len(dbaListings), len(filteredDBA), len(prListings), len(filteredPR))
	return filteredDBA, filteredPR
}

func boundLabel(p models.Price) string {
	if !p.Valid {
		return "none"
	}
	return p.String()
}

// render writes the output selected by the flags. JSON mode writes only the
// DBA listings so stdout stays machine-readable.
func render(out io.Writer, opts *config.Options, logger *utils.Logger, dbaListings, prListings []models.Listing) error {
	if opts.JSON {
		w := storage.NewJSONWriter(out)
		if err := w.Write(dbaListings); err != nil {
			return err
		}
		return w.Close()
	}

	report := services.NewReport(out)
	switch {
	case opts.Top > 0 && !opts.Compare:
		report.PrintTop(dbaListings, opts.Top)
	case opts.Compare:
		rows := services.PairRows(services.SortByPrice(dbaListings), services.SortByPrice(prListings), opts.Rows())
		switch opts.Format {
		case config.FormatMarkdown:
			report.PrintMarkdown(rows)
		case config.FormatGrid:
			report.PrintGrid(rows)
		default:
			report.PrintTable(rows)
		}
	default:
		if opts.PriceRunner {
			fmt.Fprintf(out, "Found %d items on PriceRunner\n\n", len(prListings))
		}
		report.PrintSorted(dbaListings, opts.Max)
	}

	insights := services.NewInsightService(logger)
	summaries := []models.PriceSummary{insights.Generate(models.SiteDBA, dbaListings)}
	if opts.WantPriceRunner() {
		summaries = append(summaries, insights.Generate(models.SitePriceRunner, prListings))
	}
	insights.Print(out, summaries...)
	return nil
}

// export writes listings to the -export file and to PostgreSQL when a DSN
// is configured. All sinks share one run id.
func export(ctx context.Context, cfg *config.Config, opts *config.Options, logger *utils.Logger, listings []models.Listing) error {
	if opts.ExportPath == "" && cfg.ExportPostgresDSN == "" {
		return nil
	}

	runID := uuid.NewString()
	var errs []error

	if opts.ExportPath != "" {
		w, err := storage.Open(opts.ExportPath, runID)
		if err == nil {
			err = writeAndClose(w, listings)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("export to %s: %w", opts.ExportPath, err))
		} else {
			logger.Info("Exported %d listings to %s (run %s)", len(listings), opts.ExportPath, runID)
		}
	}

	if cfg.ExportPostgresDSN != "" {
		pw, err := storage.NewPostgresWriter(ctx, cfg.ExportPostgresDSN, runID)
		if err == nil {
			err = writeAndClose(pw, listings)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("export to PostgreSQL: %w", err))
		} else {
			logger.Info("Exported %d listings to PostgreSQL table price_listings (run %s)", len(listings), runID)
		}
	}

	return errors.Join(errs...)
}

func writeAndClose(w storage.ListingWriter, listings []models.Listing) error {
	if err := w.Write(listings); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
