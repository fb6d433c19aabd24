package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aptrade/internal/collector"
	"aptrade/internal/config"
	"aptrade/internal/export"
	"aptrade/internal/frame"
	"aptrade/internal/molit"
	"aptrade/internal/notify"
	"aptrade/internal/region"
	"aptrade/internal/schema"
	"aptrade/internal/sheets"
	"aptrade/internal/storage"
	"aptrade/internal/transform"
	"aptrade/internal/window"
)

var (
	flagMonthsBack int
	flagOutputDir  string
	flagFormat     string
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect transactions for the recent month window and export them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cmd.Flags().Changed("months-back") {
			cfg.MonthsBack = flagMonthsBack
		}
		if cmd.Flags().Changed("output-dir") {
			cfg.OutputDir = flagOutputDir
		}
		if cmd.Flags().Changed("format") {
			cfg.ExportFormat = flagFormat
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return newRunner().collect(cmd.Context(), cfg)
	},
}

func init() {
	collectCmd.Flags().IntVar(&flagMonthsBack, "months-back", 4, "number of months to collect, ending at the current month")
	collectCmd.Flags().StringVar(&flagOutputDir, "output-dir", "./out", "directory the export file is written to")
	collectCmd.Flags().StringVar(&flagFormat, "format", "csv", "export format (csv or xlsx)")
	rootCmd.AddCommand(collectCmd)
}

// runner holds the constructors for the run's external collaborators, so
// tests can substitute the upstream API and the region directory.
type runner struct {
	fetcher func(cfg *config.Config) collector.Fetcher
	regions func(ctx context.Context, cfg *config.Config) (*region.Directory, error)
}

func newRunner() *runner {
	return &runner{
		fetcher: func(cfg *config.Config) collector.Fetcher {
			return molit.NewClient(cfg.ServiceKey, cfg.APIBaseURL, cfg.PageSize)
		},
		regions: loadRegionDirectory,
	}
}

// loadRegionDirectory loads the region directory through the sqlite cache.
// The cache is an optimization; a broken cache never blocks a run.
func loadRegionDirectory(ctx context.Context, cfg *config.Config) (*region.Directory, error) {
	var cache region.Cache
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.WarnContext(ctx, "Region cache unavailable, continuing without it",
			"error", err, "path", cfg.SQLiteDBPath)
	} else {
		defer repo.Close()
		cache = repo
	}
	return region.NewLoader(cfg.RegionCodeURL, cache, cfg.RegionCacheTTL).Load(ctx)
}

// collect drives one collection run end to end.
func (r *runner) collect(ctx context.Context, cfg *config.Config) error {
	if strings.TrimSpace(cfg.ServiceKey) == "" {
		printServiceKeyGuidance()
		return nil
	}

	runID := uuid.NewString()
	slog.InfoContext(ctx, "Starting collection run", "run_id", runID)

	w, err := window.Calc(time.Now(), cfg.MonthsBack)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Collection window", "start", w.Start, "end", w.End)

	sch, err := schema.Load()
	if err != nil {
		return err
	}

	dir, err := r.regions(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load region directory: %w", err)
	}

	results := collector.New(r.fetcher(cfg), dir, sch.Fields).Run(ctx, w)
	tally := collector.TallyResults(results)

	combined := frame.Concat(collector.Frames(results))
	if combined.Len() == 0 {
		slog.WarnContext(ctx, "No transaction data collected, nothing to export",
			"run_id", runID, "window", w.String())
		return nil
	}
	slog.InfoContext(ctx, "Merged per-region tables", "rows", combined.Len())

	final := transform.Finalize(combined, sch)

	exporter, err := export.New(cfg.OutputDir, cfg.OutputPrefix, export.Format(cfg.ExportFormat))
	if err != nil {
		return err
	}
	path, err := exporter.Write(final, w)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	slog.InfoContext(ctx, "Export complete",
		"run_id", runID,
		"path", path,
		"rows", final.Len(),
		"regions_with_data", tally.WithData,
		"regions_empty", tally.Empty,
		"regions_failed", tally.Failed)

	uploadToSheets(ctx, cfg, final)
	publishSummary(ctx, cfg, notify.RunSummary{
		RunID:           runID,
		WindowStart:     w.Start,
		WindowEnd:       w.End,
		RegionsWithData: tally.WithData,
		RegionsEmpty:    tally.Empty,
		RegionsFailed:   tally.Failed,
		Rows:            final.Len(),
		OutputPath:      path,
		Timestamp:       time.Now(),
	})

	return nil
}

// uploadToSheets pushes the final table to Google Sheets when configured.
// The export already succeeded, so upload problems only warn.
func uploadToSheets(ctx context.Context, cfg *config.Config, final *frame.Frame) {
	if cfg.GoogleSpreadsheetID == "" {
		return
	}
	uploader, err := sheets.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		slog.WarnContext(ctx, "Google Sheets upload skipped", "error", err)
		return
	}
	if err := uploader.Upload(ctx, final); err != nil {
		slog.WarnContext(ctx, "Google Sheets upload failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Uploaded table to Google Sheets",
		"spreadsheet_id", cfg.GoogleSpreadsheetID, "rows", final.Len())
}

// publishSummary notifies downstream consumers when AMQP is configured.
func publishSummary(ctx context.Context, cfg *config.Config, summary notify.RunSummary) {
	if cfg.AMQPURL == "" {
		return
	}
	client, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.WarnContext(ctx, "AMQP unavailable, run summary not published", "error", err)
		return
	}
	defer client.Close()
	if err := client.PublishRunSummary(ctx, summary); err != nil {
		slog.WarnContext(ctx, "Failed to publish run summary", "error", err)
	}
}

func printServiceKeyGuidance() {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("MOLIT_SERVICE_KEY is not set. No API calls were made.")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()
	fmt.Println("Set the key in a .env file at the project root:")
	fmt.Println()
	fmt.Println("  cp .env.example .env")
	fmt.Println("  # then edit .env:")
	fmt.Println("  MOLIT_SERVICE_KEY=your-decoded-service-key")
	fmt.Println()
	fmt.Println("How to get a key:")
	fmt.Println("  1. Register at the public data portal (https://www.data.go.kr/)")
	fmt.Println("  2. Request access to '국토교통부 아파트매매 실거래 상세 자료'")
	fmt.Println("  3. Copy the issued decoded (일반 인증키) service key into .env")
	fmt.Println(strings.Repeat("=", 72))
}
