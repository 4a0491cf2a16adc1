package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/salesmap/internal/cache"
	"github.com/andresuchdata/salesmap/internal/config"
	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/andresuchdata/salesmap/internal/drive"
	"github.com/andresuchdata/salesmap/internal/pipeline"
	"github.com/andresuchdata/salesmap/internal/repository"
	"github.com/andresuchdata/salesmap/internal/repository/postgres"
	"github.com/andresuchdata/salesmap/internal/service"
	"github.com/andresuchdata/salesmap/internal/storage"
	"github.com/andresuchdata/salesmap/pkg/logger"
)

const dateLayout = "2006-01-02"

func reportFlags() []cli.Flag {
	return []cli.Flag{
		newDBURLFlag(false),
		&cli.StringFlag{Name: "variant", Value: "mid", Usage: "mid or end (月中 / 月底)"},
		&cli.StringFlag{Name: "start", Required: true, Usage: "First entry date, YYYY-MM-DD"},
		&cli.StringFlag{Name: "end", Required: true, Usage: "Last entry date, YYYY-MM-DD"},
		&cli.IntFlag{Name: "month", Value: int(time.Now().Month()), Usage: "Reference month 1-12"},
		&cli.Float64Flag{Name: "m1-price", Usage: "M-1 copper price (end of month)"},
		&cli.StringFlag{Name: "m2", Usage: "M-2 copper prices as month:price pairs, e.g. 5:250,6:262.5"},
		&cli.StringFlag{Name: "out", Usage: "Output xlsx path (defaults to the configured report name)"},
	}
}

func inputFileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{Name: service.InputSales, Required: true, Usage: "41110000 sales export"},
		&cli.PathFlag{Name: service.InputLookup, Required: true, Usage: "zsdc export"},
		&cli.PathFlag{Name: service.InputReturns, Usage: "41700000 returns export"},
		&cli.PathFlag{Name: service.InputContract, Usage: "Contract management sheet"},
		&cli.PathFlag{Name: service.InputProduct, Usage: "Product group sheet"},
		&cli.PathFlag{Name: service.InputQuote, Usage: "Quote information sheet (end of month)"},
		&cli.PathFlag{Name: service.InputPartial, Usage: "Earlier report to prepend"},
	}
}

// parseM2Groups reads "month:price" pairs separated by commas, in order.
func parseM2Groups(s string) (domain.PriceGroups, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var groups domain.PriceGroups
	for _, pair := range strings.Split(s, ",") {
		m, p, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("m2 entry %q must be month:price", pair)
		}
		month, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil {
			return nil, fmt.Errorf("m2 entry %q: bad month", pair)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("m2 entry %q: bad price", pair)
		}
		groups = append(groups, domain.PriceGroup{Month: month, Price: price})
	}
	return groups, groups.Validate()
}

func buildRequest(c *cli.Context) (service.ReportRequest, error) {
	variant, err := domain.ParseVariant(c.String("variant"))
	if err != nil {
		return service.ReportRequest{}, err
	}
	start, err := time.Parse(dateLayout, c.String("start"))
	if err != nil {
		return service.ReportRequest{}, fmt.Errorf("--start must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, c.String("end"))
	if err != nil {
		return service.ReportRequest{}, fmt.Errorf("--end must be YYYY-MM-DD")
	}
	groups, err := parseM2Groups(c.String("m2"))
	if err != nil {
		return service.ReportRequest{}, err
	}
	return service.ReportRequest{
		Variant:  variant,
		Start:    start,
		End:      end,
		Month:    c.Int("month"),
		M1Price:  c.Float64("m1-price"),
		M2Groups: groups,
		Files:    map[string][]byte{},
	}, nil
}

func newReportService(c *cli.Context, cfg *config.Config) *service.ReportService {
	var (
		runs   repository.ReportRunRepository
		prices *service.PriceGroupService
	)
	if db := dbFrom(c); db != nil {
		runs = pipeline.NewRepository(db)
		prices = service.NewPriceGroupService(postgres.NewPriceGroupRepository(postgres.Wrap(db, "pgx")), nil)
	}
	return service.NewReportService(service.ReportServiceConfig{
		InputSheet:    cfg.Report.InputSheet,
		QuoteSheet:    cfg.Report.QuoteSheet,
		MidOutputName: cfg.Report.MidOutputName,
		EndOutputName: cfg.Report.EndOutputName,
		PreviewRows:   cfg.Report.PreviewRows,
	}, prices, runs, nil, nil)
}

func runLocal(c *cli.Context, cfg *config.Config) error {
	req, err := buildRequest(c)
	if err != nil {
		return err
	}
	for _, name := range service.InputNames {
		path := c.Path(name)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		req.Files[name] = data
	}

	res, err := newReportService(c, cfg).Generate(c.Context, req)
	if err != nil {
		return err
	}
	return writeResult(c, res)
}

func runDrive(c *cli.Context, cfg *config.Config) error {
	req, err := buildRequest(c)
	if err != nil {
		return err
	}

	creds := c.String("credentials")
	if creds == "" {
		creds = cfg.Drive.CredentialsJSON
	}
	driveService, err := drive.NewService(creds)
	if err != nil {
		return err
	}
	ingest := drive.NewIngestService(drive.NewFetcher(driveService), newReportService(c, cfg)).
		KeepInputs(c.String("download-dir"))

	res, err := ingest.RunFolder(c.Context, c.String("folder-id"), req)
	if err != nil {
		return err
	}
	return writeResult(c, res)
}

func writeResult(c *cli.Context, res *service.ReportResult) error {
	out := c.String("out")
	if out == "" {
		out = res.FileName
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	if len(res.DuplicateMonths) > 0 {
		logger.Log.Warn().Ints("months", res.DuplicateMonths).Msg("M-2 months entered more than once; the last price was used")
	}
	logger.Log.Info().
		Str("run_id", res.Run.ID).
		Str("variant", string(res.Run.Variant)).
		Int("rows", res.Run.TotalRows).
		Str("out", out).
		Msg("report written")
	return nil
}

func listRuns(c *cli.Context) error {
	runs, err := pipeline.NewRepository(dbFrom(c)).ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tMONTH\tRANGE\tSTATUS\tROWS\tSTARTED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s..%s\t%s\t%d\t%s\n",
			r.ID, r.Variant, r.Month,
			r.StartDate.Format(dateLayout), r.EndDate.Format(dateLayout),
			r.Status, r.TotalRows, r.StartedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func migrate(c *cli.Context) error {
	sqlText, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}
	if _, err := dbFrom(c).ExecContext(c.Context, string(sqlText)); err != nil {
		return fmt.Errorf("failed to apply migration: %w", err)
	}
	logger.Log.Info().Str("file", c.String("file")).Msg("migration applied")
	return nil
}

func archiveStore(cfg *config.Config) (*storage.MinioClient, error) {
	if !cfg.Storage.Enabled {
		return nil, fmt.Errorf("report storage is disabled, set STORAGE_ENABLED=true")
	}
	return storage.NewMinioClient(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
	})
}

func listArchive(c *cli.Context, cfg *config.Config) error {
	store, err := archiveStore(cfg)
	if err != nil {
		return err
	}
	objects, err := store.ListObjects(c.Context, cfg.Storage.Prefix)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSIZE")
	for _, o := range objects {
		fmt.Fprintf(w, "%s\t%d\n", o.Key, o.Size)
	}
	return w.Flush()
}

func getArchive(c *cli.Context, cfg *config.Config) error {
	store, err := archiveStore(cfg)
	if err != nil {
		return err
	}
	runID := c.String("run-id")
	out := c.String("out")
	if out == "" {
		out = runID + ".xlsx"
	}
	key := cfg.Storage.Prefix + runID + ".xlsx"
	if err := store.DownloadObject(c.Context, key, out); err != nil {
		return err
	}
	logger.Log.Info().Str("key", key).Str("out", out).Msg("archived report downloaded")
	return nil
}

func purgeCache(c *cli.Context, cfg *config.Config) error {
	if !cfg.Cache.Enabled {
		logger.Log.Info().Msg("cache disabled, nothing to purge")
		return nil
	}
	rc, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		return err
	}
	if err := rc.InvalidateAll(c.Context); err != nil {
		return err
	}
	logger.Log.Info().Msg("report cache purged")
	return nil
}
