package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/salesmap/internal/cache"
	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/andresuchdata/salesmap/internal/pipeline/salesreport"
	"github.com/andresuchdata/salesmap/internal/repository"
	"github.com/andresuchdata/salesmap/internal/sheet"
	"github.com/andresuchdata/salesmap/internal/storage"
)

var (
	// ErrInvalidRequest marks caller errors that are not pipeline preconditions.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrReportNotFound is returned when a run has no retrievable workbook.
	ErrReportNotFound = errors.New("report not found")
)

// Input names of the uploaded workbooks.
const (
	InputSales    = "sales"
	InputReturns  = "returns"
	InputLookup   = "zsdc"
	InputContract = "contract"
	InputProduct  = "product"
	InputQuote    = "quote"
	InputPartial  = "partial"
)

// InputNames lists every accepted input, required ones first.
var InputNames = []string{InputSales, InputLookup, InputReturns, InputContract, InputProduct, InputQuote, InputPartial}

// ReportRequest is one report invocation. Files maps input name to raw xlsx bytes.
type ReportRequest struct {
	Variant domain.Variant
	Start   time.Time
	End     time.Time
	Month   int
	M1Price float64
	// M2Groups are used as given; nil means the saved table.
	M2Groups domain.PriceGroups
	Files    map[string][]byte
}

// ReportResult summarizes a finished run.
type ReportResult struct {
	Run             *domain.ReportRun
	FileName        string
	Columns         []string
	Preview         []map[string]any
	DuplicateMonths []int
	Data            []byte
}

// ReportServiceConfig carries the workbook vocabulary and output locations.
type ReportServiceConfig struct {
	InputSheet    string
	QuoteSheet    string
	OutputDir     string
	ObjectPrefix  string
	MidOutputName string
	EndOutputName string
	PreviewRows   int
}

// ReportService runs the sales report pipeline for uploaded workbooks and
// keeps the results retrievable.
type ReportService struct {
	cfg      ReportServiceConfig
	pipeline *salesreport.Pipeline
	prices   *PriceGroupService
	runs     repository.ReportRunRepository
	cache    cache.ReportCache
	store    storage.ObjectStorage
	now      func() time.Time
}

// NewReportService wires the service. prices, runs, cache and store may be nil.
func NewReportService(cfg ReportServiceConfig, prices *PriceGroupService, runs repository.ReportRunRepository, c cache.ReportCache, store storage.ObjectStorage) *ReportService {
	if c == nil {
		c = cache.NewNoopReportCache()
	}
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = 10
	}
	return &ReportService{
		cfg:      cfg,
		pipeline: salesreport.New(),
		prices:   prices,
		runs:     runs,
		cache:    c,
		store:    store,
		now:      time.Now,
	}
}

// Generate decodes the inputs, runs the pipeline and stores the workbook.
// A failed run returns an error and never a partial report.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	if req.Variant != domain.VariantMidMonth && req.Variant != domain.VariantEndOfMonth {
		return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidRequest, req.Variant)
	}

	groups, err := s.resolvePriceGroups(ctx, req)
	if err != nil {
		return nil, err
	}
	m2, dups := groups.Table()
	if len(dups) > 0 {
		log.Warn().Ints("months", dups).Msg("M-2 price groups repeat a month, the last price wins")
	}

	inputs, err := s.decode(ctx, req.Files)
	if err != nil {
		return nil, err
	}

	params := salesreport.Params{
		Start:    req.Start,
		End:      req.End,
		Month:    req.Month,
		Variant:  req.Variant,
		M1Price:  req.M1Price,
		M2Prices: m2,
	}
	if err := s.pipeline.Validate(inputs, params); err != nil {
		return nil, err
	}

	run := &domain.ReportRun{
		ID:        uuid.NewString(),
		Variant:   req.Variant,
		Month:     req.Month,
		StartDate: req.Start,
		EndDate:   req.End,
		Status:    domain.RunStatusPending,
		StartedAt: s.now(),
	}
	logger := log.With().Str("run_id", run.ID).Str("variant", string(run.Variant)).Int("month", run.Month).Logger()
	s.recordStart(ctx, run)
	defer func() {
		if p := recover(); p != nil {
			s.recordFailure(ctx, run, fmt.Errorf("panic: %v", p))
			panic(p)
		}
	}()

	report, err := s.pipeline.Run(inputs, params)
	if err != nil {
		s.recordFailure(ctx, run, err)
		return nil, err
	}

	data, err := sheet.Bytes(report.Columns, report.Rows)
	if err != nil {
		s.recordFailure(ctx, run, err)
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	if err := s.cache.SetFile(ctx, run.ID, data); err != nil {
		logger.Warn().Err(err).Msg("report cache write failed")
	}
	if err := s.writeLocal(run.ID, data); err != nil {
		logger.Warn().Err(err).Msg("report local write failed")
	}
	if s.store != nil {
		key := s.cfg.ObjectPrefix + run.ID + ".xlsx"
		if err := s.store.UploadObject(ctx, key, data); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("report archive failed")
		} else {
			run.ObjectKey = key
		}
	}

	done := s.now()
	run.Status = domain.RunStatusCompleted
	run.TotalRows = report.Len()
	run.CompletedAt = &done
	s.recordUpdate(ctx, run)

	logger.Info().Int("rows", run.TotalRows).Dur("took", done.Sub(run.StartedAt)).Msg("report generated")

	return &ReportResult{
		Run:             run,
		FileName:        s.outputName(req.Variant),
		Columns:         report.Columns,
		Preview:         report.Preview(s.cfg.PreviewRows),
		DuplicateMonths: dups,
		Data:            data,
	}, nil
}

// Download returns the workbook of a finished run, trying the cache, the
// local output directory and the archive in that order.
func (s *ReportService) Download(ctx context.Context, runID string) ([]byte, string, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrReportNotFound, runID)
	}

	name := runID + ".xlsx"
	if data, ok, err := s.cache.GetFile(ctx, runID); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("report cache read failed")
	} else if ok {
		return data, name, nil
	}

	if s.cfg.OutputDir != "" {
		if data, err := os.ReadFile(filepath.Join(s.cfg.OutputDir, name)); err == nil {
			return data, name, nil
		}
	}

	if s.store != nil && s.runs != nil {
		run, err := s.runs.GetRun(ctx, runID)
		if err == nil && run.ObjectKey != "" {
			data, err := s.store.GetObject(ctx, run.ObjectKey)
			if err == nil {
				return data, name, nil
			}
			log.Warn().Err(err).Str("key", run.ObjectKey).Msg("report archive read failed")
		}
	}

	return nil, "", fmt.Errorf("%w: %s", ErrReportNotFound, runID)
}

// Runs lists recent run history, newest first.
func (s *ReportService) Runs(ctx context.Context, limit int) ([]*domain.ReportRun, error) {
	if s.runs == nil {
		return []*domain.ReportRun{}, nil
	}
	return s.runs.ListRuns(ctx, limit)
}

func (s *ReportService) resolvePriceGroups(ctx context.Context, req ReportRequest) (domain.PriceGroups, error) {
	groups := req.M2Groups
	if groups == nil && req.Variant == domain.VariantEndOfMonth && s.prices != nil {
		saved, err := s.prices.Get(ctx)
		if err != nil {
			return nil, err
		}
		groups = saved
	}
	if err := groups.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return groups, nil
}

// decode reads every supplied workbook concurrently. Absent inputs stay nil.
func (s *ReportService) decode(ctx context.Context, files map[string][]byte) (salesreport.Inputs, error) {
	targets := map[string]**domain.RecordSet{}
	var in salesreport.Inputs
	targets[InputSales] = &in.Sales
	targets[InputReturns] = &in.Returns
	targets[InputLookup] = &in.Lookup
	targets[InputContract] = &in.Contracts
	targets[InputProduct] = &in.Products
	targets[InputQuote] = &in.Quotes
	targets[InputPartial] = &in.Partial

	g, _ := errgroup.WithContext(ctx)
	for name, dst := range targets {
		data, ok := files[name]
		if !ok || len(data) == 0 {
			continue
		}
		name, dst := name, dst
		sheetName := s.sheetFor(name)
		g.Go(func() error {
			rs, err := sheet.ReadBytes(data, sheetName)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidRequest, name, err)
			}
			*dst = rs
			log.Debug().Str("input", name).Int("rows", rs.Len()).Msg("workbook decoded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return salesreport.Inputs{}, err
	}
	return in, nil
}

func (s *ReportService) sheetFor(input string) string {
	switch input {
	case InputQuote:
		return s.cfg.QuoteSheet
	case InputPartial:
		return ""
	}
	return s.cfg.InputSheet
}

func (s *ReportService) outputName(v domain.Variant) string {
	if v == domain.VariantEndOfMonth && s.cfg.EndOutputName != "" {
		return s.cfg.EndOutputName
	}
	if s.cfg.MidOutputName != "" {
		return s.cfg.MidOutputName
	}
	return "mapped_report.xlsx"
}

func (s *ReportService) writeLocal(runID string, data []byte) error {
	if s.cfg.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.cfg.OutputDir, runID+".xlsx"), data, 0o644)
}

func (s *ReportService) recordStart(ctx context.Context, run *domain.ReportRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("run_id", run.ID).Msg("failed to record report run")
	}
}

func (s *ReportService) recordUpdate(ctx context.Context, run *domain.ReportRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.UpdateRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("run_id", run.ID).Msg("failed to update report run")
	}
}

func (s *ReportService) recordFailure(ctx context.Context, run *domain.ReportRun, cause error) {
	done := s.now()
	run.Status = domain.RunStatusFailed
	run.CompletedAt = &done
	run.ErrorMessage = cause.Error()
	log.Error().Err(cause).Str("run_id", run.ID).Msg("report run failed")
	s.recordUpdate(ctx, run)
}
