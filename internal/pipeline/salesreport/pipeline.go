package salesreport

import (
	"errors"
	"fmt"

	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	// ErrMissingInput is the precondition failure for an absent required sheet.
	ErrMissingInput = errors.New("required input missing")
	// ErrMissingSales is returned when the sales export is absent.
	ErrMissingSales = fmt.Errorf("%w: sales (41110000)", ErrMissingInput)
	// ErrMissingLookup is returned when the zsdc export is absent.
	ErrMissingLookup = fmt.Errorf("%w: zsdc", ErrMissingInput)
	// ErrMissingColumn is returned when a required sheet lacks one of its columns.
	ErrMissingColumn = fmt.Errorf("%w: required column absent", ErrMissingInput)
	// ErrInvalidMonth is returned for a reference month outside 1-12.
	ErrInvalidMonth = errors.New("reference month must be between 1 and 12")
	// ErrInvalidDateRange is returned when the start date is after the end date.
	ErrInvalidDateRange = errors.New("start date is after end date")
)

// Pipeline turns the ERP exports into the reconciled daily sales report.
// It holds no per-run state and is safe to reuse.
type Pipeline struct {
	classifier *Classifier
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithRules replaces the default classification rule chain.
func WithRules(rules []Rule) Option {
	return func(p *Pipeline) {
		p.classifier = NewClassifier(rules)
	}
}

// New creates a pipeline with the default rule chain.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{classifier: NewClassifier(DefaultRules())}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the unique identifier of this pipeline.
func (p *Pipeline) Name() string {
	return "sales_report"
}

// Validate checks the run preconditions without touching any data.
func (p *Pipeline) Validate(in Inputs, params Params) error {
	if in.Sales == nil {
		return ErrMissingSales
	}
	if in.Lookup == nil {
		return ErrMissingLookup
	}
	if err := requireColumns("sales", in.Sales, lineColumns); err != nil {
		return err
	}
	if !in.Returns.Empty() {
		if err := requireColumns("returns", in.Returns, lineColumns); err != nil {
			return err
		}
	}
	if err := requireColumns("zsdc", in.Lookup, zsdcColumns); err != nil {
		return err
	}
	if params.Month < 1 || params.Month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, params.Month)
	}
	if dateOnly(params.Start).After(dateOnly(params.End)) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			params.Start.Format("2006-01-02"), params.End.Format("2006-01-02"))
	}
	return nil
}

func requireColumns(sheet string, rs *domain.RecordSet, cols []string) error {
	for _, col := range cols {
		if !rs.HasColumn(col) {
			return fmt.Errorf("%w: %s has no %q column", ErrMissingColumn, sheet, col)
		}
	}
	return nil
}

// Records runs every stage and returns the enriched records in input order
// (sales first, then returns).
func (p *Pipeline) Records(in Inputs, params Params) ([]*EnrichedRecord, error) {
	if err := p.Validate(in, params); err != nil {
		return nil, err
	}

	// 1) Load and normalize
	sales := normalize(in.Sales, params.Start, params.End)
	returns := normalize(in.Returns, params.Start, params.End)
	log.Debug().Str("stage", "load").Int("sales", len(sales)).Int("returns", len(returns)).Msg("sales report: filtered by entry date")

	// 2) Unify
	records := unify(sales, returns)
	lookup := buildLookup(in.Lookup)
	log.Debug().Str("stage", "unify").Int("rows", len(records)).Int("zsdc_keys", lookup.byLine.Len()).Msg("sales report: unified")

	// 3) Enrich
	joinLookup(records, lookup)
	joinPriorDocument(records, lookup)
	deriveCopper(records)
	if !in.Contracts.Empty() {
		joinContracts(records, buildContractIndex(in.Contracts))
	}
	if !in.Products.Empty() {
		joinProducts(records, buildProductIndex(in.Products))
	}

	// 4) Classify
	p.classifier.Classify(records, params.Month)

	// 5) Month-end overrides
	if params.Variant == domain.VariantEndOfMonth {
		if !in.Quotes.Empty() {
			joinQuotes(records, buildQuoteIndex(in.Quotes))
		}
		applyCopperPrices(records, params.M1Price, params.M2Prices)
	}
	recomputeCost(records)

	log.Debug().Str("stage", "resolve").Str("variant", string(params.Variant)).Int("rows", len(records)).Msg("sales report: copper cost resolved")
	return records, nil
}

// Run produces the report, prepending the partial report when one is given.
func (p *Pipeline) Run(in Inputs, params Params) (*Report, error) {
	records, err := p.Records(in, params)
	if err != nil {
		return nil, err
	}
	return buildReport(in.Partial, records), nil
}
