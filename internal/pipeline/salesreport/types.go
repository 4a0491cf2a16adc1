package salesreport

import (
	"time"

	"github.com/andresuchdata/salesmap/internal/domain"
)

// LineItem is one sales or returns row after date filtering, projection and
// sign inversion. Identifiers are typed by the unifier.
type LineItem struct {
	RefDoc      int64
	Item        int64
	Material    string
	Plant       string
	Customer    string
	SalesDoc    int64
	SalesItem   string
	Amount      float64
	Quantity    float64
	PostingDate time.Time
	HasPosting  bool
	Unit        string
	EntryDate   time.Time
	Key         string

	rawRefDoc   string
	rawItem     string
	rawSalesDoc string
}

// EnrichedRecord is a LineItem carrying every joined and derived attribute.
// It is mutated in place by the enricher, classifier and copper resolver.
type EnrichedRecord struct {
	LineItem

	Description   string
	UnitCopper    float64
	CustomerName  string
	ContractNo    string
	PurchaseOrder string
	CopperQty     float64

	ProductLine  string
	Channel      string
	Department   string
	QuoteNo      string
	ExchangeRate string
	Salesperson  string
	ProductGroup string

	QuotedPrice float64
	QuotedCost  float64

	Classification string
	OrderMonth     *int
}

// Inputs are the decoded workbooks of one run. Sales and Lookup are
// required; any other nil set behaves as empty.
type Inputs struct {
	Sales     *domain.RecordSet
	Returns   *domain.RecordSet
	Lookup    *domain.RecordSet
	Contracts *domain.RecordSet
	Products  *domain.RecordSet
	Quotes    *domain.RecordSet
	// Partial is a previously exported report prepended to the output.
	Partial *domain.RecordSet
}

// Params are the caller-supplied settings of one run.
type Params struct {
	Start   time.Time
	End     time.Time
	Month   int
	Variant domain.Variant
	M1Price float64
	// M2Prices maps order month to M-2 copper price. The pipeline only reads it.
	M2Prices map[int]float64
}
