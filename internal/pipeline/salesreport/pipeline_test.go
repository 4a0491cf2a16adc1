package salesreport

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/andresuchdata/salesmap/internal/domain"
)

var salesColumns = []string{
	colRefDoc, colItem, colMaterial, colPlant, colCustomer, colSalesDoc,
	colSalesItem, colAmount, colQuantity, colPostingDate, colUnit, colEntryDate,
}

var contractColumns = []string{
	colContractNo, colContractProductLine, colContractChannel, colContractDepartment,
	colContractQuoteNo, colContractRate, colContractSales, colContractCopper,
}

func salesRow(doc, item, material, salesDoc, amount, qty, entry string) []string {
	return []string{doc, item, material, "P100", "C001", salesDoc, "10", amount, qty, "2024-05-09", "M", entry}
}

func may2024() Params {
	return Params{
		Start:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		Month:   7,
		Variant: domain.VariantMidMonth,
	}
}

func mustRecords(t *testing.T, in Inputs, p Params) []*EnrichedRecord {
	t.Helper()
	records, err := New().Records(in, p)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	return records
}

func TestPipeline_SingleSalesRecordScenario(t *testing.T) {
	t.Parallel()

	in := Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1001", "10", "A1", "5001", "1000", "5", "2024-05-10"),
		}),
		Lookup: domain.NewRecordSet(zsdcColumns, [][]string{
			{"1001", "10", "Wire", "2.0", "5001", "Acme", "K-1", "PO 07-1=Y extra"},
		}),
	}
	records := mustRecords(t, in, may2024())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Quantity != -5 || r.Amount != -1000 {
		t.Fatalf("sign inversion: qty=%v amount=%v", r.Quantity, r.Amount)
	}
	if r.Key != "1001_10" || r.Material != "A1" || r.Description != "Wire" {
		t.Fatalf("lookup join: key=%q material=%q desc=%q", r.Key, r.Material, r.Description)
	}
	if r.CopperQty != -10 {
		t.Fatalf("copper qty: got %v want -10", r.CopperQty)
	}
	if r.CustomerName != "Acme" || r.ContractNo != "K-1" {
		t.Fatalf("prior doc join: name=%q contract=%q", r.CustomerName, r.ContractNo)
	}
	if r.Classification != LabelLongTermCurrent {
		t.Fatalf("classification: got %q", r.Classification)
	}
}

func TestPipeline_ReturnsAreInvertedLikeSales(t *testing.T) {
	t.Parallel()

	in := Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1001", "10", "A1", "5001", "1000", "5", "2024-05-10"),
		}),
		Returns: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("2001", "20", "A1", "5001", "-300", "-2", "2024-05-11"),
		}),
		Lookup: domain.NewRecordSet(zsdcColumns, nil),
	}
	records := mustRecords(t, in, may2024())
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Key != "1001_10" || records[1].Key != "2001_20" {
		t.Fatalf("sales must precede returns: %q, %q", records[0].Key, records[1].Key)
	}
	if records[1].Quantity != 2 || records[1].Amount != 300 {
		t.Fatalf("returns inversion: qty=%v amount=%v", records[1].Quantity, records[1].Amount)
	}
}

func TestPipeline_EntryDateFilterIsInclusive(t *testing.T) {
	t.Parallel()

	in := Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1", "1", "A", "9", "1", "1", "2024-04-30"),
			salesRow("2", "1", "A", "9", "1", "1", "2024-05-01"),
			salesRow("3", "1", "A", "9", "1", "1", "2024-05-31 18:30:00"),
			salesRow("4", "1", "A", "9", "1", "1", "2024-06-01"),
			salesRow("5", "1", "A", "9", "1", "1", "not a date"),
		}),
		Lookup: domain.NewRecordSet(zsdcColumns, nil),
	}
	records := mustRecords(t, in, may2024())
	if len(records) != 2 || records[0].RefDoc != 2 || records[1].RefDoc != 3 {
		t.Fatalf("unexpected filtered rows: %d", len(records))
	}
}

func TestPipeline_LookupDuplicatesFirstWins(t *testing.T) {
	t.Parallel()

	in := Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1001", "10", "A1", "5001", "1", "1", "2024-05-10"),
		}),
		Lookup: domain.NewRecordSet(zsdcColumns, [][]string{
			{"1001", "10", "First", "1.5", "5001", "Acme", "K-1", ""},
			{"1001", "10", "Second", "9.9", "5001", "Other", "K-2", ""},
		}),
	}
	r := mustRecords(t, in, may2024())[0]
	if r.Description != "First" || r.UnitCopper != 1.5 || r.CustomerName != "Acme" {
		t.Fatalf("first-wins violated: %q %v %q", r.Description, r.UnitCopper, r.CustomerName)
	}
}

func TestPipeline_MissingContractFallsBackToEmpty(t *testing.T) {
	t.Parallel()

	in := Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1001", "10", "A1", "5001", "1", "1", "2024-05-10"),
		}),
		Lookup: domain.NewRecordSet(zsdcColumns, [][]string{
			{"1001", "10", "Wire", "2", "5001", "Acme", "NOPE", ""},
		}),
		Contracts: domain.NewRecordSet(contractColumns, [][]string{
			{"K-1", "銅通信電纜", "電力", "公電業務部/營業一課", "Q1", "30.5", "Lin", "200"},
		}),
	}
	r := mustRecords(t, in, may2024())[0]
	for name, v := range map[string]string{
		"product line": r.ProductLine, "channel": r.Channel, "department": r.Department,
		"quote": r.QuoteNo, "rate": r.ExchangeRate, "salesperson": r.Salesperson,
	} {
		if v != "" {
			t.Fatalf("%s: expected empty, got %q", name, v)
		}
	}
	if r.QuotedPrice != 0 || r.QuotedCost != 0 {
		t.Fatalf("unmatched contract priced: %v %v", r.QuotedPrice, r.QuotedCost)
	}
	row := r.Row()
	if len(row) != len(OutputColumns) {
		t.Fatalf("row width %d != %d", len(row), len(OutputColumns))
	}
}

func TestPipeline_ContractJoinRelabelsAndPrices(t *testing.T) {
	t.Parallel()

	in := Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1001", "10", "A1", "5001", "1", "4", "2024-05-10"),
		}),
		Lookup: domain.NewRecordSet(zsdcColumns, [][]string{
			{"1001", "10", "Wire", "2", "5001", "Acme", "12345", ""},
		}),
		Contracts: domain.NewRecordSet(contractColumns, [][]string{
			{"12345.0", "光通信電纜", "經銷專案-特定", "公電業務部/營業一課", "Q1", "30.5", "Lin", "200"},
		}),
	}
	r := mustRecords(t, in, may2024())[0]
	if r.ProductLine != "通信" || r.Channel != "經銷專案" {
		t.Fatalf("relabel: line=%q channel=%q", r.ProductLine, r.Channel)
	}
	if r.Classification != LabelPublicPower {
		t.Fatalf("classification: %q", r.Classification)
	}
	if r.QuotedPrice != 200 || r.QuotedCost != 200*-8 {
		t.Fatalf("pricing: price=%v cost=%v", r.QuotedPrice, r.QuotedCost)
	}
}

func endOfMonthInputs() Inputs {
	return Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1", "1", "A", "501", "1", "1", "2024-05-10"),
			salesRow("2", "1", "A", "502", "1", "1", "2024-05-10"),
			salesRow("3", "1", "A", "503", "1", "1", "2024-05-10"),
		}),
		Lookup: domain.NewRecordSet(zsdcColumns, [][]string{
			{"1", "1", "W", "3", "501", "N1", "K-1", "PO 07-1=Y extra"},
			{"2", "1", "W", "3", "502", "N2", "K-2", "PO 05-1=Y extra"},
			{"3", "1", "W", "3", "503", "N3", "K-3", "PO 06-1=Y extra"},
		}),
		Contracts: domain.NewRecordSet(contractColumns, [][]string{
			{"K-1", "", "", "", "Q1", "30", "", "100"},
			{"K-2", "", "", "", "Q2", "30", "", "100"},
			{"K-3", "", "", "", "Q3", "30", "", "100"},
		}),
		Quotes: domain.NewRecordSet([]string{colQuoteContractNo, colQuoteCopper, colQuoteRate}, [][]string{
			{"K-3", "180", ""},
		}),
	}
}

func TestPipeline_EndOfMonthResolvesCopperPrices(t *testing.T) {
	t.Parallel()

	p := may2024()
	p.Variant = domain.VariantEndOfMonth
	p.M1Price = 310
	p.M2Prices = map[int]float64{5: 250.0}

	records := mustRecords(t, endOfMonthInputs(), p)
	m1, m2, other := records[0], records[1], records[2]

	if m1.Classification != LabelLongTermCurrent || m1.QuotedPrice != 310 || m1.QuotedCost != 310*-3 {
		t.Fatalf("M-1: %q price=%v cost=%v", m1.Classification, m1.QuotedPrice, m1.QuotedCost)
	}
	if m2.Classification != LabelLongTermPrior || m2.OrderMonth == nil || *m2.OrderMonth != 5 {
		t.Fatalf("M-2 classification: %q %v", m2.Classification, m2.OrderMonth)
	}
	if m2.QuotedPrice != 250.0 || m2.QuotedCost != 250.0*m2.CopperQty {
		t.Fatalf("M-2 price=%v cost=%v", m2.QuotedPrice, m2.QuotedCost)
	}
	// order month 6 has no M-2 price: the quote override stands.
	if other.QuotedPrice != 180 || other.ExchangeRate != "30" {
		t.Fatalf("quote override: price=%v rate=%q", other.QuotedPrice, other.ExchangeRate)
	}
}

func TestPipeline_MidMonthSkipsCopperOverrides(t *testing.T) {
	t.Parallel()

	p := may2024()
	p.M1Price = 310
	p.M2Prices = map[int]float64{5: 250.0}

	for _, r := range mustRecords(t, endOfMonthInputs(), p) {
		if r.QuotedPrice != 100 {
			t.Fatalf("mid-month must keep contract price, got %v for %q", r.QuotedPrice, r.Key)
		}
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	t.Parallel()

	p := may2024()
	p.Variant = domain.VariantEndOfMonth
	p.M2Prices = map[int]float64{5: 250.0}

	pl := New()
	first, err := pl.Run(endOfMonthInputs(), p)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := pl.Run(endOfMonthInputs(), p)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("runs differ")
	}
	if p.M2Prices[5] != 250.0 || len(p.M2Prices) != 1 {
		t.Fatalf("price table mutated: %v", p.M2Prices)
	}
}

func TestPipeline_ProductGroupJoin(t *testing.T) {
	t.Parallel()

	in := Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1001", "10", "A1", "5001", "1000", "5", "2024-05-10"),
			salesRow("1002", "10", "B2", "5001", "1000", "5", "2024-05-10"),
			salesRow("1003", "10", "700123", "5001", "1000", "5", "2024-05-10"),
		}),
		Lookup: domain.NewRecordSet(zsdcColumns, nil),
		Products: domain.NewRecordSet([]string{colProductMaterial, colProductGroup}, [][]string{
			{"A1", "G1"},
			{"A1", "G2"},
			{"700123.0", "G3"},
			{"", "ignored"},
		}),
	}
	records := mustRecords(t, in, may2024())

	want := []string{"G1", "", "G3"}
	for i, r := range records {
		if r.ProductGroup != want[i] {
			t.Fatalf("record %d (%s): product group %q want %q", i, r.Material, r.ProductGroup, want[i])
		}
	}

	rep, err := New().Run(in, may2024())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Rows[0][3] != "G1" || rep.Rows[1][3] != "" {
		t.Fatalf("product group column: %v, %v", rep.Rows[0][3], rep.Rows[1][3])
	}
}

func TestPipeline_EmptyOptionalInputs(t *testing.T) {
	t.Parallel()

	empty := func(cols []string) *domain.RecordSet { return domain.NewRecordSet(cols, nil) }
	in := Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1001", "10", "A1", "5001", "1000", "5", "2024-05-10"),
		}),
		Returns:   empty(salesColumns),
		Lookup:    empty(zsdcColumns),
		Contracts: empty(contractColumns),
		Products:  empty([]string{colProductMaterial, colProductGroup}),
		Quotes:    empty([]string{colQuoteContractNo, colQuoteCopper, colQuoteRate}),
	}
	p := may2024()
	p.Variant = domain.VariantEndOfMonth

	rep, err := New().Run(in, p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Len() != 1 || len(rep.Columns) != len(OutputColumns) {
		t.Fatalf("unexpected report shape: rows=%d cols=%d", rep.Len(), len(rep.Columns))
	}
	row := rep.Rows[0]
	if row[2] != "" || row[17] != 0.0 || row[21] != LabelNone {
		t.Fatalf("fallbacks: desc=%v unit=%v class=%v", row[2], row[17], row[21])
	}
}

func TestPipeline_Preconditions(t *testing.T) {
	t.Parallel()

	sales := domain.NewRecordSet(salesColumns, nil)
	lookup := domain.NewRecordSet(zsdcColumns, nil)
	narrowSales := domain.NewRecordSet(
		[]string{colRefDoc, colItem, colMaterial, colSalesDoc, colQuantity},
		[][]string{{"1001", "10", "A1", "5001", "5"}},
	)
	narrowLookup := domain.NewRecordSet(
		[]string{colZsdcDoc, colZsdcItem, colZsdcDesc, colZsdcNetWeight},
		[][]string{{"1001", "10", "Wire", "2.0"}},
	)
	p := may2024()

	cases := []struct {
		name string
		in   Inputs
		p    Params
		want error
	}{
		{"missing sales", Inputs{Lookup: lookup}, p, ErrMissingSales},
		{"missing lookup", Inputs{Sales: sales}, p, ErrMissingLookup},
		{"bad month", Inputs{Sales: sales, Lookup: lookup}, Params{Start: p.Start, End: p.End, Month: 13}, ErrInvalidMonth},
		{"inverted range", Inputs{Sales: sales, Lookup: lookup}, Params{Start: p.End, End: p.Start, Month: 5}, ErrInvalidDateRange},
		{"sales lacks columns", Inputs{Sales: narrowSales, Lookup: lookup}, p, ErrMissingColumn},
		{"zsdc uploaded as sales", Inputs{Sales: lookup, Lookup: lookup}, p, ErrMissingColumn},
		{"returns lack entry date", Inputs{Sales: sales, Returns: narrowSales, Lookup: lookup}, p, ErrMissingColumn},
		{"zsdc lacks prior document", Inputs{Sales: sales, Lookup: narrowLookup}, p, ErrMissingColumn},
	}
	for _, tc := range cases {
		_, err := New().Run(tc.in, tc.p)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
	if !errors.Is(ErrMissingSales, ErrMissingInput) || !errors.Is(ErrMissingLookup, ErrMissingInput) ||
		!errors.Is(ErrMissingColumn, ErrMissingInput) {
		t.Fatalf("missing-input sentinels must wrap ErrMissingInput")
	}
}

func TestPipeline_PartialReportIsPrepended(t *testing.T) {
	t.Parallel()

	partial := domain.NewRecordSet(OutputColumns, [][]string{
		{"999", "OLD", "Old wire"},
	})
	in := Inputs{
		Sales: domain.NewRecordSet(salesColumns, [][]string{
			salesRow("1001", "10", "A1", "5001", "1000", "5", "2024-05-10"),
		}),
		Lookup:  domain.NewRecordSet(zsdcColumns, nil),
		Partial: partial,
	}
	rep, err := New().Run(in, may2024())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", rep.Len())
	}
	if rep.Rows[0][0] != 999.0 || rep.Rows[0][1] != "OLD" || rep.Rows[0][3] != "" {
		t.Fatalf("partial row: %v", rep.Rows[0][:4])
	}
	if rep.Rows[1][0] != int64(1001) || rep.Rows[1][15] != "2024/05/09" {
		t.Fatalf("computed row: doc=%v posting=%v", rep.Rows[1][0], rep.Rows[1][15])
	}
	preview := rep.Preview(1)
	if len(preview) != 1 || preview[0][OutMaterial] != "OLD" {
		t.Fatalf("preview: %v", preview)
	}
}
