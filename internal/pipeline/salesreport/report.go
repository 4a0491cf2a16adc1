package salesreport

import (
	"github.com/andresuchdata/salesmap/internal/domain"
)

// postingDateLayout is the report's posting date format.
const postingDateLayout = "2006/01/02"

// Report is the ordered output table. Cells are string, int64, int or float64.
type Report struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Preview returns the first n rows keyed by column, for display.
func (r *Report) Preview(n int) []map[string]any {
	if n > r.Len() || n < 0 {
		n = r.Len()
	}
	out := make([]map[string]any, 0, n)
	for _, row := range r.Rows[:n] {
		m := make(map[string]any, len(r.Columns))
		for i, col := range r.Columns {
			m[col] = row[i]
		}
		out = append(out, m)
	}
	return out
}

// Row renders the record in OutputColumns order.
func (r *EnrichedRecord) Row() []any {
	posting := ""
	if r.HasPosting {
		posting = r.PostingDate.Format(postingDateLayout)
	}
	var orderMonth any = ""
	if r.OrderMonth != nil {
		orderMonth = *r.OrderMonth
	}
	return []any{
		r.RefDoc,
		r.Material,
		r.Description,
		r.ProductGroup,
		r.Plant,
		r.ProductLine,
		r.Department,
		r.Channel,
		r.Customer,
		r.CustomerName,
		r.SalesDoc,
		r.SalesItem,
		r.Item,
		r.Amount,
		r.Quantity,
		posting,
		r.Unit,
		r.UnitCopper,
		r.CopperQty,
		r.ContractNo,
		r.PurchaseOrder,
		r.Classification,
		r.QuoteNo,
		r.QuotedPrice,
		r.QuotedCost,
		numericOrText(r.ExchangeRate),
		orderMonth,
		r.Salesperson,
	}
}

// buildReport projects an optional earlier report onto the output columns,
// then appends the computed records. No deduplication happens between them.
func buildReport(partial *domain.RecordSet, records []*EnrichedRecord) *Report {
	rep := &Report{
		Columns: append([]string(nil), OutputColumns...),
		Rows:    make([][]any, 0, partial.Len()+len(records)),
	}
	if partial != nil {
		for _, rec := range partial.Records {
			row := make([]any, len(OutputColumns))
			for i, col := range OutputColumns {
				row[i] = numericOrText(rec.Get(col))
			}
			rep.Rows = append(rep.Rows, row)
		}
	}
	for _, r := range records {
		rep.Rows = append(rep.Rows, r.Row())
	}
	return rep
}
