package salesreport

import (
	"time"

	"github.com/andresuchdata/salesmap/internal/domain"
)

// normalize filters rs to entry dates within [start, end], projects the
// common sales/returns columns and inverts quantity and amount. Rows whose
// entry date does not parse are dropped by the range check. The bounds are
// whole calendar days, so an entry at 18:30 on the end date is kept.
func normalize(rs *domain.RecordSet, start, end time.Time) []LineItem {
	if rs.Empty() {
		return nil
	}
	from, to := dateOnly(start), dateOnly(end)

	items := make([]LineItem, 0, rs.Len())
	for _, rec := range rs.Records {
		entry, ok := parseDate(rec.Get(colEntryDate))
		if !ok {
			continue
		}
		day := dateOnly(entry)
		if day.Before(from) || day.After(to) {
			continue
		}

		posting, hasPosting := parseDate(rec.Get(colPostingDate))
		items = append(items, LineItem{
			Material:    rec.Get(colMaterial),
			Plant:       rec.Get(colPlant),
			Customer:    rec.Get(colCustomer),
			SalesItem:   rec.Get(colSalesItem),
			Amount:      negate(toFloat(rec.Get(colAmount))),
			Quantity:    negate(toFloat(rec.Get(colQuantity))),
			PostingDate: posting,
			HasPosting:  hasPosting,
			Unit:        rec.Get(colUnit),
			EntryDate:   entry,
			rawRefDoc:   rec.Get(colRefDoc),
			rawItem:     rec.Get(colItem),
			rawSalesDoc: rec.Get(colSalesDoc),
		})
	}
	return items
}
