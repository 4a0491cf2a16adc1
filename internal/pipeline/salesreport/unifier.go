package salesreport

import (
	"strconv"

	"github.com/andresuchdata/salesmap/internal/domain"
)

// zsdcEntry is the material attributes of one billing line.
type zsdcEntry struct {
	Description string
	NetWeight   string
}

// priorDocEntry is the order-level attributes keyed by the prior (sales) document.
type priorDocEntry struct {
	BillTo        string
	ContractNo    string
	PurchaseOrder string
}

// lookupTables are the two zsdc indexes.
type lookupTables struct {
	byLine     *Index[string, zsdcEntry]
	byPriorDoc *Index[int64, priorDocEntry]
}

func compositeKey(doc, item int64) string {
	return strconv.FormatInt(doc, 10) + "_" + strconv.FormatInt(item, 10)
}

// unify concatenates sales then returns, types the identifiers and builds
// the composite key of every record.
func unify(sales, returns []LineItem) []*EnrichedRecord {
	records := make([]*EnrichedRecord, 0, len(sales)+len(returns))
	for _, set := range [][]LineItem{sales, returns} {
		for _, item := range set {
			item.RefDoc = toInt(item.rawRefDoc)
			item.Item = toInt(item.rawItem)
			item.SalesDoc = toInt(item.rawSalesDoc)
			item.Key = compositeKey(item.RefDoc, item.Item)
			records = append(records, &EnrichedRecord{LineItem: item})
		}
	}
	return records
}

// buildLookup keys the zsdc sheet the same way as the unified records and
// drops duplicate keys, keeping the first row. The prior-document index is
// built from the deduplicated rows, also first-wins.
func buildLookup(rs *domain.RecordSet) lookupTables {
	t := lookupTables{
		byLine:     newIndex[string, zsdcEntry](rs.Len()),
		byPriorDoc: newIndex[int64, priorDocEntry](rs.Len()),
	}
	if rs.Empty() {
		return t
	}
	for _, rec := range rs.Records {
		key := compositeKey(toInt(rec.Get(colZsdcDoc)), toInt(rec.Get(colZsdcItem)))
		kept := t.byLine.add(key, zsdcEntry{
			Description: rec.Get(colZsdcDesc),
			NetWeight:   rec.Get(colZsdcNetWeight),
		})
		if !kept {
			continue
		}
		t.byPriorDoc.add(toInt(rec.Get(colZsdcPriorDoc)), priorDocEntry{
			BillTo:        rec.Get(colZsdcBillTo),
			ContractNo:    rec.Get(colZsdcContract),
			PurchaseOrder: rec.Get(colZsdcPurchaseNo),
		})
	}
	return t
}
