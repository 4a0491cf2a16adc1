package salesreport

import (
	"strings"

	"github.com/andresuchdata/salesmap/internal/domain"
)

// contractTerm is the commercial terms of one contract.
type contractTerm struct {
	ProductLine  string
	Channel      string
	Department   string
	QuoteNo      string
	ExchangeRate string
	Salesperson  string
	CopperPrice  string
}

// quoteOverride is the month-end quote information for one contract.
type quoteOverride struct {
	CopperPrice  string
	ExchangeRate string
}

// productLineLabels collapses the cable families into report product lines.
var productLineLabels = map[string]string{
	"銅通信電纜": "通信",
	"光通信電纜": "通信",
}

// channelLabels collapses the contract channels into report channels.
var channelLabels = map[string]string{
	"電力":        "經銷長約",
	"經銷專案-特定":   "經銷專案",
	"電力專案":      "專案",
	"經銷專案-產電":   "經銷專案產電",
	"電力專案-產電":   "經銷專案產電",
	"經銷專案-特開":   "經銷專案",
	"經銷專案-新商模":  "經銷專案",
	"經銷專案-綠能電力": "經銷專案",
	"經銷專案-類長約":  "經銷專案",
}

func relabel(labels map[string]string, v string) string {
	if mapped, ok := labels[v]; ok {
		return mapped
	}
	return v
}

// joinLookup attaches the material description and unit copper weight by
// composite key. The record's own material code is kept.
func joinLookup(records []*EnrichedRecord, t lookupTables) {
	for _, r := range records {
		entry, _ := t.byLine.Lookup(r.Key)
		r.Description = entry.Description
		r.UnitCopper = toFloat(entry.NetWeight)
	}
}

// joinPriorDocument attaches customer name, contract number and purchase
// order text by sales document.
func joinPriorDocument(records []*EnrichedRecord, t lookupTables) {
	for _, r := range records {
		entry, _ := t.byPriorDoc.Lookup(r.SalesDoc)
		r.CustomerName = entry.BillTo
		r.ContractNo = entry.ContractNo
		r.PurchaseOrder = entry.PurchaseOrder
	}
}

// deriveCopper computes copper quantity from unit copper weight and quantity.
func deriveCopper(records []*EnrichedRecord) {
	for _, r := range records {
		r.CopperQty = product(r.UnitCopper, r.Quantity)
	}
}

func buildContractIndex(rs *domain.RecordSet) *Index[string, contractTerm] {
	ix := newIndex[string, contractTerm](rs.Len())
	if rs.Empty() {
		return ix
	}
	for _, rec := range rs.Records {
		key := normalizeKey(rec.Get(colContractNo))
		if key == "" {
			continue
		}
		ix.add(key, contractTerm{
			ProductLine:  rec.Get(colContractProductLine),
			Channel:      rec.Get(colContractChannel),
			Department:   rec.Get(colContractDepartment),
			QuoteNo:      rec.Get(colContractQuoteNo),
			ExchangeRate: rec.Get(colContractRate),
			Salesperson:  rec.Get(colContractSales),
			CopperPrice:  rec.Get(colContractCopper),
		})
	}
	return ix
}

// joinContracts attaches the contract terms, relabels product line and
// channel, and prices the copper at the quoted contract price. Unmatched
// contracts leave every contract field empty and the price at 0.
func joinContracts(records []*EnrichedRecord, ix *Index[string, contractTerm]) {
	for _, r := range records {
		term, _ := ix.Lookup(normalizeKey(r.ContractNo))
		r.ProductLine = relabel(productLineLabels, term.ProductLine)
		r.Channel = relabel(channelLabels, term.Channel)
		r.Department = term.Department
		r.QuoteNo = term.QuoteNo
		r.ExchangeRate = term.ExchangeRate
		r.Salesperson = term.Salesperson
		r.ProductGroup = ""
		r.QuotedPrice = toFloat(term.CopperPrice)
		r.QuotedCost = product(r.QuotedPrice, r.CopperQty)
	}
}

func buildProductIndex(rs *domain.RecordSet) *Index[string, string] {
	ix := newIndex[string, string](rs.Len())
	if rs.Empty() {
		return ix
	}
	for _, rec := range rs.Records {
		key := normalizeKey(rec.Get(colProductMaterial))
		if key == "" {
			continue
		}
		ix.add(key, rec.Get(colProductGroup))
	}
	return ix
}

// joinProducts overwrites the product group by material code.
func joinProducts(records []*EnrichedRecord, ix *Index[string, string]) {
	for _, r := range records {
		group, _ := ix.Lookup(normalizeKey(r.Material))
		r.ProductGroup = group
	}
}

func buildQuoteIndex(rs *domain.RecordSet) *Index[string, quoteOverride] {
	ix := newIndex[string, quoteOverride](rs.Len())
	if rs.Empty() {
		return ix
	}
	for _, rec := range rs.Records {
		key := normalizeKey(rec.Get(colQuoteContractNo))
		if key == "" {
			continue
		}
		ix.add(key, quoteOverride{
			CopperPrice:  rec.Get(colQuoteCopper),
			ExchangeRate: rec.Get(colQuoteRate),
		})
	}
	return ix
}

// joinQuotes replaces copper price and exchange rate where the quote sheet
// has a value for the contract. Blank quote cells leave the prior value.
func joinQuotes(records []*EnrichedRecord, ix *Index[string, quoteOverride]) {
	for _, r := range records {
		q, ok := ix.Lookup(normalizeKey(r.ContractNo))
		if ok {
			if strings.TrimSpace(q.CopperPrice) != "" {
				r.QuotedPrice = toFloat(q.CopperPrice)
			}
			if strings.TrimSpace(q.ExchangeRate) != "" {
				r.ExchangeRate = q.ExchangeRate
			}
		}
		r.QuotedCost = product(r.QuotedPrice, r.CopperQty)
	}
}
