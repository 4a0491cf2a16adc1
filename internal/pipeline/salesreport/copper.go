package salesreport

// applyCopperPrices sets the M-1 price on current-month long-term records
// and looks up the M-2 price by order month. M-2 records without an order
// month, or whose month has no price, keep their contract or quote price.
func applyCopperPrices(records []*EnrichedRecord, m1 float64, m2 map[int]float64) {
	for _, r := range records {
		switch r.Classification {
		case LabelLongTermCurrent:
			r.QuotedPrice = m1
		case LabelLongTermPrior:
			if r.OrderMonth == nil {
				continue
			}
			if price, ok := m2[*r.OrderMonth]; ok {
				r.QuotedPrice = price
			}
		}
	}
}

// recomputeCost sets the final quoted copper cost of every record.
func recomputeCost(records []*EnrichedRecord) {
	for _, r := range records {
		r.QuotedCost = product(r.QuotedPrice, r.CopperQty)
	}
}
