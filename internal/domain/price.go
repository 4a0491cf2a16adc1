// internal/domain/price.go
package domain

import (
	"fmt"
	"sort"
	"time"
)

// PriceGroup is one user-entered M-2 copper price for an order month.
type PriceGroup struct {
	Month int     `json:"month" db:"month"`
	Price float64 `json:"price" db:"price"`
}

// PriceGroups is the caller-owned list of M-2 prices, in entry order.
type PriceGroups []PriceGroup

// Validate rejects months outside 1-12.
func (g PriceGroups) Validate() error {
	for i, grp := range g {
		if grp.Month < 1 || grp.Month > 12 {
			return fmt.Errorf("price group %d: month %d out of range 1-12", i+1, grp.Month)
		}
	}
	return nil
}

// Table folds the groups into a month -> price map. A month entered more
// than once keeps its last price; the repeated months are returned sorted
// so the caller can warn about them.
func (g PriceGroups) Table() (map[int]float64, []int) {
	table := make(map[int]float64, len(g))
	seen := make(map[int]bool, len(g))
	var dups []int
	for _, grp := range g {
		if seen[grp.Month] {
			if !containsInt(dups, grp.Month) {
				dups = append(dups, grp.Month)
			}
		}
		seen[grp.Month] = true
		table[grp.Month] = grp.Price
	}
	sort.Ints(dups)
	return table, dups
}

// DefaultPriceGroups returns the single group offered before anything is stored:
// two months back, wrapping to October early in the year.
func DefaultPriceGroups(now time.Time) PriceGroups {
	month := int(now.Month())
	if month > 2 {
		month -= 2
	} else {
		month = 10
	}
	return PriceGroups{{Month: month, Price: 0}}
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
