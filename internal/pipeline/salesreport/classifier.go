package salesreport

import (
	"strconv"
	"strings"
)

// Classification labels.
const (
	LabelLongTermCurrent = "經銷長約(M-1)"
	LabelLongTermPrior   = "經銷長約(M-2)"
	LabelNone            = "無"
	LabelCivilPower      = "民電"
	LabelPublicPower     = "公電"
	LabelExport          = "外銷"
	LabelTelecom         = "通信"
)

// longTermMarker tags a purchase order as a long-term distribution call-off.
const longTermMarker = "-1=Y"

// Snapshot is the read-only view of a record a rule is evaluated against.
type Snapshot struct {
	PurchaseOrder string
	CopperQty     float64
	Department    string
	ProductLine   string
}

// Rule assigns a label to a snapshot, or "" when it does not apply.
type Rule struct {
	Name  string
	Apply func(s Snapshot, month int) string
}

// DefaultRules is the ordered rule chain of the daily sales report.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "long-term-distribution", Apply: classifyLongTerm},
		{Name: "zero-copper", Apply: when(func(s Snapshot) bool { return s.CopperQty == 0 }, LabelNone)},
		{Name: "civil-power", Apply: when(departmentIn("民電業務部/營業一課", "民電業務部/營業三課"), LabelCivilPower)},
		{Name: "public-power", Apply: when(departmentIn("公電業務部/營業一課", "公電業務部/營業二課"), LabelPublicPower)},
		{Name: "export", Apply: when(departmentPrefixIn("產業", "國際"), LabelExport)},
		{Name: "telecom", Apply: when(func(s Snapshot) bool { return s.ProductLine == "通信" }, LabelTelecom)},
	}
}

func when(pred func(Snapshot) bool, label string) func(Snapshot, int) string {
	return func(s Snapshot, _ int) string {
		if pred(s) {
			return label
		}
		return ""
	}
}

func departmentIn(values ...string) func(Snapshot) bool {
	return func(s Snapshot) bool {
		for _, v := range values {
			if s.Department == v {
				return true
			}
		}
		return false
	}
}

func departmentPrefixIn(prefixes ...string) func(Snapshot) bool {
	return func(s Snapshot) bool {
		head := firstRunes(s.Department, 2)
		for _, p := range prefixes {
			if head == p {
				return true
			}
		}
		return false
	}
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// classifyLongTerm reads the order month from the second space-separated
// token of the purchase order ("PO 07-1=Y ..."). The current reference month
// is M-1, earlier months are M-2, later months do not classify.
func classifyLongTerm(s Snapshot, month int) string {
	if !strings.Contains(s.PurchaseOrder, longTermMarker) {
		return ""
	}
	parts := strings.Split(s.PurchaseOrder, " ")
	if len(parts) < 2 {
		return ""
	}
	prefix, _, _ := strings.Cut(parts[1], "-1=")
	mm, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return ""
	}
	switch {
	case mm == month:
		return LabelLongTermCurrent
	case mm < month:
		return LabelLongTermPrior
	}
	return ""
}

// extractOrderMonth takes the two characters before the marker once spaces
// are removed, and accepts them only as a month 1-12.
func extractOrderMonth(po string) (int, bool) {
	if !strings.Contains(po, longTermMarker) {
		return 0, false
	}
	compact := strings.ReplaceAll(po, " ", "")
	head, _, found := strings.Cut(compact, longTermMarker)
	if !found {
		return 0, false
	}
	r := []rune(head)
	if len(r) > 2 {
		r = r[len(r)-2:]
	}
	mm, err := strconv.Atoi(string(r))
	if err != nil || mm < 1 || mm > 12 {
		return 0, false
	}
	return mm, true
}

// Classifier runs an ordered, first-match-wins rule chain.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier over rules, evaluated in slice order.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Label returns the first non-empty rule outcome for s, or "".
func (c *Classifier) Label(s Snapshot, month int) string {
	for _, rule := range c.rules {
		if label := rule.Apply(s, month); label != "" {
			return label
		}
	}
	return ""
}

// Classify labels every record and sets the order month of M-2 records.
func (c *Classifier) Classify(records []*EnrichedRecord, month int) {
	for _, r := range records {
		r.Classification = c.Label(snapshotOf(r), month)
		r.OrderMonth = nil
		if r.Classification == LabelLongTermPrior {
			if mm, ok := extractOrderMonth(r.PurchaseOrder); ok {
				r.OrderMonth = &mm
			}
		}
	}
}

func snapshotOf(r *EnrichedRecord) Snapshot {
	return Snapshot{
		PurchaseOrder: r.PurchaseOrder,
		CopperQty:     r.CopperQty,
		Department:    r.Department,
		ProductLine:   r.ProductLine,
	}
}
