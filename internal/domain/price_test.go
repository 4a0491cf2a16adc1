package domain

import (
	"testing"
	"time"
)

func TestPriceGroups_TableLastWriteWins(t *testing.T) {
	t.Parallel()

	groups := PriceGroups{
		{Month: 5, Price: 250},
		{Month: 6, Price: 260},
		{Month: 5, Price: 255},
		{Month: 5, Price: 251},
	}
	table, dups := groups.Table()

	if got := table[5]; got != 251 {
		t.Fatalf("month 5 want=251 got=%v", got)
	}
	if got := table[6]; got != 260 {
		t.Fatalf("month 6 want=260 got=%v", got)
	}
	if len(dups) != 1 || dups[0] != 5 {
		t.Fatalf("dups want=[5] got=%v", dups)
	}
}

func TestPriceGroups_Validate(t *testing.T) {
	t.Parallel()

	if err := (PriceGroups{{Month: 1}, {Month: 12}}).Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := (PriceGroups{{Month: 0}}).Validate(); err == nil {
		t.Fatalf("expected error for month 0")
	}
	if err := (PriceGroups{{Month: 13}}).Validate(); err == nil {
		t.Fatalf("expected error for month 13")
	}
}

func TestDefaultPriceGroups(t *testing.T) {
	t.Parallel()

	cases := []struct {
		month time.Month
		want  int
	}{
		{time.July, 5},
		{time.March, 1},
		{time.February, 10},
		{time.January, 10},
	}
	for _, tc := range cases {
		got := DefaultPriceGroups(time.Date(2025, tc.month, 15, 0, 0, 0, 0, time.UTC))
		if len(got) != 1 || got[0].Month != tc.want || got[0].Price != 0 {
			t.Fatalf("month %v want default month %d got %+v", tc.month, tc.want, got)
		}
	}
}

func TestParseVariant(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Variant{
		"mid":          VariantMidMonth,
		"Mid-Month":    VariantMidMonth,
		"月中":           VariantMidMonth,
		"end":          VariantEndOfMonth,
		"end-of-month": VariantEndOfMonth,
		"月底":           VariantEndOfMonth,
	} {
		got, err := ParseVariant(in)
		if err != nil || got != want {
			t.Fatalf("ParseVariant(%q) want=%v got=%v err=%v", in, want, got, err)
		}
	}
	if _, err := ParseVariant("weekly"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestNewRecordSet_PadsShortRows(t *testing.T) {
	t.Parallel()

	rs := NewRecordSet([]string{"a", "b", "c"}, [][]string{{"1"}, {"1", "2", "3"}})
	if rs.Len() != 2 {
		t.Fatalf("len want=2 got=%d", rs.Len())
	}
	if v, ok := rs.Records[0]["c"]; !ok || v != "" {
		t.Fatalf("short row should be padded, got %q ok=%v", v, ok)
	}
	var absent *RecordSet
	if !absent.Empty() || absent.HasColumn("a") || absent.Len() != 0 {
		t.Fatalf("nil record set should behave as empty")
	}
}
