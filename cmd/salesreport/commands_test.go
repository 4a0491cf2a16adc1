package main

import "testing"

func TestParseM2Groups(t *testing.T) {
	t.Parallel()

	groups, err := parseM2Groups(" 5:250, 6:262.5 ,5:300")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(groups) != 3 || groups[1].Month != 6 || groups[1].Price != 262.5 {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	table, dups := groups.Table()
	if table[5] != 300 || len(dups) != 1 {
		t.Fatalf("last write must win: %v %v", table, dups)
	}

	if g, err := parseM2Groups(""); err != nil || g != nil {
		t.Fatalf("empty flag: %v %v", g, err)
	}
	for _, bad := range []string{"5", "x:1", "5:y", "13:1"} {
		if _, err := parseM2Groups(bad); err == nil {
			t.Fatalf("%q accepted", bad)
		}
	}
}
