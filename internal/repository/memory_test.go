package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/salesmap/internal/domain"
)

func TestMemoryStore_Runs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		run := &domain.ReportRun{ID: id, Status: domain.RunStatusPending, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := m.CreateRun(ctx, run); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	run, err := m.GetRun(ctx, "b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	run.Status = domain.RunStatusCompleted
	run.TotalRows = 12
	if err := m.UpdateRun(ctx, run); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ := m.GetRun(ctx, "b"); got.Status != domain.RunStatusCompleted || got.TotalRows != 12 {
		t.Fatalf("update not stored: %+v", got)
	}

	runs, _ := m.ListRuns(ctx, 2)
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("unexpected list order")
	}

	if _, err := m.GetRun(ctx, "zzz"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if err := m.UpdateRun(ctx, &domain.ReportRun{ID: "zzz"}); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound on update, got %v", err)
	}
}

func TestMemoryStore_PriceGroupsAreCopied(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemoryStore()
	groups := domain.PriceGroups{{Month: 5, Price: 250}}
	if err := m.ReplacePriceGroups(ctx, groups); err != nil {
		t.Fatalf("replace: %v", err)
	}
	groups[0].Price = 1

	got, _ := m.GetPriceGroups(ctx)
	if len(got) != 1 || got[0].Price != 250 {
		t.Fatalf("store shares caller slice: %+v", got)
	}
}
