package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/salesmap/internal/domain"
)

// ErrRunNotFound is returned when a report run id is unknown.
var ErrRunNotFound = errors.New("report run not found")

// ReportRunRepository records the history of report runs.
type ReportRunRepository interface {
	CreateRun(ctx context.Context, run *domain.ReportRun) error
	UpdateRun(ctx context.Context, run *domain.ReportRun) error
	GetRun(ctx context.Context, id string) (*domain.ReportRun, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.ReportRun, error)
}

// PriceGroupRepository stores the saved M-2 price table.
type PriceGroupRepository interface {
	GetPriceGroups(ctx context.Context) (domain.PriceGroups, error)
	ReplacePriceGroups(ctx context.Context, groups domain.PriceGroups) error
}
