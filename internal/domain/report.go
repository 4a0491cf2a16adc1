// internal/domain/report.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Variant selects which trailing pipeline stages run.
type Variant string

const (
	// VariantMidMonth keeps the contract-derived copper price as final.
	VariantMidMonth Variant = "mid-month"
	// VariantEndOfMonth applies quote overrides and the M-1/M-2 copper prices.
	VariantEndOfMonth Variant = "end-of-month"
)

// ParseVariant accepts the canonical names plus the short forms used on the CLI.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mid", "mid-month", "midmonth", "月中":
		return VariantMidMonth, nil
	case "end", "end-of-month", "endofmonth", "月底":
		return VariantEndOfMonth, nil
	}
	return "", fmt.Errorf("unknown report variant %q", s)
}

// RunStatus is the lifecycle state of a recorded report run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ReportRun is the audit record of one pipeline invocation.
type ReportRun struct {
	ID           string     `json:"id" db:"id"`
	Variant      Variant    `json:"variant" db:"variant"`
	Month        int        `json:"month" db:"month"`
	StartDate    time.Time  `json:"start_date" db:"start_date"`
	EndDate      time.Time  `json:"end_date" db:"end_date"`
	Status       RunStatus  `json:"status" db:"status"`
	TotalRows    int        `json:"total_rows" db:"total_rows"`
	ObjectKey    string     `json:"object_key,omitempty" db:"object_key"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	ErrorMessage string     `json:"error_message,omitempty" db:"error_message"`
}

