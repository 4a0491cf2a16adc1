package drive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/andresuchdata/salesmap/internal/service"
)

func TestIngestService_KeepsInputsAndForwardsToReport(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		files: []*File{
			{ID: "s", Name: "41110000.xlsx"},
			{ID: "z", Name: "zsdc.xlsx"},
		},
		contents: map[string]string{"s": "not a workbook", "z": "not a workbook"},
	}
	dir := t.TempDir()
	reports := service.NewReportService(service.ReportServiceConfig{}, nil, nil, nil, nil)
	ingest := NewIngestService(NewFetcher(src), reports).KeepInputs(dir)

	_, err := ingest.RunFolder(context.Background(), "folder", service.ReportRequest{
		Variant: domain.VariantMidMonth,
		Month:   5,
	})
	if !errors.Is(err, service.ErrInvalidRequest) {
		t.Fatalf("expected undecodable inputs to be rejected, got %v", err)
	}

	for _, input := range []string{service.InputSales, service.InputLookup} {
		data, err := os.ReadFile(filepath.Join(dir, input+".xlsx"))
		if err != nil {
			t.Fatalf("%s not kept: %v", input, err)
		}
		if string(data) != "not a workbook" {
			t.Fatalf("%s: unexpected content %q", input, data)
		}
	}
}

func TestIngestService_FetchErrorIsWrapped(t *testing.T) {
	t.Parallel()

	reports := service.NewReportService(service.ReportServiceConfig{}, nil, nil, nil, nil)
	ingest := NewIngestService(NewFetcher(&fakeSource{}), reports)
	if _, err := ingest.RunFolder(context.Background(), "missing", service.ReportRequest{}); err == nil {
		t.Fatalf("expected fetch error")
	}
}
