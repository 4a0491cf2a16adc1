package drive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/andresuchdata/salesmap/internal/service"
)

type fakeSource struct {
	files    []*File
	contents map[string]string
	exported []string
}

func (f *fakeSource) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	if folderID == "missing" {
		return nil, errors.New("folder not found")
	}
	return f.files, nil
}

func (f *fakeSource) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	_, err := io.WriteString(w, f.contents[fileID])
	return err
}

func (f *fakeSource) ExportFile(ctx context.Context, fileID, mimeType string, w io.Writer) error {
	f.exported = append(f.exported, fileID)
	_, err := io.WriteString(w, "exported:"+f.contents[fileID])
	return err
}

func TestFetcher_MatchPicksLatestPerMarker(t *testing.T) {
	t.Parallel()

	files := []*File{
		{ID: "1", Name: "41110000_0501.xlsx", ModifiedTime: "2024-05-01T00:00:00Z"},
		{ID: "2", Name: "41110000_0531.xlsx", ModifiedTime: "2024-05-31T00:00:00Z"},
		{ID: "3", Name: "ZSDC export.xlsx", ModifiedTime: "2024-05-31T00:00:00Z"},
		{ID: "4", Name: "合約管理.xlsx"},
		{ID: "5", Name: "notes.txt"},
		{ID: "6", Name: "報價資訊", MimeType: googleSheetMimeType},
		{ID: "7", Name: "月中報表.xlsx"},
	}

	got := NewFetcher(&fakeSource{}).Match(files)
	want := map[string]string{
		service.InputSales:    "2",
		service.InputLookup:   "3",
		service.InputContract: "4",
		service.InputQuote:    "6",
		service.InputPartial:  "7",
	}
	if len(got) != len(want) {
		t.Fatalf("matched %d inputs, want %d", len(got), len(want))
	}
	for input, id := range want {
		if got[input] == nil || got[input].ID != id {
			t.Fatalf("%s: got %+v want file %s", input, got[input], id)
		}
	}
}

func TestFetcher_FetchExportsNativeSheets(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		files: []*File{
			{ID: "s", Name: "41110000.xlsx"},
			{ID: "q", Name: "報價", MimeType: googleSheetMimeType},
		},
		contents: map[string]string{"s": "sales-bytes", "q": "quote-bytes"},
	}

	got, err := NewFetcher(src).Fetch(context.Background(), "folder")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(got[service.InputSales]) != "sales-bytes" {
		t.Fatalf("sales: %q", got[service.InputSales])
	}
	if !strings.HasPrefix(string(got[service.InputQuote]), "exported:") || len(src.exported) != 1 {
		t.Fatalf("native sheet not exported: %q", got[service.InputQuote])
	}

	if _, err := NewFetcher(src).Fetch(context.Background(), "missing"); err == nil {
		t.Fatalf("expected list error")
	}
}

func TestSaveAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths, err := SaveAll(dir, map[string][]byte{service.InputSales: []byte("x")})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(paths[service.InputSales], "sales.xlsx") {
		t.Fatalf("unexpected path %q", paths[service.InputSales])
	}
}

func TestRunReportRequest(t *testing.T) {
	t.Parallel()

	req, err := RunReportRequest{Variant: "月底", Start: "2024-05-01", End: "2024-05-31", Month: 5}.ToReportRequest()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if req.Variant != "end-of-month" || req.End.Day() != 31 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if _, err := (RunReportRequest{Variant: "weekly", Start: "2024-05-01", End: "2024-05-31"}).ToReportRequest(); err == nil {
		t.Fatalf("unknown variant accepted")
	}
}
