package drive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/salesmap/internal/service"
)

// Marker ties a report input to a substring of its export file name.
type Marker struct {
	Input     string
	Substring string
}

// DefaultMarkers are the file-name markers of the ERP exports, checked in order.
var DefaultMarkers = []Marker{
	{Input: service.InputSales, Substring: "41110000"},
	{Input: service.InputReturns, Substring: "41700000"},
	{Input: service.InputLookup, Substring: "zsdc"},
	{Input: service.InputContract, Substring: "合約管理"},
	{Input: service.InputProduct, Substring: "產品群"},
	{Input: service.InputQuote, Substring: "報價"},
	{Input: service.InputPartial, Substring: "月中"},
}

// Fetcher collects report inputs from a Drive folder.
type Fetcher struct {
	source  FileSource
	markers []Marker
}

// NewFetcher creates a fetcher using DefaultMarkers.
func NewFetcher(source FileSource) *Fetcher {
	return &Fetcher{source: source, markers: DefaultMarkers}
}

// Match picks, for every input, the most recently modified spreadsheet in
// files whose name carries the input's marker. Each file serves at most one
// input: the first marker it matches.
func (f *Fetcher) Match(files []*File) map[string]*File {
	picked := make(map[string]*File)
	for _, file := range files {
		if !isSpreadsheet(file) {
			continue
		}
		name := strings.ToLower(file.Name)
		for _, m := range f.markers {
			if !strings.Contains(name, strings.ToLower(m.Substring)) {
				continue
			}
			if cur, ok := picked[m.Input]; !ok || file.ModifiedTime > cur.ModifiedTime {
				picked[m.Input] = file
			}
			break
		}
	}
	return picked
}

// Fetch downloads the matched inputs of a folder into memory.
func (f *Fetcher) Fetch(ctx context.Context, folderID string) (map[string][]byte, error) {
	files, err := f.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	matched := f.Match(files)
	out := make(map[string][]byte, len(matched))
	for input, file := range matched {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var buf bytes.Buffer
		if file.MimeType == googleSheetMimeType {
			err = f.source.ExportFile(ctx, file.ID, xlsxMimeType, &buf)
		} else {
			err = f.source.DownloadFile(ctx, file.ID, &buf)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", file.Name, err)
		}
		out[input] = buf.Bytes()
		log.Debug().Str("input", input).Str("file", file.Name).Int("bytes", buf.Len()).Msg("drive input fetched")
	}
	return out, nil
}

// SaveAll writes fetched inputs to dir as <input>.xlsx and returns their paths.
func SaveAll(dir string, files map[string][]byte) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}
	paths := make(map[string]string, len(files))
	for input, data := range files {
		p := filepath.Join(dir, input+".xlsx")
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed writing %s: %w", p, err)
		}
		paths[input] = p
	}
	return paths, nil
}

func isSpreadsheet(f *File) bool {
	if f.MimeType == googleSheetMimeType || f.MimeType == xlsxMimeType {
		return true
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	return ext == ".xlsx" || ext == ".xlsm"
}
