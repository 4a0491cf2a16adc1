// Package sheet decodes ERP workbook exports into record sets and encodes
// finished reports back to xlsx.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/andresuchdata/salesmap/internal/domain"
)

// ErrNoSheets is returned for a workbook without any worksheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// Read decodes one worksheet of the workbook in r. When sheet is empty or
// not present in the workbook, the first sheet is used.
//
// Cells are read raw: numbers keep their stored text and dates arrive as
// Excel serials. Duplicate headers are suffixed ".1", ".2", ... in order,
// and blank headers become "Unnamed: <index>". Fully blank rows are skipped.
func Read(r io.Reader, sheet string) (*domain.RecordSet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name, err := pickSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return domain.NewRecordSet(nil, nil), nil
	}

	header := Headers(rows[0])
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		body = append(body, row)
	}
	return domain.NewRecordSet(header, body), nil
}

// ReadBytes is Read over an in-memory workbook.
func ReadBytes(data []byte, sheet string) (*domain.RecordSet, error) {
	return Read(bytes.NewReader(data), sheet)
}

func pickSheet(f *excelize.File, want string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheets
	}
	if want == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == want {
			return s, nil
		}
	}
	log.Warn().Str("want", want).Str("using", sheets[0]).Msg("sheet not found, falling back to first sheet")
	return sheets[0], nil
}

// Headers normalizes a header row: NFKC folding, trimmed whitespace, blank
// names replaced and duplicates numbered.
func Headers(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	next := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(norm.NFKC.String(h))
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for n := next[h]; ; n++ {
			name = h
			if n > 0 {
				name = h + "." + strconv.Itoa(n)
			}
			if !used[name] {
				next[h] = n + 1
				break
			}
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
