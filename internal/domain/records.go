// internal/domain/records.go
package domain

// Record is one spreadsheet row keyed by header name. Cells are kept as the
// text the workbook displays; typing happens in the pipeline.
type Record map[string]string

// Get returns the cell for col, or "" when the column is absent.
func (r Record) Get(col string) string {
	if r == nil {
		return ""
	}
	return r[col]
}

// RecordSet is a decoded worksheet. A nil *RecordSet means the input was not supplied.
type RecordSet struct {
	Columns []string
	Records []Record
}

// NewRecordSet builds a RecordSet from a header row and positional rows.
// Short rows are padded with empty cells.
func NewRecordSet(columns []string, rows [][]string) *RecordSet {
	rs := &RecordSet{
		Columns: append([]string(nil), columns...),
		Records: make([]Record, 0, len(rows)),
	}
	for _, row := range rows {
		rec := make(Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		rs.Records = append(rs.Records, rec)
	}
	return rs
}

// Len reports the number of records; nil sets are empty.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// Empty is true for absent or row-less sets.
func (rs *RecordSet) Empty() bool {
	return rs.Len() == 0
}

// HasColumn reports whether the header contains col.
func (rs *RecordSet) HasColumn(col string) bool {
	if rs == nil {
		return false
	}
	for _, c := range rs.Columns {
		if c == col {
			return true
		}
	}
	return false
}
