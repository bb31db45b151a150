package dataprocessing

import (
	"sort"
	"strings"
	"time"

	apperrors "eiareport/internal/errors"
	"eiareport/pkg/contracts/domain"
)

// timestampLayouts are tried in order when coercing the first column.
// EIA wholesale market files carry "2024-01-01 00:00:00" style local
// timestamps; the remaining layouts cover the variants seen across vintages
// of the published CSVs.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02",
	"1/2/2006",
}

// ParseTimestamp coerces a raw first-column value to a timestamp. The second
// return value is false when no layout matches; callers must treat such rows
// as invalid rather than falling back to the zero time.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Merge concatenates two yearly datasets into a combined dataset, coercing
// the first column of every row to a timestamp.
//
// The authoritative header columns are taken from yearB when it is
// non-empty, else from yearA. Average placement later resolves column name
// to position against this same column set, so the choice matters when the
// two years' schemas differ.
//
// Returns ErrNoDataAvailable when both inputs are empty; the caller must not
// proceed to write a report in that case.
func Merge(yearA, yearB domain.YearlyDataset) (domain.CombinedDataset, error) {
	if yearA.IsEmpty() && yearB.IsEmpty() {
		return domain.CombinedDataset{}, apperrors.ErrNoDataAvailable
	}

	columns := yearB.Columns
	if yearB.IsEmpty() {
		columns = yearA.Columns
	}

	combined := domain.CombinedDataset{
		Columns: columns,
		Rows:    make([]domain.CombinedRow, 0, len(yearA.Rows)+len(yearB.Rows)),
	}

	appendRows := func(rows [][]string) {
		for _, fields := range rows {
			row := domain.CombinedRow{Fields: fields}
			if len(fields) > 0 {
				row.Timestamp, row.Valid = ParseTimestamp(fields[0])
			}
			combined.Rows = append(combined.Rows, row)
		}
	}
	appendRows(yearA.Rows)
	appendRows(yearB.Rows)

	return combined, nil
}

// FilterWindow retains the rows whose timestamp falls inside the closed
// interval [start, end] and sorts them ascending by timestamp. Rows whose
// timestamp failed to parse are dropped. The sort is stable so rows with
// equal timestamps keep their original relative order.
func FilterWindow(combined domain.CombinedDataset, start, end time.Time) domain.CombinedDataset {
	filtered := domain.CombinedDataset{Columns: combined.Columns}

	for _, row := range combined.Rows {
		if !row.Valid {
			continue
		}
		if row.Timestamp.Before(start) || row.Timestamp.After(end) {
			continue
		}
		filtered.Rows = append(filtered.Rows, row)
	}

	sort.SliceStable(filtered.Rows, func(i, j int) bool {
		return filtered.Rows[i].Timestamp.Before(filtered.Rows[j].Timestamp)
	})

	return filtered
}
