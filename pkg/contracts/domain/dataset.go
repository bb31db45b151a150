package domain

import "time"

// YearlyDataset holds one calendar year of wholesale market rows as fetched
// from the EIA CSV endpoint. Columns carries the header row and Rows carry
// the raw string fields in source order. The first column is always the
// local interval timestamp.
type YearlyDataset struct {
	Year    int        `json:"year"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// IsEmpty reports whether the dataset carries no rows. An empty dataset is
// how a failed or missing fetch is represented; it is not an error state to
// the merge logic.
func (d YearlyDataset) IsEmpty() bool {
	return len(d.Rows) == 0
}

// CombinedRow is a single row of the merged dataset with its first column
// coerced to a timestamp. Valid is false when the timestamp did not parse;
// such rows never default to the zero time and are excluded by the window
// filter.
type CombinedRow struct {
	Timestamp time.Time `json:"timestamp"`
	Valid     bool      `json:"valid"`
	Fields    []string  `json:"fields"`
}

// CombinedDataset is the concatenation of the tracked years' rows under the
// authoritative header columns. The columns come from the later year's
// schema when that year is non-empty, else from the earlier year's. Row
// order is not guaranteed until FilterWindow sorts it.
type CombinedDataset struct {
	Columns []string      `json:"columns"`
	Rows    []CombinedRow `json:"rows"`
}

// IsEmpty reports whether the combined dataset carries no rows.
func (d CombinedDataset) IsEmpty() bool {
	return len(d.Rows) == 0
}

// AverageRow maps a column name to the arithmetic mean of that column's
// numeric values over the filtered window, rounded to two decimal places.
// Columns containing any non-numeric content are absent from the map rather
// than carried with a null value.
type AverageRow map[string]float64
