package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"eiareport/pkg/contracts/domain"
)

// Aggregate computes the per-column arithmetic mean over the filtered
// window. A column participates only when every non-missing value in it is
// numeric; a single non-numeric value excludes the whole column from the
// result. Missing values (empty cells or short rows) are skipped without
// disqualifying the column. The first column is the timestamp column and
// never participates.
//
// Means are rounded to exactly 2 decimal places, half away from zero.
// An empty dataset yields an empty AverageRow.
func Aggregate(filtered domain.CombinedDataset) domain.AverageRow {
	averages := make(domain.AverageRow)
	if filtered.IsEmpty() {
		return averages
	}

	for idx, name := range filtered.Columns {
		if idx == 0 {
			continue
		}

		var sum float64
		var count int
		numeric := true

		for _, row := range filtered.Rows {
			if idx >= len(row.Fields) {
				continue
			}
			value := strings.TrimSpace(row.Fields[idx])
			if value == "" {
				continue
			}
			parsed, err := parseNumeric(value)
			if err != nil {
				numeric = false
				break
			}
			sum += parsed
			count++
		}

		if numeric && count > 0 {
			averages[name] = round2(sum / float64(count))
		}
	}

	return averages
}

// parseNumeric coerces a cell to float64, tolerating thousands separators.
func parseNumeric(value string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
}

// round2 rounds half away from zero to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
