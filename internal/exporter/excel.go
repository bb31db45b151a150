package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"eiareport/internal/config"
	apperrors "eiareport/internal/errors"
	"eiareport/pkg/contracts/domain"
)

const (
	// summaryFillColor is the background of the AVERAGE row (light sky blue).
	summaryFillColor = "87CEFA"
	// summaryNumberFormat renders averages with two decimals and a
	// thousands separator.
	summaryNumberFormat = "#,##0.00"
	// summaryLabel sits in the first column of the summary row.
	summaryLabel = "AVERAGE"
	// timestampCellFormat is how combined-sheet timestamps are rendered.
	timestampCellFormat = "2006-01-02 15:04:05"
)

// ExcelWriter persists the raw yearly datasets and the combined
// rolling-window dataset to a single Excel artifact, then appends the styled
// AVERAGE summary row to the combined sheet. The artifact is fully
// overwritten on every write.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel report writer.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// Write produces the report artifact at path: one "<Year> Data" sheet per
// non-empty input year, the "Combined Data" sheet always (headers alone are
// valid output when the window is empty), and the summary row immediately
// after the last combined data row. headerColumns is the authoritative
// column set used to place averages; entries in averages with no matching
// header column are skipped silently.
//
// All I/O failures come back as a WriteError carrying the cause.
func (w *ExcelWriter) Write(ctx context.Context, path string, yearA, yearB domain.YearlyDataset,
	filtered domain.CombinedDataset, averages domain.AverageRow, headerColumns []string) error {

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewWriteError(path, err)
		}
	}

	if err := w.writeBaseSections(ctx, path, yearA, yearB, filtered); err != nil {
		return err
	}

	if err := w.appendSummaryRow(ctx, path, len(filtered.Rows), averages, headerColumns); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "report artifact written",
		slog.String("path", path),
		slog.Int("combined_rows", len(filtered.Rows)),
		slog.Int("averaged_columns", len(averages)))

	return nil
}

// writeBaseSections writes the raw year sheets and the combined sheet in one
// open-write-close pass, overwriting any previous artifact.
func (w *ExcelWriter) writeBaseSections(ctx context.Context, path string,
	yearA, yearB domain.YearlyDataset, filtered domain.CombinedDataset) error {

	f := excelize.NewFile()
	defer f.Close()

	first := true
	addSheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName("Sheet1", name)
		}
		_, err := f.NewSheet(name)
		return err
	}

	for _, year := range []domain.YearlyDataset{yearA, yearB} {
		if year.IsEmpty() {
			continue
		}
		name := config.YearSheetName(year.Year)
		if err := addSheet(name); err != nil {
			return apperrors.NewWriteError(path, err)
		}
		if err := writeTable(f, name, year.Columns, year.Rows); err != nil {
			return apperrors.NewWriteError(path, err)
		}
		w.logger.DebugContext(ctx, "year sheet written",
			slog.String("sheet", name),
			slog.Int("rows", len(year.Rows)))
	}

	if err := addSheet(config.CombinedSheetName); err != nil {
		return apperrors.NewWriteError(path, err)
	}
	if err := writeCombined(f, filtered); err != nil {
		return apperrors.NewWriteError(path, err)
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewWriteError(path, err)
	}
	return nil
}

// appendSummaryRow re-opens the artifact and adds the styled AVERAGE row to
// the combined sheet at the row immediately following the last data row.
func (w *ExcelWriter) appendSummaryRow(ctx context.Context, path string,
	dataRows int, averages domain.AverageRow, headerColumns []string) error {

	f, err := excelize.OpenFile(path)
	if err != nil {
		return apperrors.NewWriteError(path, err)
	}
	defer f.Close()

	// +2 accounts for the header row and 1-based sheet rows.
	rowNum := dataRows + 2

	bandStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{summaryFillColor}, Pattern: 1},
	})
	if err != nil {
		return apperrors.NewWriteError(path, err)
	}

	numFmt := summaryNumberFormat
	valueStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{summaryFillColor}, Pattern: 1},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return apperrors.NewWriteError(path, err)
	}

	labelCell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return apperrors.NewWriteError(path, err)
	}
	if err := f.SetCellValue(config.CombinedSheetName, labelCell, summaryLabel); err != nil {
		return apperrors.NewWriteError(path, err)
	}

	// The band covers the full header width, populated or not, so the row
	// reads as one highlighted strip across the sheet.
	for col := 1; col <= len(headerColumns); col++ {
		cell, err := excelize.CoordinatesToCellName(col, rowNum)
		if err != nil {
			return apperrors.NewWriteError(path, err)
		}
		if err := f.SetCellStyle(config.CombinedSheetName, cell, cell, bandStyle); err != nil {
			return apperrors.NewWriteError(path, err)
		}
	}

	for name, mean := range averages {
		col := columnPosition(headerColumns, name)
		if col == 0 {
			// Known schema-divergence edge case: averages computed under a
			// column absent from the authoritative header set are skipped.
			w.logger.WarnContext(ctx, "average column not in header columns, skipping",
				slog.String("column", name))
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col, rowNum)
		if err != nil {
			return apperrors.NewWriteError(path, err)
		}
		if err := f.SetCellValue(config.CombinedSheetName, cell, mean); err != nil {
			return apperrors.NewWriteError(path, err)
		}
		if err := f.SetCellStyle(config.CombinedSheetName, cell, cell, valueStyle); err != nil {
			return apperrors.NewWriteError(path, err)
		}
	}

	if err := f.Save(); err != nil {
		return apperrors.NewWriteError(path, err)
	}
	return nil
}

// columnPosition returns the 1-based position of name within headerColumns,
// or 0 when absent.
func columnPosition(headerColumns []string, name string) int {
	for i, col := range headerColumns {
		if col == name {
			return i + 1
		}
	}
	return 0
}

// writeTable writes a header row plus raw data rows, coercing
// numeric-looking cells so spreadsheet consumers get real numbers.
func writeTable(f *excelize.File, sheet string, columns []string, rows [][]string) error {
	if err := writeHeader(f, sheet, columns); err != nil {
		return err
	}
	for i, fields := range rows {
		for j, value := range fields {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(value)); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCombined writes the filtered rolling-window rows with the first
// column rendered from the parsed timestamp.
func writeCombined(f *excelize.File, filtered domain.CombinedDataset) error {
	if err := writeHeader(f, config.CombinedSheetName, filtered.Columns); err != nil {
		return err
	}
	for i, row := range filtered.Rows {
		for j, value := range row.Fields {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			var v interface{}
			if j == 0 {
				v = row.Timestamp.Format(timestampCellFormat)
			} else {
				v = cellValue(value)
			}
			if err := f.SetCellValue(config.CombinedSheetName, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, columns []string) error {
	for j, col := range columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	return nil
}

// cellValue coerces a raw CSV field to a float when it parses cleanly,
// otherwise keeps the original string.
func cellValue(value string) interface{} {
	if value == "" {
		return value
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		return parsed
	}
	return value
}
