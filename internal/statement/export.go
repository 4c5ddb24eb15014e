package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cardsight/cardsight/internal/extraction"
)

// exportColumns is the header row for tabular exports.
var exportColumns = []string{
	"Issuer",
	"Card Last 4",
	"Statement Date",
	"Due Date",
	"Total Balance",
	"Minimum Payment",
}

func fieldsRow(f *extraction.Fields) []string {
	row := []string{
		f.Issuer,
		f.CardLast4,
		f.StatementDate,
		f.DueDate,
		f.TotalBalance,
		f.MinimumPayment,
	}
	for i, v := range row {
		if v == "" {
			row[i] = "N/A"
		}
	}
	return row
}

// WriteCSV writes a parsed statement as a two-row CSV document.
func WriteCSV(w io.Writer, f *extraction.Fields) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.Write(fieldsRow(f)); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// BuildWorkbook builds a single-sheet Excel workbook for a parsed statement.
func BuildWorkbook(f *extraction.Fields) (*excelize.File, error) {
	const sheet = "Statement"

	wb := excelize.NewFile()
	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		wb.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	row := fieldsRow(f)
	for i := range exportColumns {
		headerCell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			wb.Close()
			return nil, err
		}
		if err := wb.SetCellValue(sheet, headerCell, exportColumns[i]); err != nil {
			wb.Close()
			return nil, fmt.Errorf("writing header: %w", err)
		}
		valueCell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			wb.Close()
			return nil, err
		}
		if err := wb.SetCellValue(sheet, valueCell, row[i]); err != nil {
			wb.Close()
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}

	return wb, nil
}

// exportFilename names a download attachment with a timestamp, e.g.
// statement_20240115_093005.csv.
func exportFilename(ext string, now time.Time) string {
	return fmt.Sprintf("statement_%s.%s", now.Format("20060102_150405"), ext)
}
