package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"subtrack/internal/entity"
	"subtrack/internal/format"
)

const sheetName = "Subscriptions"

// WriteXLSX writes the subscription rows to a timestamped workbook in dir and
// returns the file path.
func WriteXLSX(dir string, subs []entity.Subscription) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	for col, field := range headerFields {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, field); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
	}

	for row, sub := range subs {
		status := "Active"
		if !sub.IsActive {
			status = "Ended"
		}
		values := []any{
			sub.DisplayName(),
			sub.Price.InexactFloat64(),
			format.DateFull(sub.NextChargeDate),
			status,
			sub.Note,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return "", fmt.Errorf("write row: %w", err)
			}
		}
	}

	name := fmt.Sprintf("subscriptions-%s.xlsx", format.Timestamp(time.Now()))
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("write xlsx: %w", err)
	}
	return path, nil
}
