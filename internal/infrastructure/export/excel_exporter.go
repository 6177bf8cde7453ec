package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/repository"
)

// SheetName eksport varag'i nomi
const SheetName = "Stickers"

var header = []any{"Time (UTC)", "Sticker file ID", "Sticker set", "Outcome", "Reason"}

type excelExporter struct{}

// NewExcelExporter yangi Excel eksportchi yaratish
func NewExcelExporter() repository.HistoryExporter {
	return &excelExporter{}
}

// FileName yuboriladigan fayl nomi
func (e *excelExporter) FileName(userID int64) string {
	return fmt.Sprintf("stickers_%d.xlsx", userID)
}

// Export yozuvlarni .xlsx ga yozish
func (e *excelExporter) Export(ctx context.Context, records []entity.StickerRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Birinchi sheet nomini o'zgartirish
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		row := []any{
			rec.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			rec.FileID,
			rec.SetName,
			rec.Outcome.String(),
			rec.Reason,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "C", 36); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
