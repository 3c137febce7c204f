package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ruangkampus/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

var ledgerColumns = []string{"ID", "Peminjam", "Ruangan", "Mulai", "Selesai", "Keperluan", "Status"}

// Exporter writes the loan ledger to an Excel workbook under the configured
// exports directory.
type Exporter struct {
	dir    string
	logger zerolog.Logger
}

func NewExporter(dir string, logger *zerolog.Logger) *Exporter {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "export").Logger()
	}
	return &Exporter{dir: dir, logger: base}
}

// LoanLedger writes all given loans to a new workbook and returns its path.
func (e *Exporter) LoanLedger(loans []models.Loan, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Peminjaman"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Daftar Peminjaman Ruangan per %s",
		generatedAt.Format("02.01.2006 15:04")))

	writeHeaderRow(f, sheetName)
	for i, loan := range loans {
		writeLoanRow(f, sheetName, i+3, loan)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 30)
	_ = f.SetColWidth(sheetName, "D", "E", 20)
	_ = f.SetColWidth(sheetName, "F", "F", 40)
	_ = f.SetColWidth(sheetName, "G", "G", 12)

	lastCol, _ := excelize.CoordinatesToCellName(len(ledgerColumns), 1)
	_ = f.MergeCell(sheetName, "A1", lastCol)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("loans_%s.xlsx", generatedAt.Format("2006-01-02_150405"))
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("loans", len(loans)).Msg("Excel file created")
	return filePath, nil
}

func writeHeaderRow(f *excelize.File, sheetName string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, name := range ledgerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, name)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}

func writeLoanRow(f *excelize.File, sheetName string, row int, loan models.Loan) {
	values := []interface{}{
		loan.ID,
		loan.BorrowerName,
		loan.RoomName,
		loan.StartTime.Format("02.01.2006 15:04"),
		loan.EndTime.Format("02.01.2006 15:04"),
		loan.Purpose,
		loan.Status,
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheetName, cell, v)
	}
}
