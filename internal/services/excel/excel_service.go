package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

// Service builds Excel exports of card inventory data
type Service struct{}

// NewExcelService creates a new Excel service instance
func NewExcelService() *Service {
	return &Service{}
}

// ExportCards renders the given cards into a single-sheet workbook and
// returns the file contents. The caller decides which cards are in
// scope; this service does no access filtering of its own.
func (s *Service) ExportCards(cards []models.Card) ([]byte, string, error) {
	f := excelize.NewFile()

	sheetName := "Cards"
	defaultSheetName := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheetName, sheetName); err != nil {
		return nil, "", fmt.Errorf("failed to rename sheet: %w", err)
	}
	f.SetActiveSheet(0)

	columns := []string{
		"id", "product_name", "product_code", "category", "description",
		"owner_username", "owner_full_name", "owner_department", "owner_plant",
		"is_archived", "is_private", "qr_active",
		"created_at", "updated_at",
	}

	for i, col := range columns {
		cell := fmt.Sprintf("%s1", columnToLetter(i+1))
		f.SetCellValue(sheetName, cell, col)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFFF00"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", columnToLetter(len(columns))+strconv.Itoa(1), headerStyle)
	}

	for i, col := range columns {
		colLetter := columnToLetter(i + 1)
		width := 20.0

		switch col {
		case "id":
			width = 38.0
		case "product_name", "owner_full_name":
			width = 25.0
		case "description":
			width = 40.0
		case "is_archived", "is_private", "qr_active":
			width = 12.0
		}

		f.SetColWidth(sheetName, colLetter, colLetter, width)
	}

	if len(cards) > 0 {
		for j, card := range cards {
			rowNum := j + 2 // Start from row 2 (after headers)

			f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), card.ID)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), card.ProductName)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), card.ProductCode)
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), card.Category)
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), card.Description)
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), card.OwnerUsername)
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), card.OwnerFullName)
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowNum), card.OwnerDepartment)
			f.SetCellValue(sheetName, fmt.Sprintf("I%d", rowNum), card.OwnerPlant)
			f.SetCellValue(sheetName, fmt.Sprintf("J%d", rowNum), card.IsArchived)
			f.SetCellValue(sheetName, fmt.Sprintf("K%d", rowNum), card.IsPrivate)
			f.SetCellValue(sheetName, fmt.Sprintf("L%d", rowNum), card.QRActive)
			f.SetCellValue(sheetName, fmt.Sprintf("M%d", rowNum), card.CreatedAt.Format(time.RFC3339))
			f.SetCellValue(sheetName, fmt.Sprintf("N%d", rowNum), card.UpdatedAt.Format(time.RFC3339))
		}
	} else {
		f.SetCellValue(sheetName, "A2", "no cards found")
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("cards_%d.xlsx", time.Now().Unix())
	return buf.Bytes(), filename, nil
}

// Helper function to convert column number to Excel column letter
func columnToLetter(col int) string {
	var result string
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
