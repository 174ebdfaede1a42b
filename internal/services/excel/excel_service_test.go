package excel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

func TestExportCardsWritesWorkbook(t *testing.T) {
	svc := NewExcelService()

	cards := []models.Card{
		{
			ID:              "card-1",
			ProductName:     "Oscilloscope",
			ProductCode:     "OSC-100",
			Category:        "equipment",
			OwnerUsername:   "jdoe",
			OwnerFullName:   "John Doe",
			OwnerDepartment: "Engineering",
			QRActive:        true,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		},
	}

	data, filename, err := svc.ExportCards(cards)
	if err != nil {
		t.Fatalf("ExportCards: %v", err)
	}
	if !strings.HasPrefix(filename, "cards_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("unexpected filename %q", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported bytes are not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Cards")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one data row, got %d rows", len(rows))
	}
	if rows[0][0] != "id" {
		t.Errorf("unexpected first header cell %q", rows[0][0])
	}
	if rows[1][1] != "Oscilloscope" {
		t.Errorf("expected product name in the data row, got %q", rows[1][1])
	}
}

func TestExportCardsEmptyList(t *testing.T) {
	svc := NewExcelService()

	data, _, err := svc.ExportCards(nil)
	if err != nil {
		t.Fatalf("ExportCards: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported bytes are not a workbook: %v", err)
	}
	defer f.Close()

	cell, err := f.GetCellValue("Cards", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if cell != "no cards found" {
		t.Errorf("expected the empty-inventory placeholder, got %q", cell)
	}
}
