package utils

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"jyotikabilling/models"
)

const billSheet = "Bills"

var billExportHeaders = []string{
	"Serial No", "Bill Date", "Patient Name", "Guardian Name", "Phone",
	"Address", "Charge Type", "Status", "Amount", "Amount In Words",
}

// WriteBillsExcel writes bills as an xlsx workbook with a total row.
func WriteBillsExcel(w io.Writer, bills []models.Bill) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", billSheet); err != nil {
		return err
	}

	for i, h := range billExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(billSheet, cell, h); err != nil {
			return err
		}
	}

	total := decimal.Zero
	for i, b := range bills {
		row := i + 2
		values := []interface{}{
			b.SerialLabel(),
			b.BillDate.Format("2006-01-02"),
			b.PatientName,
			b.GuardianName,
			b.Phone,
			b.Address,
			b.ChargeType,
			b.Status,
			b.Amount,
			ConvertToWords(b.Amount),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(billSheet, cell, v); err != nil {
				return err
			}
		}
		total = total.Add(decimal.NewFromFloat(b.Amount))
	}

	if len(bills) > 0 {
		totalRow := len(bills) + 2
		_ = f.SetCellValue(billSheet, fmt.Sprintf("H%d", totalRow), "Total")
		_ = f.SetCellFormula(billSheet, fmt.Sprintf("I%d", totalRow), fmt.Sprintf("SUM(I2:I%d)", totalRow-1))
		_ = f.SetCellValue(billSheet, fmt.Sprintf("J%d", totalRow), ConvertToWords(total.InexactFloat64()))
	}

	return f.Write(w)
}
