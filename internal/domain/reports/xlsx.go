package reports

import (
	"io"

	"github.com/xuri/excelize/v2"

	"laportal/internal/domain/audits"
)

const auditSheet = "Audits"

var xlsxHeaders = []any{
	"Date", "Courier", "Task ID", "Seller ID", "Shop ID", "Shop Name", "Parcels",
	"Within SLA", "Penalties", "Base", "Bonus", "Earnings", "Notes", "Created By",
}

// ListXLSX writes the audit list as a workbook with a title row, a header row,
// one row per record and a total row.
func ListXLSX(w io.Writer, title string, result audits.ListResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", auditSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(auditSheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetSheetRow(auditSheet, "A3", &xlsxHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(auditSheet, "A1", "N3", bold); err != nil {
		return err
	}

	row := 4
	for _, rec := range result.Records {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{
			rec.Date.Format("2006-01-02"),
			rec.Courier.DisplayName(),
			rec.TaskID,
			rec.SellerID,
			rec.ShopID,
			rec.ShopName,
			rec.NumberOfParcels,
			yesNo(rec.HandedOverWithinSLA),
			rec.Penalties.InexactFloat64(),
			rec.BaseRate.InexactFloat64(),
			rec.BonusRate.InexactFloat64(),
			rec.CalculatedEarnings.InexactFloat64(),
			rec.Notes,
			rec.CreatedByName,
		}
		if err := f.SetSheetRow(auditSheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	if row > 4 {
		first, _ := excelize.CoordinatesToCellName(9, 4)
		last, _ := excelize.CoordinatesToCellName(12, row-1)
		if err := f.SetCellStyle(auditSheet, first, last, amount); err != nil {
			return err
		}
	}

	total, _ := excelize.CoordinatesToCellName(1, row)
	totals := []any{"Total", "", "", "", "", "", result.Summary.TotalParcels, "", "", "", "", result.Summary.TotalEarnings.InexactFloat64()}
	if err := f.SetSheetRow(auditSheet, total, &totals); err != nil {
		return err
	}
	totalEnd, _ := excelize.CoordinatesToCellName(12, row)
	if err := f.SetCellStyle(auditSheet, total, totalEnd, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(auditSheet, "A", "N", 16); err != nil {
		return err
	}
	return f.Write(w)
}
