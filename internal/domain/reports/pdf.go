package reports

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"laportal/internal/domain/audits"
	"laportal/internal/domain/earnings"
)

type column struct {
	title string
	width float64
	align string
}

var listColumns = []column{
	{"Date", 24, "L"},
	{"Courier", 26, "L"},
	{"Task ID", 42, "L"},
	{"Seller ID", 30, "L"},
	{"Shop ID", 28, "L"},
	{"Shop Name", 50, "L"},
	{"Parcels", 18, "R"},
	{"SLA", 14, "C"},
	{"Penalties", 20, "R"},
	{"Earnings", 25, "R"},
}

var dailyColumns = []column{
	{"Date", 70, "L"},
	{"Parcels", 50, "R"},
	{"Earnings", 70, "R"},
}

// ListPDF renders an audit list export: letterhead, summary box, one row per
// record and a total row.
func ListPDF(w io.Writer, title string, result audits.ListResult, brand Branding, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 14)
	footer(pdf, tr, brand)
	pdf.AddPage()

	letterhead(pdf, tr, brand, title, generatedAt)
	summaryBox(pdf, tr, result.Summary, brand.Currency)
	pdf.Ln(4)

	tableHeader(pdf, listColumns)
	pdf.SetFont("Helvetica", "", 8)
	for i, rec := range result.Records {
		fill := i%2 == 1
		pdf.SetFillColor(245, 247, 250)
		cells := []string{
			rec.Date.Format("2006-01-02"),
			rec.Courier.DisplayName(),
			rec.TaskID,
			rec.SellerID,
			rec.ShopID,
			rec.ShopName,
			strconv.Itoa(rec.NumberOfParcels),
			yesNo(rec.HandedOverWithinSLA),
			rec.Penalties.StringFixed(2),
			rec.CalculatedEarnings.StringFixed(2),
		}
		for j, col := range listColumns {
			pdf.CellFormat(col.width, 6, fit(pdf, tr(cells[j]), col.width), "1", 0, col.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 236, 245)
	labelWidth := 0.0
	for _, col := range listColumns[:6] {
		labelWidth += col.width
	}
	pdf.CellFormat(labelWidth, 7, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(listColumns[6].width, 7, strconv.Itoa(result.Summary.TotalParcels), "1", 0, "R", true, 0, "")
	pdf.CellFormat(listColumns[7].width+listColumns[8].width, 7, "", "1", 0, "C", true, 0, "")
	pdf.CellFormat(listColumns[9].width, 7, result.Summary.TotalEarnings.StringFixed(2), "1", 1, "R", true, 0, "")

	return pdf.Output(w)
}

// ReportPDF renders a period report: summary statistics, the per-courier
// breakdown and the daily series.
func ReportPDF(w io.Writer, report PeriodReport, brand Branding, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 14)
	footer(pdf, tr, brand)
	pdf.AddPage()

	letterhead(pdf, tr, brand, report.Title, generatedAt)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report Period: %s to %s", report.start.Format(shortDate), report.end.Format(shortDate)), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	sectionTitle(pdf, "Summary Statistics")
	stats := [][2]string{
		{"Total Entries", strconv.Itoa(report.Summary.TotalEntries)},
		{"Total Parcels", strconv.Itoa(report.Summary.TotalParcels)},
		{"Total Earnings", money(brand.Currency, report.Summary.TotalEarnings)},
	}
	for _, stat := range stats {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(70, 7, stat[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, stat[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	sectionTitle(pdf, "Breakdown by Courier")
	breakdown(pdf, "SPX Express", report.Summary.SPX, brand.Currency)
	breakdown(pdf, "Flash Express", report.Summary.Flash, brand.Currency)
	pdf.Ln(4)

	sectionTitle(pdf, "Daily Earnings")
	if len(report.Daily) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 7, "No audit records in this period.", "", 1, "L", false, 0, "")
		return pdf.Output(w)
	}
	tableHeader(pdf, dailyColumns)
	pdf.SetFont("Helvetica", "", 9)
	for _, day := range report.Daily {
		pdf.CellFormat(dailyColumns[0].width, 6, day.Date.Format("Mon, Jan 2, 2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(dailyColumns[1].width, 6, strconv.Itoa(day.Parcels), "1", 0, "R", false, 0, "")
		pdf.CellFormat(dailyColumns[2].width, 6, money(brand.Currency, day.Earnings), "1", 1, "R", false, 0, "")
	}
	return pdf.Output(w)
}

func letterhead(pdf *gofpdf.Fpdf, tr func(string) string, brand Branding, title string, generatedAt time.Time) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, tr(brand.CompanyName), "", 1, "C", false, 0, "")
	if brand.CompanyAddress != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr(brand.CompanyAddress), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(67, 97, 238)
	pdf.CellFormat(0, 7, tr(title), "", 1, "C", false, 0, "")
	pdf.SetTextColor(108, 117, 125)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Generated on "+generatedAt.Format("January 2, 2006 at 3:04 PM"), "", 1, "C", false, 0, "")
	pdf.SetTextColor(33, 37, 41)
	pdf.Ln(3)
}

func summaryBox(pdf *gofpdf.Fpdf, tr func(string) string, summary earnings.Summary, currency string) {
	pdf.SetFillColor(248, 249, 250)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, "Summary", "LTR", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	lines := []string{
		fmt.Sprintf("Total entries: %d    Total parcels: %d    Total earnings: %s",
			summary.TotalEntries, summary.TotalParcels, money(currency, summary.TotalEarnings)),
		fmt.Sprintf("SPX: %d entries, %d parcels, %s    Flash Express: %d entries, %d parcels, %s",
			summary.SPX.Entries, summary.SPX.Parcels, money(currency, summary.SPX.Earnings),
			summary.Flash.Entries, summary.Flash.Parcels, money(currency, summary.Flash.Earnings)),
	}
	for i, line := range lines {
		border := "LR"
		if i == len(lines)-1 {
			border = "LRB"
		}
		pdf.CellFormat(0, 6, tr(line), border, 1, "L", true, 0, "")
	}
}

func breakdown(pdf *gofpdf.Fpdf, label string, totals earnings.Totals, currency string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 7, label, "1", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(60, 7, fmt.Sprintf("%d entries, %d parcels", totals.Entries, totals.Parcels), "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, money(currency, totals.Earnings), "1", 1, "R", false, 0, "")
}

func sectionTitle(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, text, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func tableHeader(pdf *gofpdf.Fpdf, cols []column) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(67, 97, 238)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range cols {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(33, 37, 41)
}

func footer(pdf *gofpdf.Fpdf, tr func(string) string, brand Branding) {
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(108, 117, 125)
		text := fmt.Sprintf("Generated automatically by %s", brand.CompanyName)
		if brand.CompanyAddress != "" {
			text += " - " + brand.CompanyAddress
		}
		pdf.CellFormat(0, 5, tr(text), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
}

// fit trims text until it fits in a cell of the given width.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func money(currency string, amount decimal.Decimal) string {
	if currency == "" {
		return amount.StringFixed(2)
	}
	return currency + " " + amount.StringFixed(2)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
