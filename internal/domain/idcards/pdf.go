package idcards

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"laportal/internal/domain/employees"
	"laportal/internal/domain/reports"
)

// CR80 card size in millimetres, portrait.
const (
	cardWidth  = 54.0
	cardHeight = 85.6
)

const defaultPosition = "Logistics Personnel"

// CardPDF renders a single-page portrait card: company band, employee name,
// number and position, the encoded payload and the return notice.
func CardPDF(w io.Writer, card IDCard, emp employees.Employee, brand reports.Branding) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: cardWidth, Ht: cardHeight},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(3, 3, 3)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFillColor(58, 77, 177)
	pdf.Rect(0, 0, cardWidth, 18, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(3, 4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(cardWidth-6, 5, tr(brand.CompanyName), "", 1, "C", false, 0, "")
	if brand.CompanyAddress != "" {
		pdf.SetX(3)
		pdf.SetFont("Helvetica", "", 5.5)
		pdf.MultiCell(cardWidth-6, 2.6, tr(brand.CompanyAddress), "", "C", false)
	}

	pdf.SetDrawColor(58, 77, 177)
	pdf.SetLineWidth(0.8)
	pdf.Circle(cardWidth/2, 31, 9, "D")

	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(3, 43)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(cardWidth-6, 5, tr(emp.Name), "", 1, "C", false, 0, "")
	pdf.SetX(3)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(cardWidth-6, 4, tr("Employee ID: "+emp.EmployeeNumber), "", 1, "C", false, 0, "")
	pdf.SetX(3)
	pdf.CellFormat(cardWidth-6, 4, tr(position(emp)), "", 1, "C", false, 0, "")

	pdf.SetXY(6, 57)
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(173, 181, 189)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetFont("Courier", "", 5.5)
	pdf.MultiCell(cardWidth-12, 2.8, tr(card.QRCodeData), "1", "C", false)

	pdf.SetFillColor(58, 77, 177)
	pdf.Rect(0, cardHeight-9, cardWidth, 9, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(3, cardHeight-8)
	pdf.SetFont("Helvetica", "", 5)
	notice := "This ID is property of " + brand.CompanyName + ". If found, please return."
	pdf.MultiCell(cardWidth-6, 2.5, tr(notice), "", "C", false)

	return pdf.Output(w)
}

func position(emp employees.Employee) string {
	if emp.Profile != nil && emp.Profile.Position != "" {
		return emp.Profile.Position
	}
	return defaultPosition
}
