package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"laportal/internal/domain/audits"
	"laportal/internal/domain/earnings"
	"laportal/internal/domain/parcels"
)

// Branding is the letterhead printed on exported documents.
type Branding struct {
	CompanyName    string
	CompanyAddress string
	Currency       string
}

type Dashboard struct {
	EmployeeCount   int                  `json:"employeeCount"`
	LostParcelCount int                  `json:"lostParcelCount"`
	TodayEarnings   decimal.Decimal      `json:"todayEarnings"`
	MonthEarnings   decimal.Decimal      `json:"monthEarnings"`
	RecentParcels   []parcels.LostParcel `json:"recentParcels"`
	RecentAudits    []audits.AuditRecord `json:"recentAudits"`
}

type PeriodReport struct {
	Title     string              `json:"title"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Type      string              `json:"type"`
	Summary   earnings.Summary    `json:"summary"`
	Daily     []earnings.DayTotal `json:"daily"`
	start     time.Time
	end       time.Time
}
