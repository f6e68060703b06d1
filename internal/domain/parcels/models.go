package parcels

import (
	"time"

	"github.com/shopspring/decimal"
)

type LostParcel struct {
	ID                string          `json:"id"`
	TrackingNumber    string          `json:"trackingNumber"`
	DateTimeScanned   time.Time       `json:"dateTimeScanned"`
	Courier           string          `json:"courier"`
	SenderName        string          `json:"senderName"`
	CustomerPhone     string          `json:"customerPhone"`
	CustomerAddress   string          `json:"customerAddress"`
	LastKnownLocation string          `json:"lastKnownLocation"`
	EstimatedValue    decimal.Decimal `json:"estimatedValue"`
	Status            string          `json:"status"`
	Description       string          `json:"description"`
	Notes             string          `json:"notes"`
	CreatedBy         string          `json:"createdBy,omitempty"`
	CreatedByName     string          `json:"createdByName,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type Input struct {
	TrackingNumber    string
	DateTimeScanned   time.Time
	Courier           string
	SenderName        string
	CustomerPhone     string
	CustomerAddress   string
	LastKnownLocation string
	EstimatedValue    decimal.Decimal
	Status            string
	Description       string
	Notes             string
}
