package idcards

import "time"

// IDCard is the single card issued to an employee. Reissuing replaces the
// payload in place.
type IDCard struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	EmployeeName   string     `json:"employeeName"`
	EmployeeNumber string     `json:"employeeNumber"`
	QRCodeData     string     `json:"qrCodeData"`
	GeneratedBy    string     `json:"generatedBy,omitempty"`
	GeneratedAt    time.Time  `json:"generatedAt"`
	RenderedAt     *time.Time `json:"renderedAt,omitempty"`
}

// IssueResult reports whether Issue created the card or replaced an existing
// payload.
type IssueResult struct {
	Card    IDCard `json:"card"`
	Created bool   `json:"created"`
}
