package employees

import "time"

type Employee struct {
	ID             string     `json:"id"`
	EmployeeNumber string     `json:"employeeNumber,omitempty"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	Profile        *Profile   `json:"profile,omitempty"`
}

type Profile struct {
	Phone           string     `json:"phone"`
	Position        string     `json:"position"`
	Department      string     `json:"department"`
	Address         string     `json:"address"`
	DateEmployed    *time.Time `json:"dateEmployed,omitempty"`
	PrimaryIDType   string     `json:"primaryIdType"`
	PrimaryIDRef    string     `json:"primaryIdRef"`
	SecondaryIDType string     `json:"secondaryIdType"`
	SecondaryIDRef  string     `json:"secondaryIdRef"`
	TINID           string     `json:"tinId"`
	Background      Background `json:"background"`
	Personal        Personal   `json:"personal"`
	Social          Social     `json:"social"`
	Parents         Parents    `json:"parents"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type Background struct {
	Education          string   `json:"education"`
	PreviousEmployment string   `json:"previousEmployment"`
	Skills             []string `json:"skills"`
}

type Personal struct {
	Birthdate   *time.Time `json:"birthdate,omitempty"`
	Gender      string     `json:"gender"`
	CivilStatus string     `json:"civilStatus"`
	Nationality string     `json:"nationality"`
}

type Social struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
}

type Parents struct {
	FatherName       string `json:"fatherName"`
	FatherOccupation string `json:"fatherOccupation"`
	FatherContact    string `json:"fatherContact"`
	MotherName       string `json:"motherName"`
	MotherOccupation string `json:"motherOccupation"`
	MotherContact    string `json:"motherContact"`
}

type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// NewUser is a user row ready to insert; the password is already hashed.
type NewUser struct {
	EmployeeNumber string
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	DateEmployed   time.Time
}

// ProfileUpdate carries optional changes. Empty strings and nil sub-documents
// leave the stored value untouched.
type ProfileUpdate struct {
	Name            string
	Email           string
	Phone           string
	Position        string
	Department      string
	Address         string
	DateEmployed    *time.Time
	PrimaryIDType   string
	PrimaryIDRef    string
	SecondaryIDType string
	SecondaryIDRef  string
	TINID           string
	Background      *Background
	Personal        *Personal
	Social          *Social
	Parents         *Parents
}
