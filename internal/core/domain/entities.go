package domain

import "time"

// Role represents a portal user role
type Role string

const (
	RoleNone   Role = ""
	RoleTenant Role = "tenant"
	RoleAdmin  Role = "admin"
)

// ENachStatus represents the tenant's e-NACH mandate status
type ENachStatus string

const (
	ENachNotRegistered ENachStatus = "not_registered"
	ENachPending       ENachStatus = "pending"
	ENachActive        ENachStatus = "active"
	ENachRejected      ENachStatus = "rejected"
)

// ContractStatus represents the tenancy contract status
type ContractStatus string

const (
	ContractActive       ContractStatus = "active"
	ContractExpiringSoon ContractStatus = "expiring_soon"
	ContractExpired      ContractStatus = "expired"
)

// Frequency represents the debit frequency of a mandate
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// IsValid reports whether f is one of the supported debit frequencies
func (f Frequency) IsValid() bool {
	return f == FrequencyMonthly || f == FrequencyQuarterly || f == FrequencyYearly
}

// AuthUser represents the identity returned by the authentication provider
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// TenantProfile represents the authenticated occupant's contractual record
type TenantProfile struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Phone             string         `json:"phone"`
	PropertyID        string         `json:"propertyId"`
	PropertyNo        string         `json:"propertyNo"`
	PropertyLocation  string         `json:"propertyLocation"`
	RentAmount        float64        `json:"rentAmount"`
	OutstandingAmount float64        `json:"outstandingAmount"`
	ContractStartDate string         `json:"contractStartDate"`
	ContractEndDate   string         `json:"contractEndDate"`
	ENachStatus       ENachStatus    `json:"eNachStatus"`
	ContractStatus    ContractStatus `json:"contractStatus"`
}

// Tenant represents a tenant record in the mock CRUD resource
type Tenant struct {
	ID                int            `json:"id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	PropertyNo        string         `json:"propertyNo"`
	PropertyLocation  string         `json:"propertyLocation"`
	RentAmount        float64        `json:"rentAmount"`
	OutstandingAmount float64        `json:"outstandingAmount"`
	ENachStatus       ENachStatus    `json:"eNachStatus"`
	ContractStatus    ContractStatus `json:"contractStatus"`
}

// Property represents a municipal property record
type Property struct {
	ID              string  `json:"id"`
	PropertyNo      string  `json:"propertyNo"`
	Location        string  `json:"location"`
	Area            float64 `json:"area"`
	Category        string  `json:"category"`
	RentRate        float64 `json:"rentRate"`
	EscalationRate  float64 `json:"escalationRate"`
	SecurityDeposit float64 `json:"securityDeposit"`
	Status          string  `json:"status"`
	PropertyType    string  `json:"propertyType"`
	Zone            string  `json:"zone"`
	Ward            string  `json:"ward"`
}

// MandateDraft is the working state of an in-progress e-NACH registration.
// The netbanking credentials and OTP are step-local secrets: they live only
// in memory for the duration of the flow and are never serialized.
type MandateDraft struct {
	TenantName    string    `json:"tenantName"`
	Mobile        string    `json:"mobile"`
	Email         string    `json:"email"`
	PropertyID    string    `json:"propertyId"`
	MandateAmount float64   `json:"mandateAmount"`
	Frequency     Frequency `json:"frequency"`
	BankName      string    `json:"bankName"`
	AgreedToTerms bool      `json:"agreedToTerms"`

	CustomerID string `json:"-"`
	Password   string `json:"-"`
	OTP        string `json:"-"`
}

// MandateRecord is the terminal artifact of a successful registration
type MandateRecord struct {
	MandateID        string    `json:"mandateId"`
	BankName         string    `json:"bankName"`
	Amount           float64   `json:"amount"`
	Frequency        Frequency `json:"frequency"`
	RegistrationDate time.Time `json:"registrationDate"`
	Status           string    `json:"status"`
}

// Banks is the fixed bank list offered for mandate registration
var Banks = []string{
	"State Bank of India",
	"HDFC Bank",
	"ICICI Bank",
	"Punjab National Bank",
	"Bank of Baroda",
	"Axis Bank",
	"Kotak Mahindra Bank",
	"Union Bank of India",
	"Canara Bank",
	"Bank of India",
}

// IsValidBank reports whether name is in the fixed bank list
func IsValidBank(name string) bool {
	for _, b := range Banks {
		if b == name {
			return true
		}
	}
	return false
}
