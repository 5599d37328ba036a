package services

import (
	"strings"

	"bmc-rentportal/internal/adapters/persistence/memory"
	"bmc-rentportal/internal/core/domain"
)

// TenantService implements the tenant resource over the in-memory store
type TenantService struct {
	store *memory.TenantStore
}

// NewTenantService creates a new tenant service
func NewTenantService(store *memory.TenantStore) *TenantService {
	return &TenantService{store: store}
}

// TenantInput carries the fields accepted on tenant creation
type TenantInput struct {
	Name              string                `json:"name"`
	Email             string                `json:"email"`
	PropertyNo        string                `json:"propertyNo"`
	PropertyLocation  string                `json:"propertyLocation"`
	RentAmount        float64               `json:"rentAmount"`
	OutstandingAmount float64               `json:"outstandingAmount"`
	ENachStatus       domain.ENachStatus    `json:"eNachStatus"`
	ContractStatus    domain.ContractStatus `json:"contractStatus"`
}

// List returns all tenant records
func (s *TenantService) List() []*domain.Tenant {
	return s.store.List()
}

// Get returns one tenant by ID
func (s *TenantService) Get(id int) (*domain.Tenant, error) {
	return s.store.GetByID(id)
}

// Create validates and stores a new tenant record. Status fields default to
// a fresh tenancy when omitted.
func (s *TenantService) Create(input *TenantInput) (*domain.Tenant, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.RentAmount < 0 || input.OutstandingAmount < 0 {
		return nil, domain.ErrInvalidInput
	}

	eNach := input.ENachStatus
	if eNach == "" {
		eNach = domain.ENachNotRegistered
	}
	contract := input.ContractStatus
	if contract == "" {
		contract = domain.ContractActive
	}

	return s.store.Create(&domain.Tenant{
		Name:              strings.TrimSpace(input.Name),
		Email:             strings.TrimSpace(input.Email),
		PropertyNo:        input.PropertyNo,
		PropertyLocation:  input.PropertyLocation,
		RentAmount:        input.RentAmount,
		OutstandingAmount: input.OutstandingAmount,
		ENachStatus:       eNach,
		ContractStatus:    contract,
	}), nil
}

// Update merges a partial update into an existing tenant
func (s *TenantService) Update(id int, patch *memory.TenantPatch) (*domain.Tenant, error) {
	if patch.RentAmount != nil && *patch.RentAmount < 0 {
		return nil, domain.ErrInvalidInput
	}
	if patch.OutstandingAmount != nil && *patch.OutstandingAmount < 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Update(id, patch)
}

// Delete removes a tenant. Missing IDs are ignored.
func (s *TenantService) Delete(id int) {
	s.store.Delete(id)
}
