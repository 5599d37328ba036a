// Package memory implements the process-memory resource stores backing the
// mock CRUD service. Records do not survive restarts.
package memory

import (
	"sync"

	"bmc-rentportal/internal/core/domain"
)

// TenantStore holds tenant records in process memory with auto-incrementing IDs
type TenantStore struct {
	mu      sync.RWMutex
	tenants []*domain.Tenant
}

// NewTenantStore creates a new tenant store
func NewTenantStore() *TenantStore {
	return &TenantStore{}
}

// List returns all tenants
func (s *TenantStore) List() []*domain.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Tenant, len(s.tenants))
	copy(out, s.tenants)
	return out
}

// GetByID returns a tenant by ID
func (s *TenantStore) GetByID(id int) (*domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create appends a tenant, assigning the next ID after the current last record
func (s *TenantStore) Create(t *domain.Tenant) *domain.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tenants) > 0 {
		t.ID = s.tenants[len(s.tenants)-1].ID + 1
	} else {
		t.ID = 1
	}
	s.tenants = append(s.tenants, t)
	return t
}

// Update merges non-nil fields into an existing tenant
func (s *TenantStore) Update(id int, patch *TenantPatch) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tenants {
		if t.ID != id {
			continue
		}
		patch.apply(t)
		return t, nil
	}
	return nil, domain.ErrNotFound
}

// Delete removes a tenant by ID. Deleting a missing ID is not an error,
// matching the resource contract.
func (s *TenantStore) Delete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tenants[:0]
	for _, t := range s.tenants {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tenants = kept
}

// TenantPatch carries a partial tenant update; nil fields are left unchanged
type TenantPatch struct {
	Name              *string                `json:"name"`
	Email             *string                `json:"email"`
	PropertyNo        *string                `json:"propertyNo"`
	PropertyLocation  *string                `json:"propertyLocation"`
	RentAmount        *float64               `json:"rentAmount"`
	OutstandingAmount *float64               `json:"outstandingAmount"`
	ENachStatus       *domain.ENachStatus    `json:"eNachStatus"`
	ContractStatus    *domain.ContractStatus `json:"contractStatus"`
}

func (p *TenantPatch) apply(t *domain.Tenant) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Email != nil {
		t.Email = *p.Email
	}
	if p.PropertyNo != nil {
		t.PropertyNo = *p.PropertyNo
	}
	if p.PropertyLocation != nil {
		t.PropertyLocation = *p.PropertyLocation
	}
	if p.RentAmount != nil {
		t.RentAmount = *p.RentAmount
	}
	if p.OutstandingAmount != nil {
		t.OutstandingAmount = *p.OutstandingAmount
	}
	if p.ENachStatus != nil {
		t.ENachStatus = *p.ENachStatus
	}
	if p.ContractStatus != nil {
		t.ContractStatus = *p.ContractStatus
	}
}
