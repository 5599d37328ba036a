package memory

import (
	"fmt"
	"sync"

	"bmc-rentportal/internal/core/domain"
)

// PropertyStore holds property records in process memory with auto-formatted IDs
type PropertyStore struct {
	mu         sync.RWMutex
	properties []*domain.Property
	nextSeq    int
}

// NewPropertyStore creates a new property store
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{nextSeq: 1}
}

// List returns all properties
func (s *PropertyStore) List() []*domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Property, len(s.properties))
	copy(out, s.properties)
	return out
}

// GetByID returns a property by ID
func (s *PropertyStore) GetByID(id string) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.properties {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create appends a property, assigning the next formatted ID (P001, P002, ...)
// unless the record already carries one (seed data).
func (s *PropertyStore) Create(p *domain.Property) *domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = fmt.Sprintf("P%03d", s.nextSeq)
	}
	s.nextSeq++
	s.properties = append(s.properties, p)
	return p
}

// Update merges non-nil fields into an existing property
func (s *PropertyStore) Update(id string, patch *PropertyPatch) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.properties {
		if p.ID != id {
			continue
		}
		patch.apply(p)
		return p, nil
	}
	return nil, domain.ErrNotFound
}

// Delete removes a property by ID
func (s *PropertyStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.properties[:0]
	for _, p := range s.properties {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.properties = kept
}

// PropertyPatch carries a partial property update; nil fields are left unchanged
type PropertyPatch struct {
	PropertyNo      *string  `json:"propertyNo"`
	Location        *string  `json:"location"`
	Area            *float64 `json:"area"`
	Category        *string  `json:"category"`
	RentRate        *float64 `json:"rentRate"`
	EscalationRate  *float64 `json:"escalationRate"`
	SecurityDeposit *float64 `json:"securityDeposit"`
	Status          *string  `json:"status"`
	PropertyType    *string  `json:"propertyType"`
	Zone            *string  `json:"zone"`
	Ward            *string  `json:"ward"`
}

func (p *PropertyPatch) apply(dst *domain.Property) {
	if p.PropertyNo != nil {
		dst.PropertyNo = *p.PropertyNo
	}
	if p.Location != nil {
		dst.Location = *p.Location
	}
	if p.Area != nil {
		dst.Area = *p.Area
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.RentRate != nil {
		dst.RentRate = *p.RentRate
	}
	if p.EscalationRate != nil {
		dst.EscalationRate = *p.EscalationRate
	}
	if p.SecurityDeposit != nil {
		dst.SecurityDeposit = *p.SecurityDeposit
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
	if p.PropertyType != nil {
		dst.PropertyType = *p.PropertyType
	}
	if p.Zone != nil {
		dst.Zone = *p.Zone
	}
	if p.Ward != nil {
		dst.Ward = *p.Ward
	}
}
