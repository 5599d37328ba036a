package services

import (
	"strings"

	"bmc-rentportal/internal/adapters/persistence/memory"
	"bmc-rentportal/internal/core/domain"
)

// PropertyService implements the property resource over the in-memory store
type PropertyService struct {
	store *memory.PropertyStore
}

// NewPropertyService creates a new property service
func NewPropertyService(store *memory.PropertyStore) *PropertyService {
	return &PropertyService{store: store}
}

// List returns all property records
func (s *PropertyService) List() []*domain.Property {
	return s.store.List()
}

// Get returns one property by ID
func (s *PropertyService) Get(id string) (*domain.Property, error) {
	return s.store.GetByID(id)
}

// Create validates and stores a new property record
func (s *PropertyService) Create(p *domain.Property) (*domain.Property, error) {
	if strings.TrimSpace(p.PropertyNo) == "" {
		return nil, domain.ErrInvalidInput
	}
	if p.RentRate < 0 || p.Area < 0 {
		return nil, domain.ErrInvalidInput
	}
	if p.Status == "" {
		p.Status = "vacant"
	}
	return s.store.Create(p), nil
}

// Update merges a partial update into an existing property
func (s *PropertyService) Update(id string, patch *memory.PropertyPatch) (*domain.Property, error) {
	if patch.RentRate != nil && *patch.RentRate < 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Update(id, patch)
}

// Delete removes a property. Missing IDs are ignored.
func (s *PropertyService) Delete(id string) {
	s.store.Delete(id)
}
