package memory

import (
	"errors"
	"testing"

	"bmc-rentportal/internal/core/domain"
)

func TestTenantStoreIDAssignment(t *testing.T) {
	store := NewTenantStore()

	first := store.Create(&domain.Tenant{Name: "A"})
	second := store.Create(&domain.Tenant{Name: "B"})
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected IDs 1 and 2, got %d and %d", first.ID, second.ID)
	}

	// IDs continue after the current last record, so a freed ID is reused
	// only when the tail is deleted
	store.Delete(2)
	third := store.Create(&domain.Tenant{Name: "C"})
	if third.ID != 2 {
		t.Fatalf("expected ID 2 after tail delete, got %d", third.ID)
	}
}

func TestTenantStoreGetAndUpdate(t *testing.T) {
	store := NewTenantStore()
	created := store.Create(&domain.Tenant{
		Name:        "Rajesh Kumar",
		RentAmount:  15000,
		ENachStatus: domain.ENachNotRegistered,
	})

	got, err := store.GetByID(created.ID)
	if err != nil || got.Name != "Rajesh Kumar" {
		t.Fatalf("get failed: %+v %v", got, err)
	}

	if _, err := store.GetByID(999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	status := domain.ENachActive
	rent := 18000.0
	updated, err := store.Update(created.ID, &TenantPatch{
		ENachStatus: &status,
		RentAmount:  &rent,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ENachStatus != domain.ENachActive || updated.RentAmount != 18000 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	// Unset fields are untouched
	if updated.Name != "Rajesh Kumar" {
		t.Fatalf("unpatched field changed: %+v", updated)
	}

	if _, err := store.Update(999, &TenantPatch{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTenantStoreDeleteIsIdempotent(t *testing.T) {
	store := NewTenantStore()
	created := store.Create(&domain.Tenant{Name: "A"})

	store.Delete(created.ID)
	store.Delete(created.ID)
	store.Delete(999)

	if n := len(store.List()); n != 0 {
		t.Fatalf("expected empty store, got %d records", n)
	}
}

func TestPropertyStoreFormattedIDs(t *testing.T) {
	store := NewPropertyStore()

	first := store.Create(&domain.Property{PropertyNo: "Shop 1"})
	second := store.Create(&domain.Property{PropertyNo: "Shop 2"})
	if first.ID != "P001" || second.ID != "P002" {
		t.Fatalf("expected P001/P002, got %s/%s", first.ID, second.ID)
	}

	// Seed records keep their own ID
	seeded := store.Create(&domain.Property{ID: "CUSTOM", PropertyNo: "Shop 3"})
	if seeded.ID != "CUSTOM" {
		t.Fatalf("seed ID overwritten: %s", seeded.ID)
	}
}
