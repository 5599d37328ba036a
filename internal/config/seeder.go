package config

import (
	"log"

	"bmc-rentportal/internal/adapters/persistence/memory"
	"bmc-rentportal/internal/core/domain"
)

// SeedPortalData loads the demo tenant and property fixtures into the
// in-memory stores. The records mirror the municipal pilot data set.
func SeedPortalData(tenants *memory.TenantStore, properties *memory.PropertyStore) {
	seedTenants := []*domain.Tenant{
		{
			Name:              "Rajesh Kumar",
			Email:             "rajesh.kumar@email.com",
			PropertyNo:        "Shop No. 12, New Market",
			PropertyLocation:  "TT Nagar, Bhopal",
			RentAmount:        15000,
			OutstandingAmount: 45000,
			ENachStatus:       domain.ENachNotRegistered,
			ContractStatus:    domain.ContractActive,
		},
		{
			Name:              "Anita Patel",
			Email:             "anita.patel@email.com",
			PropertyNo:        "Shop No. 8, MP Nagar",
			PropertyLocation:  "Zone-II, MP Nagar, Bhopal",
			RentAmount:        22000,
			OutstandingAmount: 0,
			ENachStatus:       domain.ENachActive,
			ContractStatus:    domain.ContractActive,
		},
		{
			Name:              "Mohammed Iqbal",
			Email:             "mohammed.iqbal@email.com",
			PropertyNo:        "Kiosk 3, Bittan Market",
			PropertyLocation:  "Bittan Market, Bhopal",
			RentAmount:        8500,
			OutstandingAmount: 17000,
			ENachStatus:       domain.ENachPending,
			ContractStatus:    domain.ContractExpiringSoon,
		},
		{
			Name:              "Sunita Sharma",
			Email:             "sunita.sharma@email.com",
			PropertyNo:        "Shop No. 21, 10 Number Market",
			PropertyLocation:  "Arera Colony, Bhopal",
			RentAmount:        12000,
			OutstandingAmount: 12000,
			ENachStatus:       domain.ENachRejected,
			ContractStatus:    domain.ContractActive,
		},
	}
	for _, t := range seedTenants {
		tenants.Create(t)
	}

	seedProperties := []*domain.Property{
		{
			PropertyNo:      "Shop No. 12, New Market",
			Location:        "TT Nagar, Bhopal",
			Area:            320,
			Category:        "commercial",
			RentRate:        15000,
			EscalationRate:  10,
			SecurityDeposit: 45000,
			Status:          "occupied",
			PropertyType:    "shop",
			Zone:            "Zone-I",
			Ward:            "Ward 28",
		},
		{
			PropertyNo:      "Shop No. 8, MP Nagar",
			Location:        "Zone-II, MP Nagar, Bhopal",
			Area:            450,
			Category:        "commercial",
			RentRate:        22000,
			EscalationRate:  10,
			SecurityDeposit: 66000,
			Status:          "occupied",
			PropertyType:    "shop",
			Zone:            "Zone-II",
			Ward:            "Ward 33",
		},
		{
			PropertyNo:      "Kiosk 3, Bittan Market",
			Location:        "Bittan Market, Bhopal",
			Area:            80,
			Category:        "commercial",
			RentRate:        8500,
			EscalationRate:  5,
			SecurityDeposit: 17000,
			Status:          "occupied",
			PropertyType:    "kiosk",
			Zone:            "Zone-III",
			Ward:            "Ward 45",
		},
		{
			PropertyNo:      "Shop No. 5, Habibganj",
			Location:        "Habibganj, Bhopal",
			Area:            280,
			Category:        "commercial",
			RentRate:        13500,
			EscalationRate:  10,
			SecurityDeposit: 40500,
			Status:          "vacant",
			PropertyType:    "shop",
			Zone:            "Zone-II",
			Ward:            "Ward 51",
		},
	}
	for _, p := range seedProperties {
		properties.Create(p)
	}

	log.Printf("✅ Seeded %d tenants and %d properties", len(seedTenants), len(seedProperties))
}
