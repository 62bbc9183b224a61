package matching

import "factory-matching/internal/models"

func available(equipmentType, capacity string) models.Equipment {
	return models.Equipment{Type: equipmentType, Capacity: capacity, Status: models.EquipmentAvailable}
}

func inUse(equipmentType, capacity string) models.Equipment {
	return models.Equipment{Type: equipmentType, Capacity: capacity, Status: models.EquipmentInUse}
}

// DefaultCatalog returns the partner factory network shipped with the service.
// Each call returns fresh values.
func DefaultCatalog() []models.Factory {
	return []models.Factory{
		{
			ID:             "factory-001",
			Name:           "Seoul Food Processing",
			Region:         "Gyeonggi",
			City:           "Ansan",
			Certifications: []string{"HACCP", "ISO22000", "GMP"},
			Equipment: []models.Equipment{
				available("mixer", "500kg/batch"),
				available("cooker", "1000L"),
				available("packaging", "10000/day"),
				available("freezer", "50t"),
			},
			Specialties:        []string{"noodles", "sauces", "side dishes"},
			MOQ:                1000,
			LeadTime:           14,
			BaseCostPerUnit:    1200,
			Rating:             4.8,
			SuccessfulProjects: 127,
			Contact:            models.Contact{Name: "Kim Saeng-san", Phone: "031-123-4567"},
		},
		{
			ID:             "factory-002",
			Name:           "Busan Food Industries",
			Region:         "Busan",
			City:           "Gangseo-gu",
			Certifications: []string{"HACCP", "ISO22000", "FSSC22000"},
			Equipment: []models.Equipment{
				available("cooker", "2000L"),
				available("pasteurizer", "500L/h"),
				available("filling", "5000/day"),
				available("labeling", "8000/day"),
			},
			Specialties:        []string{"stews", "soups", "retort pouches"},
			MOQ:                500,
			LeadTime:           10,
			BaseCostPerUnit:    1100,
			Rating:             4.6,
			SuccessfulProjects: 89,
			Contact:            models.Contact{Name: "Park Gong-jang", Phone: "051-234-5678"},
		},
		{
			ID:             "factory-003",
			Name:           "Daejeon Food Lab",
			Region:         "Daejeon",
			City:           "Yuseong-gu",
			Certifications: []string{"HACCP", "ISO22000", "KFDA"},
			Equipment: []models.Equipment{
				available("mixer", "200kg/batch"),
				available("fryer", "100kg/h"),
				available("sterilizer", "1000/batch"),
				available("packaging", "5000/day"),
			},
			Specialties:        []string{"convenience meals", "HMR", "meal kits"},
			MOQ:                300,
			LeadTime:           7,
			BaseCostPerUnit:    1400,
			Rating:             4.9,
			SuccessfulProjects: 156,
			Contact:            models.Contact{Name: "Lee Yeon-gu", Phone: "042-345-6789"},
		},
		{
			ID:             "factory-004",
			Name:           "Chungbuk Agri Foods",
			Region:         "Chungbuk",
			City:           "Cheongju",
			Certifications: []string{"HACCP", "GAP", "ECO"},
			Equipment: []models.Equipment{
				available("cooker", "1500L"),
				available("freezer", "100t"),
				inUse("packaging", "20000/day"),
			},
			Specialties:        []string{"agricultural processing", "jams", "pickles"},
			MOQ:                2000,
			LeadTime:           21,
			BaseCostPerUnit:    900,
			Rating:             4.4,
			SuccessfulProjects: 67,
			Contact:            models.Contact{Name: "Choi Nong-eop", Phone: "043-456-7890"},
		},
		{
			ID:             "factory-005",
			Name:           "Jeonnam Seafood Processing",
			Region:         "Jeonnam",
			City:           "Naju",
			Certifications: []string{"HACCP", "ISO22000", "EXPORT_HYGIENE"},
			Equipment: []models.Equipment{
				available("mixer", "1000kg/batch"),
				available("cooker", "3000L"),
				available("pasteurizer", "1000L/h"),
				available("packaging", "30000/day"),
				available("freezer", "200t"),
			},
			Specialties:        []string{"seafood processing", "salted seafood", "mass production"},
			MOQ:                5000,
			LeadTime:           14,
			BaseCostPerUnit:    800,
			Rating:             4.7,
			SuccessfulProjects: 203,
			Contact:            models.Contact{Name: "Jung Su-san", Phone: "061-567-8901"},
		},
	}
}
