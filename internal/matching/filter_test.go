package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-matching/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func ids(factories []models.Factory) []string {
	out := make([]string, 0, len(factories))
	for _, f := range factories {
		out = append(out, f.ID)
	}
	return out
}

func testFactory(id string, equipment ...models.Equipment) models.Factory {
	return models.Factory{
		ID:                 id,
		Name:               "Factory " + id,
		Region:             "Gyeonggi",
		Certifications:     []string{"HACCP"},
		Equipment:          equipment,
		Specialties:        []string{"noodles"},
		MOQ:                100,
		LeadTime:           10,
		BaseCostPerUnit:    1000,
		Rating:             4.5,
		SuccessfulProjects: 100,
	}
}

func ramenLine() []models.Equipment {
	return []models.Equipment{
		available("cooker", "1000L"),
		available("mixer", "500kg"),
		available("packaging", "10000/day"),
	}
}

// ==========================
// Registry
// ==========================

func TestRegistry_ListAllKeepsOrderAndSkipsInactive(t *testing.T) {
	inactive := testFactory("f-2", ramenLine()...)
	inactive.Status = models.FactoryStatusInactive

	registry := NewRegistry([]models.Factory{
		testFactory("f-1", ramenLine()...),
		inactive,
		testFactory("f-3", ramenLine()...),
	})

	assert.Equal(t, []string{"f-1", "f-3"}, ids(registry.ListAll()))
	assert.Equal(t, 2, registry.Len())
}

func TestRegistry_SnapshotIsIsolated(t *testing.T) {
	source := []models.Factory{testFactory("f-1", ramenLine()...)}
	registry := NewRegistry(source)

	source[0].Equipment[0].Status = models.EquipmentInUse
	listed := registry.ListAll()
	listed[0].Name = "mutated"

	again := registry.ListAll()
	assert.Equal(t, models.EquipmentAvailable, again[0].Equipment[0].Status)
	assert.Equal(t, "Factory f-1", again[0].Name)
}

func TestRegistry_Empty(t *testing.T) {
	var nilRegistry *Registry
	assert.Empty(t, nilRegistry.ListAll())
	assert.Empty(t, Filter(models.MatchRequest{RecipeCategory: "ramen", MonthlyQuantity: 10}, NewRegistry(nil)))
}

// ==========================
// Constraint Filter
// ==========================

func TestFilter_DefaultCatalog(t *testing.T) {
	registry := NewRegistry(DefaultCatalog())

	tests := []struct {
		name     string
		request  models.MatchRequest
		expected []string
	}{
		{
			name:     "ramen excludes factories without available cooker mixer packaging",
			request:  models.MatchRequest{RecipeCategory: "ramen", MonthlyQuantity: 1500},
			expected: []string{"factory-001"},
		},
		{
			name:     "large noodle run passes the high MOQ factory",
			request:  models.MatchRequest{RecipeCategory: "noodle", MonthlyQuantity: 12000},
			expected: []string{"factory-001", "factory-005"},
		},
		{
			name:     "soup needs a filling line",
			request:  models.MatchRequest{RecipeCategory: "soup", MonthlyQuantity: 800},
			expected: []string{"factory-002"},
		},
		{
			name:     "unknown category has no equipment constraint",
			request:  models.MatchRequest{RecipeCategory: "dessert", MonthlyQuantity: 800},
			expected: []string{"factory-002", "factory-003"},
		},
		{
			name: "certifications are a subset test",
			request: models.MatchRequest{
				RecipeCategory:         "dessert",
				MonthlyQuantity:        10000,
				RequiredCertifications: []string{"HACCP", "ISO22000"},
			},
			expected: []string{"factory-001", "factory-002", "factory-003", "factory-005"},
		},
		{
			name: "certification match is case sensitive",
			request: models.MatchRequest{
				RecipeCategory:         "dessert",
				MonthlyQuantity:        10000,
				RequiredCertifications: []string{"haccp"},
			},
			expected: []string{},
		},
		{
			name:     "quantity below every MOQ",
			request:  models.MatchRequest{RecipeCategory: "ramen", MonthlyQuantity: 100},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Filter(tt.request, registry)))
		})
	}
}

func TestFilter_InUseEquipmentIsHardConstraint(t *testing.T) {
	star := testFactory("star",
		available("cooker", "1000L"),
		inUse("mixer", "500kg"),
		available("packaging", "10000/day"),
	)
	star.Rating = 5
	star.SuccessfulProjects = 500
	star.BaseCostPerUnit = 10

	plain := testFactory("plain", ramenLine()...)

	registry := NewRegistry([]models.Factory{star, plain})
	got := Filter(models.MatchRequest{RecipeCategory: "ramen", MonthlyQuantity: 1000}, registry)

	assert.Equal(t, []string{"plain"}, ids(got))
}

func TestFilter_MaintenanceEquipmentIsHardConstraint(t *testing.T) {
	f := testFactory("f-1",
		available("cooker", "1000L"),
		models.Equipment{Type: "mixer", Capacity: "500kg", Status: models.EquipmentMaintenance},
		available("packaging", "10000/day"),
	)
	registry := NewRegistry([]models.Factory{f})
	req := models.MatchRequest{RecipeCategory: "ramen", MonthlyQuantity: 1000}

	assert.Empty(t, Filter(req, registry))
	assert.Empty(t, busyEquipment(f, RequiredEquipment("ramen")))
}

func TestFilter_MissingEquipmentType(t *testing.T) {
	f := testFactory("f-1", available("cooker", "1000L"), available("mixer", "500kg"))
	registry := NewRegistry([]models.Factory{f})

	assert.Empty(t, Filter(models.MatchRequest{RecipeCategory: "ramen", MonthlyQuantity: 1000}, registry))
}

func TestFilter_DuplicateEquipmentAnyAvailableSuffices(t *testing.T) {
	f := testFactory("f-1",
		inUse("mixer", "200kg"),
		available("mixer", "500kg"),
		available("cooker", "1000L"),
		available("packaging", "10000/day"),
	)
	registry := NewRegistry([]models.Factory{f})

	got := Filter(models.MatchRequest{RecipeCategory: "ramen", MonthlyQuantity: 1000}, registry)
	require.Len(t, got, 1)
	assert.Equal(t, "f-1", got[0].ID)
}

func TestFilter_MOQBoundaryIsInclusive(t *testing.T) {
	f := testFactory("f-1", ramenLine()...)
	f.MOQ = 1000
	registry := NewRegistry([]models.Factory{f})

	assert.Len(t, Filter(models.MatchRequest{RecipeCategory: "ramen", MonthlyQuantity: 1000}, registry), 1)
	assert.Empty(t, Filter(models.MatchRequest{RecipeCategory: "ramen", MonthlyQuantity: 999}, registry))
}

func TestRequiredEquipment(t *testing.T) {
	assert.Equal(t, []string{"cooker", "pasteurizer", "filling"}, RequiredEquipment("soup"))
	assert.Empty(t, RequiredEquipment("unknown"))

	got := RequiredEquipment("meat")
	got[0] = "changed"
	assert.Equal(t, "cooker", RequiredEquipment("meat")[0])
}
