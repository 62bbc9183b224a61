package matching

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-matching/internal/models"
)

const sampleCatalogYAML = `
version: "1"
factories:
  - id: factory-100
    name: Busan Seafood Works
    region: Busan
    city: Gijang
    certifications: [HACCP]
    equipment:
      - type: freezer
        capacity: 20t
        status: available
      - type: packaging
        capacity: 5000/day
        status: in-use
    specialties: [seafood]
    moq: 500
    leadTime: 12
    baseCostPerUnit: 1800
    rating: 4.3
    successfulProjects: 42
    contact:
      name: Park Ji-hoon
      phone: 051-555-0101
`

func TestParseCatalog_YAML(t *testing.T) {
	factories, err := ParseCatalog([]byte(sampleCatalogYAML), ".yaml")
	require.NoError(t, err)
	require.Len(t, factories, 1)

	f := factories[0]
	assert.Equal(t, "factory-100", f.ID)
	assert.Equal(t, 500, f.MOQ)
	assert.Equal(t, 1800.0, f.BaseCostPerUnit)
	assert.True(t, f.HasAvailableEquipment("freezer"))
	assert.False(t, f.HasAvailableEquipment("packaging"))
	assert.Equal(t, "Park Ji-hoon", f.Contact.Name)
}

func TestParseCatalog_MaintenanceStatus(t *testing.T) {
	data := `{"factories": [{"id":"f1","name":"A","region":"Busan","baseCostPerUnit":1,
		"equipment":[{"type":"mixer","status":"maintenance"}]}]}`

	factories, err := ParseCatalog([]byte(data), ".json")
	require.NoError(t, err)
	require.Len(t, factories, 1)
	assert.Equal(t, models.EquipmentMaintenance, factories[0].Equipment[0].Status)
	assert.False(t, factories[0].HasAvailableEquipment("mixer"))
}

func TestLoadCatalog_RoundTripsDefaultCatalog(t *testing.T) {
	data, err := MarshalCatalog(DefaultCatalog())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	factories, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, ids(DefaultCatalog()), ids(factories))
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
		want string
	}{
		{"unsupported format", `{}`, ".toml", "unsupported catalogue format"},
		{"broken json", `{"factories": [`, ".json", "parse catalogue json"},
		{"empty", `{"factories": []}`, ".json", "no factories"},
		{"duplicate id", `{"factories": [
			{"id":"f1","name":"A","region":"Busan","baseCostPerUnit":1},
			{"id":"f1","name":"B","region":"Busan","baseCostPerUnit":1}]}`, ".json", "duplicate factory id"},
		{"missing region", `{"factories": [{"id":"f1","name":"A","baseCostPerUnit":1}]}`, ".json", "region"},
		{"zero cost", `{"factories": [{"id":"f1","name":"A","region":"Busan"}]}`, ".json", "baseCostPerUnit"},
		{"bad rating", `{"factories": [{"id":"f1","name":"A","region":"Busan","baseCostPerUnit":1,"rating":7}]}`, ".json", "rating"},
		{"bad equipment status", `{"factories": [{"id":"f1","name":"A","region":"Busan","baseCostPerUnit":1,
			"equipment":[{"type":"mixer","status":"broken"}]}]}`, ".json", "unknown status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data), tt.ext)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateCatalog_DefaultCatalogIsValid(t *testing.T) {
	assert.NoError(t, ValidateCatalog(DefaultCatalog()))
	assert.Error(t, ValidateCatalog([]models.Factory{{Name: "no id"}}))
}
