package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"factory-matching/internal/models"
)

// CatalogFile is the on-disk layout of a factory catalogue.
type CatalogFile struct {
	Version   string           `json:"version" yaml:"version"`
	Factories []models.Factory `json:"factories" yaml:"factories"`
}

// LoadCatalog reads a catalogue from a .yaml, .yml or .json file.
func LoadCatalog(path string) ([]models.Factory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}
	return ParseCatalog(data, filepath.Ext(path))
}

// ParseCatalog decodes data according to ext and validates the result.
func ParseCatalog(data []byte, ext string) ([]models.Factory, error) {
	var file CatalogFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse catalogue yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse catalogue json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalogue format %q", ext)
	}

	if err := ValidateCatalog(file.Factories); err != nil {
		return nil, err
	}
	return file.Factories, nil
}

// ValidateCatalog rejects duplicate ids and entries that scoring cannot use.
func ValidateCatalog(factories []models.Factory) error {
	if len(factories) == 0 {
		return fmt.Errorf("catalogue contains no factories")
	}

	seen := make(map[string]bool, len(factories))
	for i, f := range factories {
		if f.ID == "" {
			return fmt.Errorf("factory #%d missing required field: id", i+1)
		}
		if seen[f.ID] {
			return fmt.Errorf("duplicate factory id: %s", f.ID)
		}
		seen[f.ID] = true

		switch {
		case f.Name == "":
			return fmt.Errorf("factory %s missing required field: name", f.ID)
		case f.Region == "":
			return fmt.Errorf("factory %s missing required field: region", f.ID)
		case f.BaseCostPerUnit <= 0:
			return fmt.Errorf("factory %s: baseCostPerUnit must be positive", f.ID)
		case f.MOQ < 0 || f.LeadTime < 0:
			return fmt.Errorf("factory %s: moq and leadTime must not be negative", f.ID)
		case f.Rating < 0 || f.Rating > 5:
			return fmt.Errorf("factory %s: rating must be between 0 and 5", f.ID)
		}

		for _, e := range f.Equipment {
			switch e.Status {
			case models.EquipmentAvailable, models.EquipmentInUse, models.EquipmentMaintenance:
			default:
				return fmt.Errorf("factory %s: equipment %s has unknown status %q", f.ID, e.Type, e.Status)
			}
		}
	}
	return nil
}

// MarshalCatalog encodes factories as a yaml catalogue file.
func MarshalCatalog(factories []models.Factory) ([]byte, error) {
	return yaml.Marshal(CatalogFile{Version: "1", Factories: factories})
}
