package matching

import "factory-matching/internal/models"

// equipmentRequirements maps a recipe category to the equipment types a factory
// must have available to produce it.
var equipmentRequirements = map[string][]string{
	"ramen":  {"cooker", "mixer", "packaging"},
	"soup":   {"cooker", "pasteurizer", "filling"},
	"noodle": {"mixer", "cooker", "packaging"},
	"sauce":  {"mixer", "pasteurizer", "filling"},
	"side":   {"cooker", "packaging", "freezer"},
	"meat":   {"cooker", "freezer", "packaging"},
}

// RequiredEquipment returns the equipment types for a category. Unknown
// categories have no equipment constraint.
func RequiredEquipment(category string) []string {
	return append([]string(nil), equipmentRequirements[category]...)
}

// Filter returns the factories that satisfy every hard constraint of req, in
// registry order.
func Filter(req models.MatchRequest, registry *Registry) []models.Factory {
	required := equipmentRequirements[req.RecipeCategory]

	candidates := make([]models.Factory, 0, registry.Len())
	for _, f := range registry.ListAll() {
		if !hasEquipment(f, required) {
			continue
		}
		if req.MonthlyQuantity < f.MOQ {
			continue
		}
		if !hasCertifications(f, req.RequiredCertifications) {
			continue
		}
		candidates = append(candidates, f)
	}
	return candidates
}

// hasEquipment holds when each required type has at least one available entry.
func hasEquipment(f models.Factory, required []string) bool {
	for _, t := range required {
		if !f.HasAvailableEquipment(t) {
			return false
		}
	}
	return true
}

func hasCertifications(f models.Factory, required []string) bool {
	for _, c := range required {
		if !f.HasCertification(c) {
			return false
		}
	}
	return true
}

// busyEquipment lists required types that have an in-use entry on the factory.
func busyEquipment(f models.Factory, required []string) []string {
	var busy []string
	for _, t := range required {
		for _, e := range f.Equipment {
			if e.Type == t && e.Status == models.EquipmentInUse {
				busy = append(busy, t)
				break
			}
		}
	}
	return busy
}
