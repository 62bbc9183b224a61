package models

// EquipmentStatus reports whether a piece of equipment can take new work.
type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentInUse       EquipmentStatus = "in-use"
	EquipmentMaintenance EquipmentStatus = "maintenance"
)

// Factory status values. An empty status is treated as active.
const (
	FactoryStatusActive   = "active"
	FactoryStatusInactive = "inactive"
)

// Equipment is one production asset of a factory.
type Equipment struct {
	Type     string          `json:"type" dynamodbav:"type" yaml:"type"`
	Capacity string          `json:"capacity" dynamodbav:"capacity" yaml:"capacity"`
	Status   EquipmentStatus `json:"status" dynamodbav:"status" yaml:"status"`
}

// Available reports whether the equipment can be booked.
func (e Equipment) Available() bool {
	return e.Status == EquipmentAvailable
}

// Contact is the person to reach at a factory.
type Contact struct {
	Name  string `json:"name" dynamodbav:"name" yaml:"name"`
	Phone string `json:"phone" dynamodbav:"phone" yaml:"phone"`
	Email string `json:"email,omitempty" dynamodbav:"email,omitempty" yaml:"email,omitempty"`
}

// Factory is a partner manufacturing facility in the catalogue.
type Factory struct {
	ID                 string      `json:"id" dynamodbav:"id" yaml:"id"`
	Name               string      `json:"name" dynamodbav:"name" yaml:"name"`
	Region             string      `json:"region" dynamodbav:"region" yaml:"region"`
	City               string      `json:"city" dynamodbav:"city" yaml:"city"`
	Certifications     []string    `json:"certifications" dynamodbav:"certifications" yaml:"certifications"`
	Equipment          []Equipment `json:"equipment" dynamodbav:"equipment" yaml:"equipment"`
	Specialties        []string    `json:"specialties" dynamodbav:"specialties" yaml:"specialties"`
	MOQ                int         `json:"moq" dynamodbav:"moq" yaml:"moq"`
	LeadTime           int         `json:"leadTime" dynamodbav:"leadTime" yaml:"leadTime"`
	BaseCostPerUnit    float64     `json:"baseCostPerUnit" dynamodbav:"baseCostPerUnit" yaml:"baseCostPerUnit"`
	Rating             float64     `json:"rating" dynamodbav:"rating" yaml:"rating"`
	SuccessfulProjects int         `json:"successfulProjects" dynamodbav:"successfulProjects" yaml:"successfulProjects"`
	Contact            Contact     `json:"contact" dynamodbav:"contact" yaml:"contact"`
	Status             string      `json:"status,omitempty" dynamodbav:"status,omitempty" yaml:"status,omitempty"`
}

// IsActive reports whether the factory should be offered to requesters.
func (f Factory) IsActive() bool {
	return f.Status != FactoryStatusInactive
}

// HasCertification reports an exact, case-sensitive match.
func (f Factory) HasCertification(cert string) bool {
	for _, c := range f.Certifications {
		if c == cert {
			return true
		}
	}
	return false
}

// HasAvailableEquipment reports whether at least one entry of the given type is available.
func (f Factory) HasAvailableEquipment(equipmentType string) bool {
	for _, e := range f.Equipment {
		if e.Type == equipmentType && e.Available() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate shared catalogue state.
func (f Factory) Clone() Factory {
	out := f
	out.Certifications = append([]string(nil), f.Certifications...)
	out.Specialties = append([]string(nil), f.Specialties...)
	out.Equipment = append([]Equipment(nil), f.Equipment...)
	return out
}
