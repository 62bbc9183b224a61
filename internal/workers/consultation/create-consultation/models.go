// internal/workers/consultation/create-consultation/models.go
package createconsultation

import "factory-matching/internal/models"

// Input is the intake form carried in the process variables.
type Input struct {
	models.ConsultationRequest
}

type Output struct {
	ConsultationID     string                    `json:"consultationId"`
	ConsultationStatus models.ConsultationStatus `json:"consultationStatus"`
	ProjectType        string                    `json:"projectType"`
	ApplicantPhone     string                    `json:"applicantPhone"`
	CreatedAt          string                    `json:"createdAt"` // ISO 8601
}
