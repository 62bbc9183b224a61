// internal/workers/consultation/send-consultation-notification/models.go
package sendconsultationnotification

import (
	"factory-matching/internal/consultation"
	"factory-matching/internal/models"
)

// Notification events.
const (
	EventNewConsultation = "new_consultation"
	EventStatusChanged   = "status_changed"
)

type Input struct {
	ConsultationID string `json:"consultationId"`
	// Event defaults to new_consultation.
	Event string `json:"event,omitempty"`
	// Status is the status to announce for status_changed; defaults to the
	// stored status.
	Status models.ConsultationStatus `json:"status,omitempty"`
}

type Output struct {
	NotificationsSent   int                     `json:"notificationsSent"`
	NotificationsFailed int                     `json:"notificationsFailed"`
	Deliveries          []consultation.Delivery `json:"deliveries"`
}
