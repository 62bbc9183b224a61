package models

import "time"

// ConsultationStatus tracks a lead through the sales pipeline.
type ConsultationStatus string

const (
	ConsultationPending      ConsultationStatus = "pending"
	ConsultationContacted    ConsultationStatus = "contacted"
	ConsultationInProgress   ConsultationStatus = "in_progress"
	ConsultationProposalSent ConsultationStatus = "proposal_sent"
	ConsultationContracted   ConsultationStatus = "contracted"
	ConsultationCompleted    ConsultationStatus = "completed"
	ConsultationCancelled    ConsultationStatus = "cancelled"
)

// ProjectType values accepted on intake.
var ProjectTypes = []string{
	"rmr_development",
	"recipe_digitization",
	"factory_matching",
	"brand_consulting",
	"menu_optimization",
	"other",
}

const DefaultProjectType = "rmr_development"

// Applicant is the person who submitted a consultation request.
type Applicant struct {
	Name     string `json:"name" dynamodbav:"name"`
	Company  string `json:"company,omitempty" dynamodbav:"company,omitempty"`
	Phone    string `json:"phone" dynamodbav:"phone"`
	Email    string `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Position string `json:"position,omitempty" dynamodbav:"position,omitempty"`
}

// ConsultationNote is an internal follow-up note.
type ConsultationNote struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Content   string    `json:"content" dynamodbav:"content"`
	CreatedBy string    `json:"createdBy" dynamodbav:"createdBy"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

// Consultation is a lead captured by the intake form.
type Consultation struct {
	ID                   string             `json:"id" dynamodbav:"id"`
	Applicant            Applicant          `json:"applicant" dynamodbav:"applicant"`
	ProjectType          string             `json:"projectType" dynamodbav:"projectType"`
	Description          string             `json:"description" dynamodbav:"description"`
	Budget               string             `json:"budget,omitempty" dynamodbav:"budget,omitempty"`
	Timeline             string             `json:"timeline,omitempty" dynamodbav:"timeline,omitempty"`
	ReferralSource       string             `json:"referralSource,omitempty" dynamodbav:"referralSource,omitempty"`
	PreferredContactTime string             `json:"preferredContactTime,omitempty" dynamodbav:"preferredContactTime,omitempty"`
	Status               ConsultationStatus `json:"status" dynamodbav:"status"`
	AssignedTo           string             `json:"assignedTo,omitempty" dynamodbav:"assignedTo,omitempty"`
	Notes                []ConsultationNote `json:"notes" dynamodbav:"notes"`
	CreatedAt            time.Time          `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" dynamodbav:"updatedAt"`
}

// ConsultationRequest is the intake form payload.
type ConsultationRequest struct {
	Name                 string `json:"name"`
	Company              string `json:"company,omitempty"`
	Phone                string `json:"phone"`
	Email                string `json:"email,omitempty"`
	Position             string `json:"position,omitempty"`
	ProjectType          string `json:"projectType,omitempty"`
	Description          string `json:"description,omitempty"`
	Budget               string `json:"budget,omitempty"`
	Timeline             string `json:"timeline,omitempty"`
	ReferralSource       string `json:"referralSource,omitempty"`
	PreferredContactTime string `json:"preferredContactTime,omitempty"`
}

// ConsultationUpdate carries the mutable fields of a consultation. Nil fields are left untouched.
type ConsultationUpdate struct {
	Status      *ConsultationStatus `json:"status,omitempty"`
	AssignedTo  *string             `json:"assignedTo,omitempty"`
	Description *string             `json:"description,omitempty"`
	Budget      *string             `json:"budget,omitempty"`
	Timeline    *string             `json:"timeline,omitempty"`
	AddNote     string              `json:"addNote,omitempty"`
	CreatedBy   string              `json:"createdBy,omitempty"`
}

// ConsultationFilter narrows a consultation listing.
type ConsultationFilter struct {
	Status      ConsultationStatus
	ProjectType string
	Page        int
	Limit       int
}

// PageMeta describes a paginated listing.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// ConsultationPage is one page of consultations.
type ConsultationPage struct {
	Items []Consultation `json:"items"`
	Meta  PageMeta       `json:"meta"`
}
