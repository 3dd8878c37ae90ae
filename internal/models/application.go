package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents the decision state of an application
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Decision is the creator's verdict on a pending application
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// Application is an applicant's request to fill one unit of a requirement's
// capacity. At most one non-rejected application may exist per
// (requirement, applicant) pair.
type Application struct {
	ID            string            `json:"id"`
	RequirementID string            `json:"requirement_id"`
	ApplicantID   string            `json:"applicant_id"`
	Message       string            `json:"message"`
	Status        ApplicationStatus `json:"status"`
	Version       int64             `json:"version"`
	AppliedAt     time.Time         `json:"applied_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewApplication creates a new pending Application with a generated UUID
func NewApplication(requirementID, applicantID, message string) *Application {
	now := time.Now()
	return &Application{
		ID:            uuid.New().String(),
		RequirementID: requirementID,
		ApplicantID:   applicantID,
		Message:       message,
		Status:        ApplicationStatusPending,
		Version:       1,
		AppliedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the Application
func (a *Application) Validate() error {
	if a.RequirementID == "" {
		return &ValidationError{Field: "requirement_id", Message: "Requirement ID is required"}
	}
	if a.ApplicantID == "" {
		return &ValidationError{Field: "applicant_id", Message: "Applicant ID is required"}
	}
	return nil
}

// IsPending checks if the application is still undecided
func (a *Application) IsPending() bool {
	return a.Status == ApplicationStatusPending
}
