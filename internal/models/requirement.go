package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequirementStatus represents whether a requirement still accepts applicants
type RequirementStatus string

const (
	RequirementStatusOpen   RequirementStatus = "open"
	RequirementStatusClosed RequirementStatus = "closed"
)

// Requirement is a role slot within a collaboration with a target headcount.
// QuantityFilled always equals the number of accepted applications; the
// status is closed exactly when the slot count is reached.
type Requirement struct {
	ID              string            `json:"id"`
	CollaborationID string            `json:"collaboration_id"`
	Role            string            `json:"role"`
	Description     string            `json:"description"`
	Budget          string            `json:"budget"`
	Timing          string            `json:"timing"`
	Location        string            `json:"location"`
	Skills          []string          `json:"skills"`
	QuantityNeeded  int               `json:"quantity_needed"`
	QuantityFilled  int               `json:"quantity_filled"`
	Status          RequirementStatus `json:"status"`
	Version         int64             `json:"version"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// RequirementSpec carries the creator-editable fields of a requirement
type RequirementSpec struct {
	Role           string   `json:"role"`
	Description    string   `json:"description"`
	Budget         string   `json:"budget"`
	Timing         string   `json:"timing"`
	Location       string   `json:"location"`
	Skills         []string `json:"skills"`
	QuantityNeeded int      `json:"quantity_needed"`
}

// Validate validates the RequirementSpec
func (s *RequirementSpec) Validate() error {
	if strings.TrimSpace(s.Role) == "" {
		return &ValidationError{Field: "role", Message: "Role is required"}
	}
	if s.QuantityNeeded < 1 {
		return &ValidationError{Field: "quantity_needed", Message: "Quantity needed must be at least 1"}
	}
	return nil
}

// NewRequirement creates a new open Requirement from a spec
func NewRequirement(collaborationID string, spec RequirementSpec) *Requirement {
	now := time.Now()
	skills := spec.Skills
	if skills == nil {
		skills = []string{}
	}
	return &Requirement{
		ID:              uuid.New().String(),
		CollaborationID: collaborationID,
		Role:            strings.TrimSpace(spec.Role),
		Description:     spec.Description,
		Budget:          spec.Budget,
		Timing:          spec.Timing,
		Location:        spec.Location,
		Skills:          skills,
		QuantityNeeded:  spec.QuantityNeeded,
		QuantityFilled:  0,
		Status:          RequirementStatusOpen,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsOpen checks whether the requirement still accepts applications
func (r *Requirement) IsOpen() bool {
	return r.Status == RequirementStatusOpen
}

// IsFull checks whether capacity is exhausted
func (r *Requirement) IsFull() bool {
	return r.QuantityFilled >= r.QuantityNeeded
}

// StatusFor returns the status implied by a fill count against a target:
// closed iff filled >= needed
func StatusFor(filled, needed int) RequirementStatus {
	if filled >= needed {
		return RequirementStatusClosed
	}
	return RequirementStatusOpen
}
