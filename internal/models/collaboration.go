package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CollaborationStatus represents the lifecycle state of a collaboration
type CollaborationStatus string

const (
	CollaborationStatusActive    CollaborationStatus = "active"
	CollaborationStatusCompleted CollaborationStatus = "completed"
	CollaborationStatusCancelled CollaborationStatus = "cancelled"
)

// Collaboration is a creator-owned project container holding requirements
type Collaboration struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	CreatorID   string              `json:"creator_id"`
	Status      CollaborationStatus `json:"status"`
	Version     int64               `json:"version"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewCollaboration creates a new Collaboration with a generated UUID
func NewCollaboration(title, description, creatorID string) *Collaboration {
	now := time.Now()
	return &Collaboration{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(title),
		Description: description,
		CreatorID:   creatorID,
		Status:      CollaborationStatusActive,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate validates the Collaboration
func (c *Collaboration) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if c.CreatorID == "" {
		return &ValidationError{Field: "creator_id", Message: "Creator ID is required"}
	}
	return nil
}

// IsActive checks whether the collaboration still accepts changes
func (c *Collaboration) IsActive() bool {
	return c.Status == CollaborationStatusActive
}
