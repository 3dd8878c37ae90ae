package services

import (
	"github.com/craftora/collab/internal/models"
	"github.com/craftora/collab/internal/repositories"
)

// AuthorizationService decides whether an actor may act on an entity.
// Ownership violations surface as ErrForbidden; apply-time state checks
// surface as their own distinct errors, never silently ignored.
type AuthorizationService struct {
	applicationRepo *repositories.ApplicationRepository
}

func NewAuthorizationService(applicationRepo *repositories.ApplicationRepository) *AuthorizationService {
	return &AuthorizationService{
		applicationRepo: applicationRepo,
	}
}

// CanManage reports whether the actor owns the collaboration
func (s *AuthorizationService) CanManage(actorID string, collaboration *models.Collaboration) bool {
	return actorID != "" && actorID == collaboration.CreatorID
}

// CheckManage returns ErrForbidden unless the actor owns the collaboration
func (s *AuthorizationService) CheckManage(actorID string, collaboration *models.Collaboration) error {
	if !s.CanManage(actorID, collaboration) {
		return models.ErrForbidden
	}
	return nil
}

// CheckApply validates that the actor may apply to the requirement: the
// owning collaboration is active, the requirement is open, and the actor
// holds no non-rejected application on it.
func (s *AuthorizationService) CheckApply(actorID string, collaboration *models.Collaboration, requirement *models.Requirement) error {
	if !collaboration.IsActive() {
		return models.ErrInvalidState
	}
	if !requirement.IsOpen() {
		return models.ErrRequirementClosed
	}

	active, err := s.applicationRepo.HasActive(requirement.ID, actorID)
	if err != nil {
		return err
	}
	if active {
		return models.ErrDuplicateApplication
	}

	return nil
}
