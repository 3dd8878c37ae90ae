package services

import (
	"database/sql"
	"fmt"

	"github.com/craftora/collab/internal/models"
	"github.com/craftora/collab/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// CollaborationView is a collaboration with its requirements
type CollaborationView struct {
	*models.Collaboration
	Requirements []*models.Requirement `json:"requirements"`
}

// RequirementDetail is a requirement with its applications; only the
// collaboration's creator sees these
type RequirementDetail struct {
	*models.Requirement
	Applications []*models.Application `json:"applications"`
}

// CollaborationDetail is the owner-facing view of a collaboration
type CollaborationDetail struct {
	*models.Collaboration
	Requirements []*RequirementDetail `json:"requirements"`
}

// CreateCollaborationInput carries the creation payload; at least one
// requirement is mandatory
type CreateCollaborationInput struct {
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	Requirements []models.RequirementSpec `json:"requirements"`
}

// CollaborationService is the workflow façade over the store and the
// fulfillment engine. Every mutating call re-reads and returns the
// post-mutation snapshot.
type CollaborationService struct {
	db                *sql.DB
	collaborationRepo *repositories.CollaborationRepository
	requirementRepo   *repositories.RequirementRepository
	applicationRepo   *repositories.ApplicationRepository
	authService       *AuthorizationService
}

func NewCollaborationService(
	db *sql.DB,
	collaborationRepo *repositories.CollaborationRepository,
	requirementRepo *repositories.RequirementRepository,
	applicationRepo *repositories.ApplicationRepository,
	authService *AuthorizationService,
) *CollaborationService {
	return &CollaborationService{
		db:                db,
		collaborationRepo: collaborationRepo,
		requirementRepo:   requirementRepo,
		applicationRepo:   applicationRepo,
		authService:       authService,
	}
}

// Create creates a collaboration and its initial requirements in one
// transaction
func (s *CollaborationService) Create(actorID string, input CreateCollaborationInput) (*CollaborationView, error) {
	collaboration := models.NewCollaboration(input.Title, input.Description, actorID)
	if err := collaboration.Validate(); err != nil {
		return nil, err
	}
	if len(input.Requirements) == 0 {
		return nil, &models.ValidationError{Field: "requirements", Message: "At least one requirement is required"}
	}

	requirements := make([]*models.Requirement, 0, len(input.Requirements))
	for _, spec := range input.Requirements {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		requirements = append(requirements, models.NewRequirement(collaboration.ID, spec))
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.collaborationRepo.CreateTx(tx, collaboration); err != nil {
		return nil, err
	}
	for _, requirement := range requirements {
		if err := s.requirementRepo.CreateTx(tx, requirement); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &CollaborationView{Collaboration: collaboration, Requirements: requirements}, nil
}

// ListActive lists all active collaborations with their requirements
func (s *CollaborationService) ListActive() ([]*CollaborationView, error) {
	collaborations, err := s.collaborationRepo.GetActive()
	if err != nil {
		return nil, err
	}
	return s.withRequirements(collaborations)
}

// ListByCreator lists collaborations owned by the actor
func (s *CollaborationService) ListByCreator(actorID string) ([]*CollaborationView, error) {
	collaborations, err := s.collaborationRepo.GetByCreatorID(actorID)
	if err != nil {
		return nil, err
	}
	return s.withRequirements(collaborations)
}

func (s *CollaborationService) withRequirements(collaborations []*models.Collaboration) ([]*CollaborationView, error) {
	views := make([]*CollaborationView, 0, len(collaborations))
	for _, collaboration := range collaborations {
		requirements, err := s.requirementRepo.GetByCollaborationID(collaboration.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, &CollaborationView{Collaboration: collaboration, Requirements: requirements})
	}
	return views, nil
}

// Get returns a collaboration with its requirements. When the actor is the
// creator, each requirement also carries its applications.
func (s *CollaborationService) Get(id, actorID string) (*CollaborationDetail, error) {
	collaboration, err := s.collaborationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	requirements, err := s.requirementRepo.GetByCollaborationID(id)
	if err != nil {
		return nil, err
	}

	owner := s.authService.CanManage(actorID, collaboration)

	detail := &CollaborationDetail{Collaboration: collaboration}
	for _, requirement := range requirements {
		entry := &RequirementDetail{Requirement: requirement}
		if owner {
			applications, err := s.applicationRepo.GetByRequirementID(requirement.ID)
			if err != nil {
				return nil, err
			}
			entry.Applications = applications
		}
		detail.Requirements = append(detail.Requirements, entry)
	}

	return detail, nil
}

// UpdateStatus moves an active collaboration to completed or cancelled.
// The transition never alters application statuses.
func (s *CollaborationService) UpdateStatus(id string, status models.CollaborationStatus, actorID string) (*models.Collaboration, error) {
	if status != models.CollaborationStatusCompleted && status != models.CollaborationStatusCancelled {
		return nil, &models.ValidationError{Field: "status", Message: "Status must be completed or cancelled"}
	}

	collaboration, err := s.collaborationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authService.CheckManage(actorID, collaboration); err != nil {
		return nil, err
	}
	if !collaboration.IsActive() {
		return nil, models.ErrInvalidState
	}

	if err := s.collaborationRepo.UpdateStatus(id, status, collaboration.Version); err != nil {
		return nil, err
	}

	return s.collaborationRepo.GetByID(id)
}

// Delete removes a collaboration with no accepted applications anywhere
// under it
func (s *CollaborationService) Delete(id, actorID string) error {
	collaboration, err := s.collaborationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.authService.CheckManage(actorID, collaboration); err != nil {
		return err
	}

	accepted, err := s.applicationRepo.CountAcceptedByCollaboration(id)
	if err != nil {
		return err
	}
	if accepted > 0 {
		return fmt.Errorf("collaboration has accepted applications: %w", models.ErrConflict)
	}

	return s.collaborationRepo.Delete(id)
}

// ListApplicationsByApplicant returns the actor's own applications; anyone
// else's are off limits
func (s *CollaborationService) ListApplicationsByApplicant(applicantID, actorID string) ([]*models.Application, error) {
	if applicantID != actorID {
		return nil, models.ErrForbidden
	}
	return s.applicationRepo.GetByApplicantID(applicantID)
}

// ExportApplications builds an xlsx workbook of every application under the
// collaboration, one row per application, for the creator
func (s *CollaborationService) ExportApplications(id, actorID string) (*excelize.File, error) {
	collaboration, err := s.collaborationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authService.CheckManage(actorID, collaboration); err != nil {
		return nil, err
	}

	requirements, err := s.requirementRepo.GetByCollaborationID(id)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Applications"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Role", "Applicant", "Status", "Message", "Applied At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	row := 2
	for _, requirement := range requirements {
		applications, err := s.applicationRepo.GetByRequirementID(requirement.ID)
		if err != nil {
			return nil, err
		}
		for _, application := range applications {
			values := []interface{}{
				requirement.Role,
				application.ApplicantID,
				string(application.Status),
				application.Message,
				application.AppliedAt.Format("2006-01-02 15:04:05"),
			}
			for i, value := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, value)
			}
			row++
		}
	}

	return f, nil
}
