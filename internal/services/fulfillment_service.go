package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/craftora/collab/internal/models"
	"github.com/craftora/collab/internal/repositories"
	"github.com/craftora/collab/pkg/logger"
	"github.com/sirupsen/logrus"
)

// maxDecideAttempts bounds the optimistic retry loop inside an accept.
// Once exhausted the caller sees ErrContention and may retry at its level.
const maxDecideAttempts = 4

// FulfillmentService is the capacity-tracking state machine for requirements.
// Accept is the only operation that mutates quantity_filled; it commits the
// application flip and the requirement increment in one transaction, with the
// requirement write conditional on the version read. A losing concurrent
// writer re-reads and rechecks capacity, which may now fail with
// ErrRequirementFull.
type FulfillmentService struct {
	db                *sql.DB
	collaborationRepo *repositories.CollaborationRepository
	requirementRepo   *repositories.RequirementRepository
	applicationRepo   *repositories.ApplicationRepository
	authService       *AuthorizationService
}

func NewFulfillmentService(
	db *sql.DB,
	collaborationRepo *repositories.CollaborationRepository,
	requirementRepo *repositories.RequirementRepository,
	applicationRepo *repositories.ApplicationRepository,
	authService *AuthorizationService,
) *FulfillmentService {
	return &FulfillmentService{
		db:                db,
		collaborationRepo: collaborationRepo,
		requirementRepo:   requirementRepo,
		applicationRepo:   applicationRepo,
		authService:       authService,
	}
}

// Apply creates a pending application for the actor on an open requirement
func (s *FulfillmentService) Apply(requirementID, applicantID, message string) (*models.Application, error) {
	if applicantID == "" {
		return nil, errors.New("applicant ID is required")
	}

	requirement, err := s.requirementRepo.GetByID(requirementID)
	if err != nil {
		return nil, err
	}

	collaboration, err := s.collaborationRepo.GetByID(requirement.CollaborationID)
	if err != nil {
		return nil, err
	}

	if err := s.authService.CheckApply(applicantID, collaboration, requirement); err != nil {
		return nil, err
	}

	application := models.NewApplication(requirementID, applicantID, message)
	if err := application.Validate(); err != nil {
		return nil, err
	}

	// The partial unique index catches an apply that raced past CheckApply
	if err := s.applicationRepo.Create(application); err != nil {
		return nil, err
	}

	return application, nil
}

// Decide accepts or rejects a pending application on behalf of the
// collaboration's creator and returns the post-mutation application and
// requirement snapshots.
func (s *FulfillmentService) Decide(requirementID, applicationID string, decision models.Decision, actorID string) (*models.Application, *models.Requirement, error) {
	requirement, err := s.requirementRepo.GetByID(requirementID)
	if err != nil {
		return nil, nil, err
	}

	collaboration, err := s.collaborationRepo.GetByID(requirement.CollaborationID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.authService.CheckManage(actorID, collaboration); err != nil {
		return nil, nil, err
	}

	application, err := s.applicationRepo.GetByID(applicationID)
	if err != nil {
		return nil, nil, err
	}
	if application.RequirementID != requirementID {
		return nil, nil, models.ErrNotFound
	}

	switch decision {
	case models.DecisionReject:
		return s.reject(application, requirement)
	case models.DecisionAccept:
		return s.accept(application, requirement)
	default:
		return nil, nil, fmt.Errorf("unknown decision %q", decision)
	}
}

// reject flips the application to rejected. It never touches quantity_filled
// and stays valid even after the requirement closed.
func (s *FulfillmentService) reject(application *models.Application, requirement *models.Requirement) (*models.Application, *models.Requirement, error) {
	changed, err := s.applicationRepo.DecideIfPending(application.ID, models.ApplicationStatusRejected)
	if err != nil {
		return nil, nil, err
	}

	if !changed {
		current, err := s.applicationRepo.GetByID(application.ID)
		if err != nil {
			return nil, nil, err
		}
		if current.Status == models.ApplicationStatusRejected {
			// duplicate submit, already rejected
			return current, requirement, nil
		}
		return nil, nil, fmt.Errorf("application already decided: %w", models.ErrConflict)
	}

	current, err := s.applicationRepo.GetByID(application.ID)
	if err != nil {
		return nil, nil, err
	}

	return current, requirement, nil
}

// accept re-validates capacity at commit time and commits the application
// flip together with the quantity_filled increment. Retries on version
// conflicts up to maxDecideAttempts, then fails with ErrContention.
func (s *FulfillmentService) accept(application *models.Application, requirement *models.Requirement) (*models.Application, *models.Requirement, error) {
	for attempt := 1; attempt <= maxDecideAttempts; attempt++ {
		if attempt > 1 {
			fresh, err := s.requirementRepo.GetByID(requirement.ID)
			if err != nil {
				return nil, nil, err
			}
			requirement = fresh

			current, err := s.applicationRepo.GetByID(application.ID)
			if err != nil {
				return nil, nil, err
			}
			application = current
		}

		if application.Status == models.ApplicationStatusAccepted {
			// duplicate submit, already accepted; no second increment
			return application, requirement, nil
		}
		if application.Status != models.ApplicationStatusPending {
			return nil, nil, fmt.Errorf("application already decided: %w", models.ErrConflict)
		}

		// Capacity check against the freshly read requirement. A concurrent
		// accept may have consumed the last slot since the caller clicked.
		if requirement.IsFull() {
			return nil, nil, models.ErrRequirementFull
		}

		accepted, updated, err := s.commitAccept(application, requirement)
		if errors.Is(err, models.ErrVersionConflict) {
			logger.WithFields(logrus.Fields{
				"requirement_id": requirement.ID,
				"application_id": application.ID,
				"attempt":        attempt,
			}).Info("accept lost version race, retrying")
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		return accepted, updated, nil
	}

	logger.WithFields(logrus.Fields{
		"requirement_id": requirement.ID,
		"application_id": application.ID,
	}).Warnf("accept retry budget exhausted after %d attempts", maxDecideAttempts)

	return nil, nil, models.ErrContention
}

func (s *FulfillmentService) commitAccept(application *models.Application, requirement *models.Requirement) (*models.Application, *models.Requirement, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	changed, err := s.applicationRepo.DecideIfPendingTx(tx, application.ID, models.ApplicationStatusAccepted)
	if err != nil {
		return nil, nil, err
	}
	if !changed {
		return nil, nil, fmt.Errorf("application already decided: %w", models.ErrConflict)
	}

	updated := *requirement
	updated.QuantityFilled = requirement.QuantityFilled + 1
	updated.Status = models.StatusFor(updated.QuantityFilled, updated.QuantityNeeded)

	if err := s.requirementRepo.UpdateTx(tx, &updated, requirement.Version); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	accepted, err := s.applicationRepo.GetByID(application.ID)
	if err != nil {
		return nil, nil, err
	}

	return accepted, &updated, nil
}

// AddRequirement attaches a new requirement to an active collaboration
func (s *FulfillmentService) AddRequirement(collaborationID string, spec models.RequirementSpec, actorID string) (*models.Requirement, error) {
	collaboration, err := s.collaborationRepo.GetByID(collaborationID)
	if err != nil {
		return nil, err
	}

	if err := s.authService.CheckManage(actorID, collaboration); err != nil {
		return nil, err
	}
	if !collaboration.IsActive() {
		return nil, models.ErrInvalidState
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	requirement := models.NewRequirement(collaborationID, spec)
	if err := s.requirementRepo.Create(requirement); err != nil {
		return nil, err
	}

	return requirement, nil
}

// EditRequirement rewrites the creator-editable fields. Shrinking
// quantity_needed below the already-accepted count is rejected; raising it on
// a closed requirement reopens it, which is the one explicit path back to
// open.
func (s *FulfillmentService) EditRequirement(requirementID string, spec models.RequirementSpec, actorID string) (*models.Requirement, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxDecideAttempts; attempt++ {
		requirement, err := s.requirementRepo.GetByID(requirementID)
		if err != nil {
			return nil, err
		}

		collaboration, err := s.collaborationRepo.GetByID(requirement.CollaborationID)
		if err != nil {
			return nil, err
		}
		if err := s.authService.CheckManage(actorID, collaboration); err != nil {
			return nil, err
		}

		if spec.QuantityNeeded < requirement.QuantityFilled {
			return nil, models.ErrInvalidState
		}

		updated := *requirement
		updated.Role = spec.Role
		updated.Description = spec.Description
		updated.Budget = spec.Budget
		updated.Timing = spec.Timing
		updated.Location = spec.Location
		updated.Skills = spec.Skills
		if updated.Skills == nil {
			updated.Skills = []string{}
		}
		updated.QuantityNeeded = spec.QuantityNeeded
		updated.Status = models.StatusFor(updated.QuantityFilled, updated.QuantityNeeded)

		err = s.requirementRepo.Update(&updated, requirement.Version)
		if errors.Is(err, models.ErrVersionConflict) {
			// a concurrent accept moved the fill count; recheck the shrink
			continue
		}
		if err != nil {
			return nil, err
		}

		return &updated, nil
	}

	return nil, models.ErrContention
}

// DeleteRequirement removes a requirement that has no accepted applications
func (s *FulfillmentService) DeleteRequirement(requirementID, actorID string) error {
	requirement, err := s.requirementRepo.GetByID(requirementID)
	if err != nil {
		return err
	}

	collaboration, err := s.collaborationRepo.GetByID(requirement.CollaborationID)
	if err != nil {
		return err
	}
	if err := s.authService.CheckManage(actorID, collaboration); err != nil {
		return err
	}

	accepted, err := s.applicationRepo.CountAccepted(requirementID)
	if err != nil {
		return err
	}
	if accepted > 0 {
		return fmt.Errorf("requirement has accepted applications: %w", models.ErrConflict)
	}

	return s.requirementRepo.Delete(requirementID)
}
