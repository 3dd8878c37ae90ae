package repositories

import (
	"database/sql"
	"errors"

	"github.com/craftora/collab/internal/models"
	"github.com/mattn/go-sqlite3"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
	}
}

// Create inserts a new application. A racing duplicate apply trips the
// partial unique index on (requirement_id, applicant_id) and surfaces as
// models.ErrDuplicateApplication.
func (r *ApplicationRepository) Create(application *models.Application) error {
	query := `
		INSERT INTO applications (id, requirement_id, applicant_id, message, status, version)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(query,
		application.ID,
		application.RequirementID,
		application.ApplicantID,
		application.Message,
		application.Status,
		application.Version,
	)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return models.ErrDuplicateApplication
	}

	return err
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(id string) (*models.Application, error) {
	query := `
		SELECT id, requirement_id, applicant_id, message, status, version, applied_at, updated_at
		FROM applications
		WHERE id = $1
	`

	application := &models.Application{}
	err := r.db.QueryRow(query, id).Scan(
		&application.ID,
		&application.RequirementID,
		&application.ApplicantID,
		&application.Message,
		&application.Status,
		&application.Version,
		&application.AppliedAt,
		&application.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return application, nil
}

// GetByRequirementID retrieves all applications under a requirement
func (r *ApplicationRepository) GetByRequirementID(requirementID string) ([]*models.Application, error) {
	query := `
		SELECT id, requirement_id, applicant_id, message, status, version, applied_at, updated_at
		FROM applications
		WHERE requirement_id = $1
		ORDER BY applied_at ASC
	`

	return r.queryMany(query, requirementID)
}

// GetByApplicantID retrieves all applications submitted by an applicant
func (r *ApplicationRepository) GetByApplicantID(applicantID string) ([]*models.Application, error) {
	query := `
		SELECT id, requirement_id, applicant_id, message, status, version, applied_at, updated_at
		FROM applications
		WHERE applicant_id = $1
		ORDER BY applied_at DESC
	`

	return r.queryMany(query, applicantID)
}

func (r *ApplicationRepository) queryMany(query string, args ...interface{}) ([]*models.Application, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []*models.Application
	for rows.Next() {
		application := &models.Application{}
		err := rows.Scan(
			&application.ID,
			&application.RequirementID,
			&application.ApplicantID,
			&application.Message,
			&application.Status,
			&application.Version,
			&application.AppliedAt,
			&application.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		applications = append(applications, application)
	}

	return applications, rows.Err()
}

// HasActive reports whether the applicant holds a non-rejected application
// on the requirement
func (r *ApplicationRepository) HasActive(requirementID, applicantID string) (bool, error) {
	query := `
		SELECT COUNT(1)
		FROM applications
		WHERE requirement_id = $1 AND applicant_id = $2 AND status != $3
	`

	var count int
	err := r.db.QueryRow(query, requirementID, applicantID, models.ApplicationStatusRejected).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// CountAccepted counts accepted applications under a requirement
func (r *ApplicationRepository) CountAccepted(requirementID string) (int, error) {
	query := `
		SELECT COUNT(1)
		FROM applications
		WHERE requirement_id = $1 AND status = $2
	`

	var count int
	err := r.db.QueryRow(query, requirementID, models.ApplicationStatusAccepted).Scan(&count)
	return count, err
}

// CountAcceptedByCollaboration counts accepted applications across all
// requirements of a collaboration
func (r *ApplicationRepository) CountAcceptedByCollaboration(collaborationID string) (int, error) {
	query := `
		SELECT COUNT(1)
		FROM applications a
		JOIN requirements req ON req.id = a.requirement_id
		WHERE req.collaboration_id = $1 AND a.status = $2
	`

	var count int
	err := r.db.QueryRow(query, collaborationID, models.ApplicationStatusAccepted).Scan(&count)
	return count, err
}

// DecideIfPending flips a pending application to the given terminal status.
// Returns false when the application was no longer pending, which is how
// duplicate creator submits stay idempotent.
func (r *ApplicationRepository) DecideIfPending(id string, status models.ApplicationStatus) (bool, error) {
	return r.decideIfPending(r.db, id, status)
}

// DecideIfPendingTx is DecideIfPending inside an open transaction
func (r *ApplicationRepository) DecideIfPendingTx(tx *sql.Tx, id string, status models.ApplicationStatus) (bool, error) {
	return r.decideIfPending(tx, id, status)
}

func (r *ApplicationRepository) decideIfPending(e execer, id string, status models.ApplicationStatus) (bool, error) {
	query := `
		UPDATE applications
		SET status = $1, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = $3
	`

	result, err := e.Exec(query, status, id, models.ApplicationStatusPending)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
