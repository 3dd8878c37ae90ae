package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/craftora/collab/internal/models"
)

type RequirementRepository struct {
	db *sql.DB
}

func NewRequirementRepository(db *sql.DB) *RequirementRepository {
	return &RequirementRepository{
		db: db,
	}
}

// Create inserts a new requirement
func (r *RequirementRepository) Create(requirement *models.Requirement) error {
	return r.create(r.db, requirement)
}

// CreateTx inserts a new requirement inside an open transaction
func (r *RequirementRepository) CreateTx(tx *sql.Tx, requirement *models.Requirement) error {
	return r.create(tx, requirement)
}

func (r *RequirementRepository) create(e execer, requirement *models.Requirement) error {
	skills, err := json.Marshal(requirement.Skills)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO requirements (id, collaboration_id, role, description, budget, timing, location, skills, quantity_needed, quantity_filled, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = e.Exec(query,
		requirement.ID,
		requirement.CollaborationID,
		requirement.Role,
		requirement.Description,
		requirement.Budget,
		requirement.Timing,
		requirement.Location,
		string(skills),
		requirement.QuantityNeeded,
		requirement.QuantityFilled,
		requirement.Status,
		requirement.Version,
	)

	return err
}

// GetByID retrieves a requirement by ID
func (r *RequirementRepository) GetByID(id string) (*models.Requirement, error) {
	query := `
		SELECT id, collaboration_id, role, description, budget, timing, location, skills, quantity_needed, quantity_filled, status, version, created_at, updated_at
		FROM requirements
		WHERE id = $1
	`

	requirement, err := scanRequirement(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return requirement, nil
}

// GetByCollaborationID retrieves all requirements under a collaboration
func (r *RequirementRepository) GetByCollaborationID(collaborationID string) ([]*models.Requirement, error) {
	query := `
		SELECT id, collaboration_id, role, description, budget, timing, location, skills, quantity_needed, quantity_filled, status, version, created_at, updated_at
		FROM requirements
		WHERE collaboration_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, collaborationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requirements []*models.Requirement
	for rows.Next() {
		requirement, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		requirements = append(requirements, requirement)
	}

	return requirements, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRequirement(s scanner) (*models.Requirement, error) {
	requirement := &models.Requirement{}
	var skills string

	err := s.Scan(
		&requirement.ID,
		&requirement.CollaborationID,
		&requirement.Role,
		&requirement.Description,
		&requirement.Budget,
		&requirement.Timing,
		&requirement.Location,
		&skills,
		&requirement.QuantityNeeded,
		&requirement.QuantityFilled,
		&requirement.Status,
		&requirement.Version,
		&requirement.CreatedAt,
		&requirement.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(skills), &requirement.Skills); err != nil {
		return nil, err
	}

	return requirement, nil
}

// Update writes all editable fields conditional on the expected version.
// On success the requirement's version is bumped in place.
func (r *RequirementRepository) Update(requirement *models.Requirement, expectedVersion int64) error {
	return r.update(r.db, requirement, expectedVersion)
}

// UpdateTx is Update inside an open transaction. The fulfillment engine uses
// it to commit the quantity_filled increment and the application status flip
// atomically.
func (r *RequirementRepository) UpdateTx(tx *sql.Tx, requirement *models.Requirement, expectedVersion int64) error {
	return r.update(tx, requirement, expectedVersion)
}

func (r *RequirementRepository) update(e execer, requirement *models.Requirement, expectedVersion int64) error {
	skills, err := json.Marshal(requirement.Skills)
	if err != nil {
		return err
	}

	query := `
		UPDATE requirements
		SET role = $1, description = $2, budget = $3, timing = $4, location = $5, skills = $6,
		    quantity_needed = $7, quantity_filled = $8, status = $9,
		    version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $10 AND version = $11
	`

	result, err := e.Exec(query,
		requirement.Role,
		requirement.Description,
		requirement.Budget,
		requirement.Timing,
		requirement.Location,
		string(skills),
		requirement.QuantityNeeded,
		requirement.QuantityFilled,
		requirement.Status,
		requirement.ID,
		expectedVersion,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return models.ErrVersionConflict
	}

	requirement.Version = expectedVersion + 1
	return nil
}

// Delete removes a requirement; its applications cascade
func (r *RequirementRepository) Delete(id string) error {
	query := `DELETE FROM requirements WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}
