package repositories

import (
	"database/sql"
	"errors"

	"github.com/craftora/collab/internal/models"
)

type CollaborationRepository struct {
	db *sql.DB
}

func NewCollaborationRepository(db *sql.DB) *CollaborationRepository {
	return &CollaborationRepository{
		db: db,
	}
}

// Create inserts a new collaboration
func (r *CollaborationRepository) Create(collaboration *models.Collaboration) error {
	return r.create(r.db, collaboration)
}

// CreateTx inserts a new collaboration inside an open transaction, so a
// collaboration and its initial requirements commit together
func (r *CollaborationRepository) CreateTx(tx *sql.Tx, collaboration *models.Collaboration) error {
	return r.create(tx, collaboration)
}

func (r *CollaborationRepository) create(e execer, collaboration *models.Collaboration) error {
	query := `
		INSERT INTO collaborations (id, title, description, creator_id, status, version)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := e.Exec(query,
		collaboration.ID,
		collaboration.Title,
		collaboration.Description,
		collaboration.CreatorID,
		collaboration.Status,
		collaboration.Version,
	)

	return err
}

// GetByID retrieves a collaboration by ID
func (r *CollaborationRepository) GetByID(id string) (*models.Collaboration, error) {
	query := `
		SELECT id, title, description, creator_id, status, version, created_at, updated_at
		FROM collaborations
		WHERE id = $1
	`

	collaboration := &models.Collaboration{}
	err := r.db.QueryRow(query, id).Scan(
		&collaboration.ID,
		&collaboration.Title,
		&collaboration.Description,
		&collaboration.CreatorID,
		&collaboration.Status,
		&collaboration.Version,
		&collaboration.CreatedAt,
		&collaboration.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return collaboration, nil
}

// GetActive retrieves all active collaborations, newest first
func (r *CollaborationRepository) GetActive() ([]*models.Collaboration, error) {
	query := `
		SELECT id, title, description, creator_id, status, version, created_at, updated_at
		FROM collaborations
		WHERE status = $1
		ORDER BY created_at DESC
	`

	return r.queryMany(query, models.CollaborationStatusActive)
}

// GetByCreatorID retrieves all collaborations owned by a creator
func (r *CollaborationRepository) GetByCreatorID(creatorID string) ([]*models.Collaboration, error) {
	query := `
		SELECT id, title, description, creator_id, status, version, created_at, updated_at
		FROM collaborations
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`

	return r.queryMany(query, creatorID)
}

func (r *CollaborationRepository) queryMany(query string, args ...interface{}) ([]*models.Collaboration, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collaborations []*models.Collaboration
	for rows.Next() {
		collaboration := &models.Collaboration{}
		err := rows.Scan(
			&collaboration.ID,
			&collaboration.Title,
			&collaboration.Description,
			&collaboration.CreatorID,
			&collaboration.Status,
			&collaboration.Version,
			&collaboration.CreatedAt,
			&collaboration.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		collaborations = append(collaborations, collaboration)
	}

	return collaborations, rows.Err()
}

// UpdateStatus writes a new status conditional on the expected version.
// Returns models.ErrVersionConflict when a concurrent writer got there first.
func (r *CollaborationRepository) UpdateStatus(id string, status models.CollaborationStatus, expectedVersion int64) error {
	query := `
		UPDATE collaborations
		SET status = $1, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND version = $3
	`

	result, err := r.db.Exec(query, status, id, expectedVersion)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return models.ErrVersionConflict
	}

	return nil
}

// Delete removes a collaboration; requirements and applications cascade
func (r *CollaborationRepository) Delete(id string) error {
	query := `DELETE FROM collaborations WHERE id = $1`

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
