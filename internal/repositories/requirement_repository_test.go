package repositories

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/craftora/collab/internal/models"
	"github.com/craftora/collab/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func seedRequirement(t *testing.T, db *sql.DB, quantityNeeded int) *models.Requirement {
	t.Helper()

	collaborationRepo := NewCollaborationRepository(db)
	requirementRepo := NewRequirementRepository(db)

	collaboration := models.NewCollaboration("Shoot", "", "creator")
	require.NoError(t, collaborationRepo.Create(collaboration))

	requirement := models.NewRequirement(collaboration.ID, models.RequirementSpec{
		Role:           "Photographer",
		QuantityNeeded: quantityNeeded,
		Skills:         []string{"studio"},
	})
	require.NoError(t, requirementRepo.Create(requirement))

	return requirement
}

func TestRequirementRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewRequirementRepository(db)
	requirement := seedRequirement(t, db, 2)

	stored, err := repo.GetByID(requirement.ID)
	require.NoError(t, err)

	assert.Equal(t, requirement.ID, stored.ID)
	assert.Equal(t, "Photographer", stored.Role)
	assert.Equal(t, []string{"studio"}, stored.Skills)
	assert.Equal(t, 2, stored.QuantityNeeded)
	assert.Equal(t, 0, stored.QuantityFilled)
	assert.Equal(t, models.RequirementStatusOpen, stored.Status)
	assert.Equal(t, int64(1), stored.Version)
}

func TestRequirementUpdateVersioned(t *testing.T) {
	t.Run("matching version wins and bumps", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewRequirementRepository(db)
		requirement := seedRequirement(t, db, 2)

		requirement.QuantityFilled = 1
		err := repo.Update(requirement, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), requirement.Version)

		stored, err := repo.GetByID(requirement.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.QuantityFilled)
		assert.Equal(t, int64(2), stored.Version)
	})

	t.Run("stale version loses", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewRequirementRepository(db)
		requirement := seedRequirement(t, db, 2)

		first := *requirement
		first.QuantityFilled = 1
		require.NoError(t, repo.Update(&first, 1))

		// a writer still holding version 1 must be turned away
		stale := *requirement
		stale.QuantityFilled = 1
		err := repo.Update(&stale, 1)
		assert.ErrorIs(t, err, models.ErrVersionConflict)

		stored, err := repo.GetByID(requirement.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.QuantityFilled)
	})
}

func TestApplicationUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	applicationRepo := NewApplicationRepository(db)
	requirement := seedRequirement(t, db, 2)

	first := models.NewApplication(requirement.ID, "alice", "")
	require.NoError(t, applicationRepo.Create(first))

	// second live application from the same applicant trips the index
	second := models.NewApplication(requirement.ID, "alice", "")
	err := applicationRepo.Create(second)
	assert.ErrorIs(t, err, models.ErrDuplicateApplication)

	// after rejection the applicant may hold a fresh application
	changed, err := applicationRepo.DecideIfPending(first.ID, models.ApplicationStatusRejected)
	require.NoError(t, err)
	require.True(t, changed)

	third := models.NewApplication(requirement.ID, "alice", "")
	assert.NoError(t, applicationRepo.Create(third))
}

func TestDecideIfPending(t *testing.T) {
	db := newTestDB(t)
	applicationRepo := NewApplicationRepository(db)
	requirement := seedRequirement(t, db, 2)

	application := models.NewApplication(requirement.ID, "alice", "")
	require.NoError(t, applicationRepo.Create(application))

	changed, err := applicationRepo.DecideIfPending(application.ID, models.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.True(t, changed)

	// already decided, the flip is a no-op
	changed, err = applicationRepo.DecideIfPending(application.ID, models.ApplicationStatusRejected)
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := applicationRepo.GetByID(application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, stored.Status)
	assert.Equal(t, int64(2), stored.Version)
}
