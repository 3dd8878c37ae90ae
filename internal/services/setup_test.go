package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/craftora/collab/internal/models"
	"github.com/craftora/collab/internal/repositories"
	"github.com/craftora/collab/pkg/database"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db                   *sql.DB
	collaborationRepo    *repositories.CollaborationRepository
	requirementRepo      *repositories.RequirementRepository
	applicationRepo      *repositories.ApplicationRepository
	authService          *AuthorizationService
	fulfillmentService   *FulfillmentService
	collaborationService *CollaborationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	collaborationRepo := repositories.NewCollaborationRepository(db)
	requirementRepo := repositories.NewRequirementRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	authService := NewAuthorizationService(applicationRepo)

	return &testEnv{
		db:                   db,
		collaborationRepo:    collaborationRepo,
		requirementRepo:      requirementRepo,
		applicationRepo:      applicationRepo,
		authService:          authService,
		fulfillmentService:   NewFulfillmentService(db, collaborationRepo, requirementRepo, applicationRepo, authService),
		collaborationService: NewCollaborationService(db, collaborationRepo, requirementRepo, applicationRepo, authService),
	}
}

// createCollaboration sets up a collaboration with a single requirement and
// returns both
func (e *testEnv) createCollaboration(t *testing.T, creatorID string, quantityNeeded int) (*models.Collaboration, *models.Requirement) {
	t.Helper()

	view, err := e.collaborationService.Create(creatorID, CreateCollaborationInput{
		Title: "Short film shoot",
		Requirements: []models.RequirementSpec{
			{Role: "Photographer", QuantityNeeded: quantityNeeded},
		},
	})
	require.NoError(t, err)
	require.Len(t, view.Requirements, 1)

	return view.Collaboration, view.Requirements[0]
}

// apply submits an application and fails the test on error
func (e *testEnv) apply(t *testing.T, requirementID, applicantID string) *models.Application {
	t.Helper()

	application, err := e.fulfillmentService.Apply(requirementID, applicantID, "hi")
	require.NoError(t, err)
	return application
}
