package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequirementSpecValidate(t *testing.T) {
	testCases := []struct {
		name      string
		spec      RequirementSpec
		wantField string
	}{
		{
			name: "valid",
			spec: RequirementSpec{Role: "Photographer", QuantityNeeded: 1},
		},
		{
			name:      "role required",
			spec:      RequirementSpec{Role: "  ", QuantityNeeded: 1},
			wantField: "role",
		},
		{
			name:      "quantity at least one",
			spec:      RequirementSpec{Role: "Editor", QuantityNeeded: 0},
			wantField: "quantity_needed",
		},
		{
			name:      "negative quantity",
			spec:      RequirementSpec{Role: "Editor", QuantityNeeded: -3},
			wantField: "quantity_needed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.wantField, validationErr.Field)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, RequirementStatusOpen, StatusFor(0, 2))
	assert.Equal(t, RequirementStatusOpen, StatusFor(1, 2))
	assert.Equal(t, RequirementStatusClosed, StatusFor(2, 2))
	assert.Equal(t, RequirementStatusClosed, StatusFor(3, 2))
}

func TestNewRequirement(t *testing.T) {
	requirement := NewRequirement("collab-1", RequirementSpec{
		Role:           " Photographer ",
		QuantityNeeded: 2,
	})

	assert.NotEmpty(t, requirement.ID)
	assert.Equal(t, "collab-1", requirement.CollaborationID)
	assert.Equal(t, "Photographer", requirement.Role)
	assert.Equal(t, RequirementStatusOpen, requirement.Status)
	assert.Equal(t, 0, requirement.QuantityFilled)
	assert.NotNil(t, requirement.Skills)
	assert.Equal(t, int64(1), requirement.Version)
}

func TestCollaborationValidate(t *testing.T) {
	valid := NewCollaboration("Shoot", "", "creator")
	assert.NoError(t, valid.Validate())
	assert.True(t, valid.IsActive())

	missingTitle := NewCollaboration("   ", "", "creator")
	var validationErr *ValidationError
	assert.ErrorAs(t, missingTitle.Validate(), &validationErr)
	assert.Equal(t, "title", validationErr.Field)
}

func TestApplicationLifecycleHelpers(t *testing.T) {
	application := NewApplication("req-1", "alice", "hello")
	assert.True(t, application.IsPending())
	assert.NoError(t, application.Validate())

	application.Status = ApplicationStatusAccepted
	assert.False(t, application.IsPending())
}
