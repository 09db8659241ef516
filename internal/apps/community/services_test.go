package community

import (
	"context"
	"testing"

	"github.com/coworkhub/backend/internal/models"
	"github.com/coworkhub/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*DirectoryService, *gorm.DB) {
	db := testutil.NewDB(t, New().Models()...)
	return NewDirectoryService(db), db
}

func TestMembersExcludesViewerAndFilters(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	viewer := uuid.New()
	require.NoError(t, db.Create(&models.Profile{UserID: viewer, FullName: "Viewer"}).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: uuid.New(), FullName: "Nour Hassan", MembershipType: "pro"}).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: uuid.New(), FullName: "Omar Said"}).Error)

	all, err := svc.Members(ctx, viewer, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Nour Hassan", all[0].FullName)
	assert.Equal(t, "pro", all[0].MembershipType)
	for _, m := range all {
		assert.NotEqual(t, viewer, m.UserID)
	}

	found, err := svc.Members(ctx, viewer, "omar")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Omar Said", found[0].FullName)
}

func TestExpertsSearchAndAvailability(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveExpert(ctx, &Expert{Name: "Dina", Title: "Product Designer", Rating: 4.9, IsAvailable: true, Expertise: []string{"UX", "Figma"}}))
	require.NoError(t, svc.SaveExpert(ctx, &Expert{Name: "Karim", Title: "Backend Engineer", Rating: 4.5}))

	all, err := svc.Experts(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Dina", all[0].Name)
	assert.Equal(t, []string{"UX", "Figma"}, []string(all[0].Expertise))

	available, err := svc.Experts(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Dina", available[0].Name)

	byTitle, err := svc.Experts(ctx, "backend", false)
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Karim", byTitle[0].Name)
}

func TestActivitiesCRUD(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	club := &StudentActivity{Name: "Robotics Club", Category: "tech", Description: "Build robots"}
	require.NoError(t, svc.SaveActivity(ctx, club))
	require.NoError(t, svc.SaveActivity(ctx, &StudentActivity{Name: "Debate Society", Category: "culture", Description: "Weekly debates"}))

	tech, err := svc.Activities(ctx, "tech", "")
	require.NoError(t, err)
	require.Len(t, tech, 1)
	assert.Equal(t, club.ID, tech[0].ID)

	club.Members = 42
	require.NoError(t, svc.SaveActivity(ctx, club))
	got, err := svc.Activity(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Members)

	require.NoError(t, svc.DeleteActivity(ctx, club.ID))
	_, err = svc.Activity(ctx, club.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteActivity(ctx, club.ID), ErrNotFound)
}

func TestSaveRequiresName(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SaveExpert(ctx, &Expert{Title: "Mentor"}), ErrNameRequired)
	assert.ErrorIs(t, svc.SaveActivity(ctx, &StudentActivity{Name: "  "}), ErrNameRequired)
	_, err := svc.Expert(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
