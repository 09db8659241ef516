package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/coworkhub/backend/internal/models"
	"github.com/coworkhub/backend/internal/testutil"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPlans(t *testing.T, repo *Repository) []models.MembershipPlan {
	t.Helper()
	plans := []models.MembershipPlan{
		{Name: "Premium", Price: decimal.NewFromInt(300), CreditsPerMonth: 100, IsActive: true},
		{Name: "Pro", Price: decimal.NewFromInt(150), CreditsPerMonth: 40, IsActive: true},
		{Name: "Legacy", Price: decimal.NewFromInt(50), CreditsPerMonth: 10, IsActive: false},
	}
	for i := range plans {
		require.NoError(t, repo.db.Create(&plans[i]).Error)
	}
	return plans
}

func TestListActivePlansOrdersByPrice(t *testing.T) {
	repo := NewRepository(testutil.NewDB(t), nil)
	seedPlans(t, repo)

	plans, err := repo.ListActivePlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Pro", plans[0].Name)
	assert.Equal(t, "Premium", plans[1].Name)
}

func TestListSpacesFilters(t *testing.T) {
	repo := NewRepository(testutil.NewDB(t), nil)
	ctx := context.Background()
	require.NoError(t, repo.SaveSpace(ctx, &models.Space{Name: "A Desk", Type: "hot-desk", Available: true}))
	require.NoError(t, repo.SaveSpace(ctx, &models.Space{Name: "B Room", Type: "meeting-room", Available: true}))
	require.NoError(t, repo.SaveSpace(ctx, &models.Space{Name: "C Room", Type: "meeting-room", Available: false}))

	all, err := repo.ListSpaces(ctx, SpaceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rooms, err := repo.ListSpaces(ctx, SpaceFilter{Type: "meeting-room", AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "B Room", rooms[0].Name)
}

func TestGetNotFound(t *testing.T) {
	repo := NewRepository(testutil.NewDB(t), nil)

	_, err := repo.GetSpace(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSpaceNotFound)
	_, err = repo.GetPlan(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.ErrorIs(t, repo.DeleteSpace(context.Background(), uuid.New()), ErrSpaceNotFound)
}

func TestRedisCacheHitSkipsDatabase(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRepository(testutil.NewDB(t), NewRedisCache(client, time.Minute))

	cached := []models.MembershipPlan{{ID: uuid.New(), Name: "Cached", Price: decimal.NewFromInt(10), IsActive: true}}
	b, err := json.Marshal(cached)
	require.NoError(t, err)
	mock.ExpectGet("catalog:plans:active").SetVal(string(b))

	plans, err := repo.ListActivePlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Cached", plans[0].Name)
	assert.True(t, plans[0].Price.Equal(decimal.NewFromInt(10)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheMissPopulates(t *testing.T) {
	client, mock := redismock.NewClientMock()
	db := testutil.NewDB(t)
	repo := NewRepository(db, NewRedisCache(client, time.Minute))

	space := models.Space{Name: "Focus Room", Type: "meeting-room", Capacity: 6, Available: true}
	require.NoError(t, db.Create(&space).Error)

	var stored models.Space
	require.NoError(t, db.First(&stored, "id = ?", space.ID).Error)
	want, err := json.Marshal(stored)
	require.NoError(t, err)

	key := "catalog:space:" + space.ID.String()
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, string(want), time.Minute).SetVal("OK")
	mock.ExpectSAdd("catalog:keys", key).SetVal(1)

	got, err := repo.GetSpace(context.Background(), space.ID)
	require.NoError(t, err)
	assert.Equal(t, "Focus Room", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheErrorFallsBackToDatabase(t *testing.T) {
	client, mock := redismock.NewClientMock()
	db := testutil.NewDB(t)
	repo := NewRepository(db, NewRedisCache(client, time.Minute))
	plans := seedPlans(t, repo)

	mock.ExpectGet("catalog:plan:" + plans[1].ID.String()).SetErr(assert.AnError)

	got, err := repo.GetPlan(context.Background(), plans[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Pro", got.Name)
}

func TestWritesInvalidateCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRepository(testutil.NewDB(t), NewRedisCache(client, time.Minute))

	mock.ExpectSMembers("catalog:keys").SetVal([]string{"catalog:plans:active"})
	mock.ExpectDel("catalog:plans:active", "catalog:keys").SetVal(2)

	require.NoError(t, repo.SavePlan(context.Background(), &models.MembershipPlan{Name: "New", Price: decimal.NewFromInt(99), IsActive: true}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
