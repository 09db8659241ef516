// Package catalog serves the shared reference data (spaces and membership
// plans) through a read-through repository with a pluggable cache.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coworkhub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSpaceNotFound = errors.New("space not found")
	ErrPlanNotFound  = errors.New("membership plan not found")
)

type SpaceFilter struct {
	Type          string
	AvailableOnly bool
}

// Reader is the read side used by the booking and payment services.
type Reader interface {
	ListSpaces(ctx context.Context, f SpaceFilter) ([]models.Space, error)
	GetSpace(ctx context.Context, id uuid.UUID) (*models.Space, error)
	ListActivePlans(ctx context.Context) ([]models.MembershipPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.MembershipPlan, error)
}

type Repository struct {
	db    *gorm.DB
	cache Cache
}

func NewRepository(db *gorm.DB, cache Cache) *Repository {
	if cache == nil {
		cache = NopCache{}
	}
	return &Repository{db: db, cache: cache}
}

func (r *Repository) ListSpaces(ctx context.Context, f SpaceFilter) ([]models.Space, error) {
	key := fmt.Sprintf("spaces:%s:%t", f.Type, f.AvailableOnly)
	var spaces []models.Space
	if r.fromCache(ctx, "spaces", key, &spaces) {
		return spaces, nil
	}

	q := r.db.WithContext(ctx).Order("name ASC")
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.AvailableOnly {
		q = q.Where("available = ?", true)
	}
	if err := q.Find(&spaces).Error; err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	r.toCache(ctx, key, spaces)
	return spaces, nil
}

func (r *Repository) GetSpace(ctx context.Context, id uuid.UUID) (*models.Space, error) {
	key := "space:" + id.String()
	var space models.Space
	if r.fromCache(ctx, "space", key, &space) {
		return &space, nil
	}

	err := r.db.WithContext(ctx).First(&space, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSpaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get space: %w", err)
	}
	r.toCache(ctx, key, space)
	return &space, nil
}

// ListActivePlans returns active plans ordered by price, cheapest first.
func (r *Repository) ListActivePlans(ctx context.Context) ([]models.MembershipPlan, error) {
	const key = "plans:active"
	var plans []models.MembershipPlan
	if r.fromCache(ctx, "plans", key, &plans) {
		return plans, nil
	}

	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("price ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	r.toCache(ctx, key, plans)
	return plans, nil
}

func (r *Repository) GetPlan(ctx context.Context, id uuid.UUID) (*models.MembershipPlan, error) {
	key := "plan:" + id.String()
	var plan models.MembershipPlan
	if r.fromCache(ctx, "plan", key, &plan) {
		return &plan, nil
	}

	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	r.toCache(ctx, key, plan)
	return &plan, nil
}

// --- admin writes; each one drops the cached catalog ---

func (r *Repository) AllSpaces(ctx context.Context) ([]models.Space, error) {
	var spaces []models.Space
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&spaces).Error
	return spaces, err
}

func (r *Repository) AllPlans(ctx context.Context) ([]models.MembershipPlan, error) {
	var plans []models.MembershipPlan
	err := r.db.WithContext(ctx).Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *Repository) SaveSpace(ctx context.Context, space *models.Space) error {
	if err := r.db.WithContext(ctx).Save(space).Error; err != nil {
		return fmt.Errorf("save space: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

func (r *Repository) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Space{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete space: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSpaceNotFound
	}
	r.invalidate(ctx)
	return nil
}

func (r *Repository) SavePlan(ctx context.Context, plan *models.MembershipPlan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

func (r *Repository) DeletePlan(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MembershipPlan{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	r.invalidate(ctx)
	return nil
}

func (r *Repository) fromCache(ctx context.Context, kind, key string, dst interface{}) bool {
	hit, err := r.cache.Get(ctx, key, dst)
	if err != nil {
		slog.Warn("catalog cache read failed", "key", key, "error", err)
		cacheLookup(kind, "error")
		return false
	}
	if hit {
		cacheLookup(kind, "hit")
	} else {
		cacheLookup(kind, "miss")
	}
	return hit
}

func (r *Repository) toCache(ctx context.Context, key string, v interface{}) {
	if err := r.cache.Set(ctx, key, v); err != nil {
		slog.Warn("catalog cache write failed", "key", key, "error", err)
	}
}

func (r *Repository) invalidate(ctx context.Context) {
	if err := r.cache.Invalidate(ctx); err != nil {
		slog.Error("catalog cache invalidation failed", "error", err)
	}
}
