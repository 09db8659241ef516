package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coworkhub/backend/internal/catalog"
	"github.com/coworkhub/backend/internal/dto"
	"github.com/coworkhub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotActive = errors.New("only active subscriptions can be cancelled")
	ErrNameRequired          = errors.New("name is required")
)

// AdminService backs the back-office: statistics, user listings, membership
// overrides and catalog maintenance.
type AdminService struct {
	db      *gorm.DB
	catalog *catalog.Repository
}

func NewAdminService(db *gorm.DB, repo *catalog.Repository) *AdminService {
	return &AdminService{db: db, catalog: repo}
}

func (s *AdminService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	var stats dto.AdminStatsResponse
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Booking{}).Where("status = ?", models.BookingConfirmed).Count(&stats.ConfirmedBookings).Error; err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if err := db.Model(&models.Booking{}).
		Where("status IN ?", []string{models.BookingConfirmed, models.BookingCompleted}).
		Select("COALESCE(SUM(credits_used), 0)").
		Scan(&stats.CreditsUsed).Error; err != nil {
		return nil, fmt.Errorf("sum credits: %w", err)
	}
	if err := db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&models.Subscription{}).Where("status = ?", models.SubscriptionActive).Count(&stats.ActiveSubscriptions).Error; err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	return &stats, nil
}

func (s *AdminService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}

func (s *AdminService) ListSubscriptions(ctx context.Context, status string) ([]models.Subscription, error) {
	q := s.db.WithContext(ctx).Preload("Plan").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var subs []models.Subscription
	return subs, q.Find(&subs).Error
}

// CancelSubscription moves an active subscription to cancelled. Credits
// already granted stay on the profile.
func (s *AdminService) CancelSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionMissing
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if sub.Status != models.SubscriptionActive {
		return nil, ErrSubscriptionNotActive
	}
	if err := s.db.WithContext(ctx).Model(&sub).Update("status", models.SubscriptionCancelled).Error; err != nil {
		return nil, fmt.Errorf("cancel subscription: %w", err)
	}
	sub.Status = models.SubscriptionCancelled
	return &sub, nil
}

func (s *AdminService) ListSpaces(ctx context.Context) ([]models.Space, error) {
	return s.catalog.AllSpaces(ctx)
}

func (s *AdminService) CreateSpace(ctx context.Context, req *dto.SpaceRequest) (*models.Space, error) {
	space := &models.Space{Available: true}
	if err := applySpace(space, req); err != nil {
		return nil, err
	}
	if err := s.catalog.SaveSpace(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *AdminService) UpdateSpace(ctx context.Context, id uuid.UUID, req *dto.SpaceRequest) (*models.Space, error) {
	space, err := s.catalog.GetSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applySpace(space, req); err != nil {
		return nil, err
	}
	if err := s.catalog.SaveSpace(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *AdminService) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	return s.catalog.DeleteSpace(ctx, id)
}

func applySpace(space *models.Space, req *dto.SpaceRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ErrNameRequired
	}
	space.Name = name
	space.Type = req.Type
	space.Location = req.Location
	space.Capacity = req.Capacity
	space.Price = req.Price
	if req.Available != nil {
		space.Available = *req.Available
	}
	space.Amenities = req.Amenities
	space.Features = req.Features
	space.Description = req.Description
	space.Image = req.Image
	space.OpenHours = req.OpenHours
	return nil
}

func (s *AdminService) ListPlans(ctx context.Context) ([]models.MembershipPlan, error) {
	return s.catalog.AllPlans(ctx)
}

func (s *AdminService) CreatePlan(ctx context.Context, req *dto.PlanRequest) (*models.MembershipPlan, error) {
	plan := &models.MembershipPlan{IsActive: true}
	if err := applyPlan(plan, req); err != nil {
		return nil, err
	}
	if err := s.catalog.SavePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *AdminService) UpdatePlan(ctx context.Context, id uuid.UUID, req *dto.PlanRequest) (*models.MembershipPlan, error) {
	plan, err := s.catalog.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPlan(plan, req); err != nil {
		return nil, err
	}
	if err := s.catalog.SavePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *AdminService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return s.catalog.DeletePlan(ctx, id)
}

func applyPlan(plan *models.MembershipPlan, req *dto.PlanRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ErrNameRequired
	}
	if req.Price.IsNegative() || req.CreditsPerMonth < 0 {
		return errors.New("price and credits must not be negative")
	}
	plan.Name = name
	plan.Price = req.Price
	plan.CreditsPerMonth = req.CreditsPerMonth
	plan.Features = req.Features
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	return nil
}
