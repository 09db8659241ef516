package community

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coworkhub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNameRequired = errors.New("name is required")
)

// DirectoryService serves the community tab: members, experts and student
// activities.
type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

// Members lists other members' public profile fields, optionally filtered by
// name.
func (s *DirectoryService) Members(ctx context.Context, viewer uuid.UUID, search string) ([]MemberCard, error) {
	q := s.db.WithContext(ctx).Model(&models.Profile{}).
		Select("user_id", "full_name", "avatar_url", "membership_type").
		Where("user_id <> ?", viewer).
		Order("full_name ASC")
	if strings.TrimSpace(search) != "" {
		q = q.Where("LOWER(full_name) LIKE ?", likePattern(search))
	}
	var cards []MemberCard
	if err := q.Scan(&cards).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return cards, nil
}

func (s *DirectoryService) Experts(ctx context.Context, search string, availableOnly bool) ([]Expert, error) {
	q := s.db.WithContext(ctx).Order("rating DESC, name ASC")
	if strings.TrimSpace(search) != "" {
		p := likePattern(search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(title) LIKE ?", p, p)
	}
	if availableOnly {
		q = q.Where("is_available = ?", true)
	}
	var experts []Expert
	return experts, q.Find(&experts).Error
}

func (s *DirectoryService) Expert(ctx context.Context, id uuid.UUID) (*Expert, error) {
	var e Expert
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *DirectoryService) Activities(ctx context.Context, category, search string) ([]StudentActivity, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if strings.TrimSpace(search) != "" {
		p := likePattern(search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}
	var items []StudentActivity
	return items, q.Find(&items).Error
}

func (s *DirectoryService) Activity(ctx context.Context, id uuid.UUID) (*StudentActivity, error) {
	var a StudentActivity
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// --- admin ---

func (s *DirectoryService) SaveExpert(ctx context.Context, e *Expert) error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrNameRequired
	}
	return s.db.WithContext(ctx).Save(e).Error
}

func (s *DirectoryService) DeleteExpert(ctx context.Context, id uuid.UUID) error {
	return deleteByID(s.db.WithContext(ctx), &Expert{}, id)
}

func (s *DirectoryService) SaveActivity(ctx context.Context, a *StudentActivity) error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrNameRequired
	}
	return s.db.WithContext(ctx).Save(a).Error
}

func (s *DirectoryService) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return deleteByID(s.db.WithContext(ctx), &StudentActivity{}, id)
}

func deleteByID(db *gorm.DB, model interface{}, id uuid.UUID) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
