package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SubscriptionPending   = "pending"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

type MembershipPlan struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string                      `gorm:"size:100;not null" json:"name"`
	Price           decimal.Decimal             `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	CreditsPerMonth int                         `gorm:"not null;default:0" json:"credits_per_month"`
	Features        datatypes.JSONSlice[string] `json:"features"`
	IsActive        bool                        `gorm:"not null;index" json:"is_active"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

func (p *MembershipPlan) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

type Subscription struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"plan_id"`
	Status             string          `gorm:"not null;default:'pending';size:50;index" json:"status"`
	FawryReference     string          `gorm:"size:100;index" json:"fawry_reference"`
	CurrentPeriodStart *time.Time      `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time      `json:"current_period_end"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Plan               *MembershipPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// Payment records one gateway charge. MerchantRefNum correlates the charge
// request with its webhook callback.
type Payment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	SubscriptionID *uuid.UUID      `gorm:"type:uuid;index" json:"subscription_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency       string          `gorm:"size:3;not null;default:'EGP'" json:"currency"`
	FawryReference string          `gorm:"size:100" json:"fawry_reference"`
	MerchantRefNum string          `gorm:"size:64;not null;uniqueIndex" json:"merchant_ref_num"`
	PaymentMethod  string          `gorm:"size:20;default:'MWALLET'" json:"payment_method"`
	Status         string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Subscription   *Subscription   `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
