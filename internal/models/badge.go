package models

import (
	"time"

	"gorm.io/gorm"
)

type BadgeRarity string

const (
	BadgeRarityBronze   BadgeRarity = "bronze"
	BadgeRaritySilver   BadgeRarity = "silver"
	BadgeRarityGold     BadgeRarity = "gold"
	BadgeRarityPlatinum BadgeRarity = "platinum"
)

// Badge is an achievement definition. Criteria is an opaque rule set on
// the wire; the dev server interprets Condition/Threshold out of it.
type Badge struct {
	ID           int         `gorm:"primaryKey" json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Icon         string      `json:"icon"`
	Category     string      `json:"category"`
	CategoryName string      `gorm:"column:category_name" json:"category_name"`
	Rarity       BadgeRarity `gorm:"type:text" json:"rarity"`
	RarityName   string      `gorm:"column:rarity_name" json:"rarity_name"`
	Points       int         `json:"points"`
	Condition    string      `json:"-"` // e.g. "tasks_completed"
	Threshold    int         `json:"-"`
	IsActive     bool        `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt    time.Time   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"column:updated_at" json:"updated_at"`

	// Opaque rule set as serialized to clients. Filled from
	// Condition/Threshold before responding; clients never interpret it.
	CriteriaMap map[string]interface{} `gorm:"-" json:"criteria"`
}

// FillCriteria populates the wire-facing criteria object from the
// stored rule columns.
func (b *Badge) FillCriteria() {
	b.CriteriaMap = map[string]interface{}{
		"condition": b.Condition,
		"threshold": b.Threshold,
	}
}

// UserBadge is the server-side record of an awarded badge.
type UserBadge struct {
	UserID   int       `gorm:"primaryKey" json:"userId"`
	BadgeID  int       `gorm:"primaryKey" json:"badgeId"`
	Progress int       `gorm:"default:0" json:"progress"`
	EarnedAt time.Time `gorm:"column:earned_at" json:"earned_at"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

func (ub *UserBadge) BeforeCreate(tx *gorm.DB) (err error) {
	if ub.EarnedAt.IsZero() {
		ub.EarnedAt = time.Now()
	}
	return
}

// Progress describes how far a user is toward earning a badge.
type Progress struct {
	Current    int `json:"current"`
	Required   int `json:"required"`
	Percentage int `json:"percentage"`
}

// NewProgress computes a display-ready progress record. Percentage is
// clamped to 0-100 even when current overshoots required.
func NewProgress(current, required int) Progress {
	pct := 0
	if required > 0 {
		pct = current * 100 / required
	}
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return Progress{Current: current, Required: required, Percentage: pct}
}

// EarnedBadge pairs a badge with when it was earned.
type EarnedBadge struct {
	Badge    Badge     `json:"badge"`
	EarnedAt time.Time `json:"earned_at"`
	Progress Progress  `json:"progress"`
}

// BadgeWithProgress is the GET /badges row: every active badge plus the
// caller's progress toward it.
type BadgeWithProgress struct {
	Badge    Badge      `json:"badge"`
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at"`
	Progress *Progress  `json:"progress"`
}

type BadgesResponse struct {
	Data []BadgeWithProgress `json:"data"`
	Meta struct {
		TotalBadges  int `json:"total_badges"`
		EarnedBadges int `json:"earned_badges"`
	} `json:"meta"`
}

type EarnedBadgesResponse struct {
	Data []EarnedBadge `json:"data"`
	Meta struct {
		TotalEarned int `json:"total_earned"`
	} `json:"meta"`
}
