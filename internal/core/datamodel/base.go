package datamodel

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workflow states shared by every primary entity.
const (
	StateDraft            = "draft"
	StateInReview         = "in review"
	StatePublished        = "published"
	StateChangesRequested = "changes requested"
	StateScheduled        = "schedule"
)

// Base carries the lifecycle fields embedded in every primary entity. IDs are
// opaque UUIDs generated at creation and never reused. DateDeleted marks a
// soft delete; companies filter on it, other entities delete their rows.
type Base struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	DateCreated   time.Time  `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated   time.Time  `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
	DatePublished *time.Time `json:"date_published,omitempty" gorm:"column:date_published"`
	DateExpired   *time.Time `json:"date_expired,omitempty" gorm:"column:date_expired"`
	DateDeleted   *time.Time `json:"date_deleted,omitempty" gorm:"column:date_deleted"`
	State         string     `json:"state" gorm:"column:state;default:draft"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.State == "" {
		b.State = StateDraft
	}
	return nil
}
