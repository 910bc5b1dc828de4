package model

import (
	"time"

	"github.com/google/uuid"
)

// Process is the consistency root of one regularization case. It exclusively
// owns its requirements, tasks, general files and timeline — none of them are
// shared across processes.
type Process struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pendente';index" json:"status"`
	Deadline    *time.Time `json:"deadline"`
	Notes       string     `gorm:"type:text" json:"notes"`
	ClientID    *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	Client      *User      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	Creator     *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	// Version is bumped on every mutation of the aggregate. Writers check it
	// so that two actors working from stale reads cannot clobber each other.
	Version int64 `gorm:"not null;default:1" json:"version"`

	ClosedAt  *time.Time `json:"closed_at"` // set exactly when Status == concluido
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Requirements []Requirement    `gorm:"foreignKey:ProcessID;constraint:OnDelete:CASCADE" json:"requirements,omitempty"`
	Tasks        []AdminTask      `gorm:"foreignKey:ProcessID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Files        []FileAttachment `gorm:"polymorphic:Owner;polymorphicValue:process" json:"files,omitempty"`
	Timeline     []TimelineEntry  `gorm:"foreignKey:ProcessID;constraint:OnDelete:CASCADE" json:"timeline,omitempty"`
}
