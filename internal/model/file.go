package model

import (
	"time"

	"github.com/google/uuid"
)

// FileAttachment owner types (polymorphic association)
const (
	FileOwnerRequirement = "requirement"
	FileOwnerTask        = "admin_task"
	FileOwnerProcess     = "process"
)

// FileAttachment is the metadata record for one uploaded object. The binary
// itself lives in the blob store under StorageKey; the two must be created
// and deleted together. Each attachment belongs to exactly one requirement,
// task or process general-files list.
type FileAttachment struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_file_owner" json:"owner_id"`
	OwnerType   string    `gorm:"type:varchar(20);not null;index:idx_file_owner" json:"owner_type"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	URL         string    `gorm:"type:text;not null" json:"url"`
	StorageKey  string    `gorm:"type:text;not null" json:"-"`
	ContentType string    `gorm:"type:varchar(100)" json:"content_type"`
	Size        int64     `gorm:"not null" json:"size"`
	UploadedBy  string    `gorm:"type:varchar(10)" json:"uploaded_by"` // admin or user
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
