package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminTask is an internal checklist item on a process. Unlike a Requirement
// it is not a document topic: the client may attach files to it for ad hoc
// requests, but file activity never changes its status.
type AdminTask struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProcessID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"process_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pendente';index" json:"status"`
	Deadline    *time.Time `json:"deadline"`
	CompletedAt *time.Time `json:"completed_at"` // set exactly when Status == concluido
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	Creator     *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Files []FileAttachment `gorm:"polymorphic:Owner;polymorphicValue:admin_task" json:"files"`
}

// FileByID returns the index of the file with the given id, or -1.
func (t *AdminTask) FileByID(fileID uuid.UUID) int {
	for i := range t.Files {
		if t.Files[i].ID == fileID {
			return i
		}
	}
	return -1
}
