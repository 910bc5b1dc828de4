package model

import (
	"time"

	"github.com/google/uuid"
)

// Requirement is a named document request within a process. The client
// submits files against it; the admin approves, rejects or comments.
//
// Invariants enforced by the engine:
//   - zero files ⇒ status is never enviado/aprovado
//   - aprovado freezes the file list until an admin status override
type Requirement struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProcessID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"process_id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pendente';index" json:"status"`
	AdminComments string     `gorm:"type:text" json:"admin_comments"`
	UserNote      string     `gorm:"type:text" json:"user_note"`
	Deadline      *time.Time `json:"deadline"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Files []FileAttachment `gorm:"polymorphic:Owner;polymorphicValue:requirement" json:"files"`
}

// FileByID returns the index of the file with the given id, or -1.
func (r *Requirement) FileByID(fileID uuid.UUID) int {
	for i := range r.Files {
		if r.Files[i].ID == fileID {
			return i
		}
	}
	return -1
}
