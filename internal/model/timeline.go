package model

import (
	"time"

	"github.com/google/uuid"
)

// TimelineEntry is one append-only audit record on a process. Every mutating
// command on the process or its requirements/tasks produces exactly one entry.
// Entries are never edited or removed; Seq preserves append (causal) order
// even when two entries share a timestamp.
type TimelineEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProcessID uuid.UUID `gorm:"type:uuid;not null;index" json:"process_id"`
	Seq       int64     `gorm:"autoIncrement;uniqueIndex" json:"seq"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"` // status associated with the event
	Message   string    `gorm:"type:text;not null" json:"message"`
	Actor     string    `gorm:"type:varchar(10);not null" json:"actor"` // admin or user
	ActorName string    `gorm:"type:varchar(255)" json:"actor_name"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
