// Package engine holds the pure state machines for requirements, tasks and
// the process lifecycle. Every mutating operation validates first, then
// mutates the in-memory entity and returns the single timeline entry the
// caller must append in the same transaction. Nothing here touches storage.
package engine

import (
	"time"

	"regulariza/internal/model"

	"github.com/google/uuid"
)

// Actor identifies who is performing an operation, for timeline attribution.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role string // model.ActorAdmin or model.ActorUser
}

// entry builds a timeline record in the engine's canonical shape.
func entry(processID uuid.UUID, status, message string, actor Actor, now time.Time) model.TimelineEntry {
	return model.TimelineEntry{
		ProcessID: processID,
		Status:    status,
		Message:   message,
		Actor:     actor.Role,
		ActorName: actor.Name,
		CreatedAt: now,
	}
}
