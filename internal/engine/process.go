package engine

import (
	"fmt"
	"strings"
	"time"

	"regulariza/internal/model"
	"regulariza/pkg/apperror"

	"github.com/google/uuid"
)

// NewProcess initializes a pending process for a client.
func NewProcess(title, description string, dl *time.Time, clientID *uuid.UUID, actor Actor, now time.Time) (model.Process, model.TimelineEntry, error) {
	if strings.TrimSpace(title) == "" {
		return model.Process{}, model.TimelineEntry{}, apperror.Validationf("process title is required")
	}

	p := model.Process{
		Title:       title,
		Description: description,
		Status:      model.ProcessPendente,
		Deadline:    dl,
		ClientID:    clientID,
		CreatedBy:   &actor.ID,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e := entry(uuid.Nil, model.ProcessPendente,
		fmt.Sprintf("Processo %q criado", title), actor, now)
	return p, e, nil
}

// SetProcessStatus is the admin control over the overall case status. A
// concluido process may be reopened this way, which clears ClosedAt so the
// status/timestamp pairing always holds.
func SetProcessStatus(p *model.Process, newStatus, message string, actor Actor, now time.Time) (model.TimelineEntry, error) {
	if !model.ValidProcessStatus(newStatus) {
		return model.TimelineEntry{}, apperror.Validationf("status de processo desconhecido: %q", newStatus)
	}

	p.Status = newStatus
	if newStatus == model.ProcessConcluido {
		if p.ClosedAt == nil {
			closedAt := now
			p.ClosedAt = &closedAt
		}
	} else {
		p.ClosedAt = nil
	}
	p.UpdatedAt = now

	msg := fmt.Sprintf("Status do processo alterado para %s", model.ProcessStatusLabel(newStatus))
	if message != "" {
		msg += ": " + message
	}
	return entry(p.ID, newStatus, msg, actor, now), nil
}

// CloseProcess concludes the case, stamping ClosedAt and merging the closing
// notes. Closing an already concluded process is rejected rather than
// silently repeated, so the terminal timeline entry stays unique.
func CloseProcess(p *model.Process, notes string, actor Actor, now time.Time) (model.TimelineEntry, error) {
	if p.Status == model.ProcessConcluido {
		return model.TimelineEntry{}, apperror.Invariantf("processo %q já foi concluído", p.Title)
	}

	p.Status = model.ProcessConcluido
	closedAt := now
	p.ClosedAt = &closedAt
	if notes != "" {
		if p.Notes != "" {
			p.Notes += "\n" + notes
		} else {
			p.Notes = notes
		}
	}
	p.UpdatedAt = now

	msg := "Processo concluído"
	if notes != "" {
		msg += ": " + notes
	}
	return entry(p.ID, model.ProcessConcluido, msg, actor, now), nil
}

// AttachProcessFile appends a general (unstructured) file to the process.
func AttachProcessFile(p *model.Process, f model.FileAttachment, actor Actor, now time.Time) model.TimelineEntry {
	p.Files = append(p.Files, f)
	p.UpdatedAt = now
	return entry(p.ID, p.Status,
		fmt.Sprintf("Arquivo %q anexado ao processo", f.Name), actor, now)
}

// RemoveProcessFile detaches a general file by id, returning it so the
// caller can delete the backing blob.
func RemoveProcessFile(p *model.Process, fileID uuid.UUID, actor Actor, now time.Time) (model.FileAttachment, model.TimelineEntry, error) {
	idx := -1
	for i := range p.Files {
		if p.Files[i].ID == fileID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.FileAttachment{}, model.TimelineEntry{}, apperror.NotFoundf("arquivo %s não encontrado no processo", fileID)
	}

	removed := p.Files[idx]
	p.Files = append(p.Files[:idx], p.Files[idx+1:]...)
	p.UpdatedAt = now
	return removed, entry(p.ID, p.Status,
		fmt.Sprintf("Arquivo %q removido do processo", removed.Name), actor, now), nil
}
