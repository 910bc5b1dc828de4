package engine

import (
	"fmt"
	"strings"
	"time"

	"regulariza/internal/model"
	"regulariza/pkg/apperror"

	"github.com/google/uuid"
)

// NewTask initializes a pending checklist task for a process.
func NewTask(processID uuid.UUID, title, description string, dl *time.Time, actor Actor, now time.Time) (model.AdminTask, model.TimelineEntry, error) {
	if strings.TrimSpace(title) == "" {
		return model.AdminTask{}, model.TimelineEntry{}, apperror.Validationf("task title is required")
	}

	task := model.AdminTask{
		ProcessID:   processID,
		Title:       title,
		Description: description,
		Status:      model.TaskPendente,
		Deadline:    dl,
		CreatedBy:   &actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Files:       []model.FileAttachment{},
	}
	e := entry(processID, model.TaskPendente,
		fmt.Sprintf("Tarefa %q criada", title), actor, now)
	return task, e, nil
}

// ToggleTaskComplete flips the task between concluido and pendente. The
// completion timestamp is set and cleared atomically with the status, so
// two toggles always return the task to its original state.
func ToggleTaskComplete(t *model.AdminTask, actor Actor, now time.Time) model.TimelineEntry {
	if t.Status == model.TaskConcluido {
		t.Status = model.TaskPendente
		t.CompletedAt = nil
		t.UpdatedAt = now
		return entry(t.ProcessID, model.TaskPendente,
			fmt.Sprintf("Tarefa %q reaberta", t.Title), actor, now)
	}

	t.Status = model.TaskConcluido
	completedAt := now
	t.CompletedAt = &completedAt
	t.UpdatedAt = now
	return entry(t.ProcessID, model.TaskConcluido,
		fmt.Sprintf("Tarefa %q concluída", t.Title), actor, now)
}

// TaskEdit carries the admin-editable task fields. Nil pointers leave the
// current value untouched; Deadline uses a double pointer so the admin can
// clear an existing deadline.
type TaskEdit struct {
	Title       *string
	Description *string
	Status      *string
	Deadline    **time.Time
}

// EditTask applies an admin edit. Setting the status to concluido stamps
// CompletedAt when missing; moving away from concluido clears it, keeping
// the status/timestamp pairing intact.
func EditTask(t *model.AdminTask, edit TaskEdit, actor Actor, now time.Time) (model.TimelineEntry, error) {
	if edit.Title != nil {
		if strings.TrimSpace(*edit.Title) == "" {
			return model.TimelineEntry{}, apperror.Validationf("task title is required")
		}
		t.Title = *edit.Title
	}
	if edit.Description != nil {
		t.Description = *edit.Description
	}
	if edit.Deadline != nil {
		t.Deadline = *edit.Deadline
	}
	if edit.Status != nil {
		if !model.ValidTaskStatus(*edit.Status) {
			return model.TimelineEntry{}, apperror.Validationf("status de tarefa desconhecido: %q", *edit.Status)
		}
		t.Status = *edit.Status
		if t.Status == model.TaskConcluido {
			if t.CompletedAt == nil {
				completedAt := now
				t.CompletedAt = &completedAt
			}
		} else {
			t.CompletedAt = nil
		}
	}
	t.UpdatedAt = now

	return entry(t.ProcessID, t.Status,
		fmt.Sprintf("Tarefa %q atualizada", t.Title), actor, now), nil
}

// AttachTaskFile appends a client file to the task. Unlike requirements,
// submitting a file never changes the task status; that contrast is
// deliberate — tasks are an admin checklist, not a document topic.
func AttachTaskFile(t *model.AdminTask, f model.FileAttachment, actor Actor, now time.Time) (model.TimelineEntry, error) {
	if t.Status == model.TaskConcluido {
		return model.TimelineEntry{}, apperror.Invariantf("tarefa %q já foi concluída; arquivos não podem ser alterados", t.Title)
	}

	t.Files = append(t.Files, f)
	t.UpdatedAt = now

	return entry(t.ProcessID, t.Status,
		fmt.Sprintf("Arquivo %q enviado para a tarefa %q", f.Name, t.Title), actor, now), nil
}

// RemoveTaskFile detaches a file by id without touching the task status.
func RemoveTaskFile(t *model.AdminTask, fileID uuid.UUID, actor Actor, now time.Time) (model.FileAttachment, model.TimelineEntry, error) {
	if t.Status == model.TaskConcluido {
		return model.FileAttachment{}, model.TimelineEntry{}, apperror.Invariantf("tarefa %q já foi concluída; arquivos não podem ser alterados", t.Title)
	}

	idx := t.FileByID(fileID)
	if idx < 0 {
		return model.FileAttachment{}, model.TimelineEntry{}, apperror.NotFoundf("arquivo %s não encontrado na tarefa %q", fileID, t.Title)
	}

	removed := t.Files[idx]
	t.Files = append(t.Files[:idx], t.Files[idx+1:]...)
	t.UpdatedAt = now

	return removed, entry(t.ProcessID, t.Status,
		fmt.Sprintf("Arquivo %q removido da tarefa %q", removed.Name, t.Title), actor, now), nil
}

// DeleteTaskEntry builds the audit record for an admin task deletion.
func DeleteTaskEntry(t *model.AdminTask, actor Actor, now time.Time) model.TimelineEntry {
	return entry(t.ProcessID, model.ProcessEmAndamento,
		fmt.Sprintf("Tarefa %q excluída", t.Title), actor, now)
}
