package engine

import (
	"fmt"
	"strings"
	"time"

	"regulariza/internal/model"
	"regulariza/pkg/apperror"

	"github.com/google/uuid"
)

// NewRequirement initializes a pending requirement for a process and returns
// it with its creation timeline entry.
func NewRequirement(processID uuid.UUID, name, description string, dl *time.Time, actor Actor, now time.Time) (model.Requirement, model.TimelineEntry, error) {
	if strings.TrimSpace(name) == "" {
		return model.Requirement{}, model.TimelineEntry{}, apperror.Validationf("requirement name is required")
	}

	req := model.Requirement{
		ProcessID:   processID,
		Name:        name,
		Description: description,
		Status:      model.RequirementPendente,
		Deadline:    dl,
		CreatedAt:   now,
		UpdatedAt:   now,
		Files:       []model.FileAttachment{},
	}
	e := entry(processID, model.RequirementPendente,
		fmt.Sprintf("Documento %q adicionado ao processo", name), actor, now)
	return req, e, nil
}

// AttachRequirementFile appends a file to the requirement and moves it to
// enviado. Blocked while the requirement is aprovado — approved files are
// immutable until an admin reopens the requirement via SetRequirementStatus.
func AttachRequirementFile(r *model.Requirement, f model.FileAttachment, actor Actor, now time.Time) (model.TimelineEntry, error) {
	if r.Status == model.RequirementAprovado {
		return model.TimelineEntry{}, apperror.Invariantf("documento %q já foi aprovado; arquivos não podem ser alterados", r.Name)
	}

	r.Files = append(r.Files, f)
	r.Status = model.RequirementEnviado
	r.UpdatedAt = now

	return entry(r.ProcessID, model.RequirementEnviado,
		fmt.Sprintf("Arquivo %q enviado para o documento %q", f.Name, r.Name), actor, now), nil
}

// RemoveRequirementFile detaches a file by id. Removing the last file of a
// submitted requirement drops it back to pendente. The removed attachment is
// returned so the caller can delete the backing blob in the same command.
func RemoveRequirementFile(r *model.Requirement, fileID uuid.UUID, actor Actor, now time.Time) (model.FileAttachment, model.TimelineEntry, error) {
	if r.Status == model.RequirementAprovado {
		return model.FileAttachment{}, model.TimelineEntry{}, apperror.Invariantf("documento %q já foi aprovado; arquivos não podem ser alterados", r.Name)
	}

	idx := r.FileByID(fileID)
	if idx < 0 {
		return model.FileAttachment{}, model.TimelineEntry{}, apperror.NotFoundf("arquivo %s não encontrado no documento %q", fileID, r.Name)
	}

	removed := r.Files[idx]
	r.Files = append(r.Files[:idx], r.Files[idx+1:]...)
	if len(r.Files) == 0 {
		r.Status = model.RequirementPendente
	}
	r.UpdatedAt = now

	return removed, entry(r.ProcessID, model.ProcessEmAndamento,
		fmt.Sprintf("Arquivo %q removido do documento %q", removed.Name, r.Name), actor, now), nil
}

// RejectRequirementFile removes a single bad file and marks the requirement
// rejeitado, recording the reason in the admin comments. This is the only
// path that clears one file rather than the whole requirement.
func RejectRequirementFile(r *model.Requirement, fileID uuid.UUID, reason string, actor Actor, now time.Time) (model.FileAttachment, model.TimelineEntry, error) {
	if strings.TrimSpace(reason) == "" {
		return model.FileAttachment{}, model.TimelineEntry{}, apperror.Validationf("o motivo da rejeição é obrigatório")
	}
	if r.Status == model.RequirementAprovado {
		return model.FileAttachment{}, model.TimelineEntry{}, apperror.Invariantf("documento %q já foi aprovado; arquivos não podem ser alterados", r.Name)
	}

	idx := r.FileByID(fileID)
	if idx < 0 {
		return model.FileAttachment{}, model.TimelineEntry{}, apperror.NotFoundf("arquivo %s não encontrado no documento %q", fileID, r.Name)
	}

	removed := r.Files[idx]
	r.Files = append(r.Files[:idx], r.Files[idx+1:]...)
	r.Status = model.RequirementRejeitado
	r.AdminComments = fmt.Sprintf("Arquivo %q rejeitado: %s", removed.Name, reason)
	r.UpdatedAt = now

	return removed, entry(r.ProcessID, model.RequirementRejeitado,
		fmt.Sprintf("Arquivo %q do documento %q rejeitado: %s", removed.Name, r.Name, reason), actor, now), nil
}

// SetRequirementStatus is the admin override: any target status is allowed,
// including leaving aprovado, as long as the file/status coupling holds. The
// provided comments replace the current ones (empty clears them).
func SetRequirementStatus(r *model.Requirement, newStatus, adminComments string, actor Actor, now time.Time) (model.TimelineEntry, error) {
	if !model.ValidRequirementStatus(newStatus) {
		return model.TimelineEntry{}, apperror.Validationf("status de documento desconhecido: %q", newStatus)
	}
	if len(r.Files) == 0 && (newStatus == model.RequirementEnviado || newStatus == model.RequirementAprovado) {
		return model.TimelineEntry{}, apperror.Invariantf("documento %q não possui arquivos e não pode ser marcado como %s", r.Name, model.RequirementStatusLabel(newStatus))
	}

	r.Status = newStatus
	r.AdminComments = adminComments
	r.UpdatedAt = now

	msg := fmt.Sprintf("Status do documento %q alterado para %s", r.Name, model.RequirementStatusLabel(newStatus))
	if adminComments != "" {
		msg += ": " + adminComments
	}
	return entry(r.ProcessID, newStatus, msg, actor, now), nil
}

// DeclareNotHave records the client's statement that the document does not
// exist. The explanatory note is mandatory; an approved requirement cannot
// be retracted this way.
func DeclareNotHave(r *model.Requirement, note string, actor Actor, now time.Time) (model.TimelineEntry, error) {
	if strings.TrimSpace(note) == "" {
		return model.TimelineEntry{}, apperror.Validationf("a justificativa é obrigatória ao declarar que não possui o documento")
	}
	if r.Status == model.RequirementAprovado {
		return model.TimelineEntry{}, apperror.Invariantf("documento %q já foi aprovado", r.Name)
	}

	r.Status = model.RequirementNaoTenho
	r.UserNote = note
	r.UpdatedAt = now

	return entry(r.ProcessID, model.RequirementNaoTenho,
		fmt.Sprintf("Cliente declarou não possuir o documento %q: %s", r.Name, note), actor, now), nil
}

// DeleteRequirementEntry builds the audit record for an admin-initiated
// requirement deletion. The row removal itself happens at the service layer.
func DeleteRequirementEntry(r *model.Requirement, actor Actor, now time.Time) model.TimelineEntry {
	return entry(r.ProcessID, model.ProcessEmAndamento,
		fmt.Sprintf("Documento %q removido do processo", r.Name), actor, now)
}
