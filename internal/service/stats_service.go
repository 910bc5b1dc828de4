package service

import (
	"context"

	"regulariza/internal/engine"
	"regulariza/internal/model"
	"regulariza/internal/repository"

	"github.com/google/uuid"
)

// RequirementStats counts document requests per status.
type RequirementStats struct {
	Total     int `json:"total"`
	Pendente  int `json:"pendente"`
	Enviado   int `json:"enviado"`
	Aprovado  int `json:"aprovado"`
	Rejeitado int `json:"rejeitado"`
	NaoTenho  int `json:"nao_tenho"`
}

// TaskStats counts checklist tasks per status. Completion is nil when the
// process has no tasks — "no data" rather than a fabricated zero.
type TaskStats struct {
	Total       int      `json:"total"`
	Pendente    int      `json:"pendente"`
	EmAndamento int      `json:"em_andamento"`
	Concluido   int      `json:"concluido"`
	Completion  *float64 `json:"completion,omitempty"`
}

type ProcessStats struct {
	Requirements RequirementStats `json:"requirements"`
	Tasks        TaskStats        `json:"tasks"`
}

type StatsService interface {
	ForProcess(ctx context.Context, actor engine.Actor, processID uuid.UUID) (ProcessStats, error)
}

type statsService struct {
	processRepo repository.ProcessRepository
}

func NewStatsService(processRepo repository.ProcessRepository) StatsService {
	return &statsService{processRepo: processRepo}
}

func (s *statsService) ForProcess(ctx context.Context, actor engine.Actor, processID uuid.UUID) (ProcessStats, error) {
	p, err := s.processRepo.FindByIDFull(ctx, processID)
	if err != nil {
		return ProcessStats{}, err
	}
	if err := authorizeProcessAccess(p, actor); err != nil {
		return ProcessStats{}, err
	}
	return ProcessStats{
		Requirements: FoldRequirementStats(p.Requirements),
		Tasks:        FoldTaskStats(p.Tasks),
	}, nil
}

// FoldRequirementStats is a pure fold over the requirement collection.
func FoldRequirementStats(reqs []model.Requirement) RequirementStats {
	stats := RequirementStats{Total: len(reqs)}
	for _, r := range reqs {
		switch r.Status {
		case model.RequirementPendente:
			stats.Pendente++
		case model.RequirementEnviado:
			stats.Enviado++
		case model.RequirementAprovado:
			stats.Aprovado++
		case model.RequirementRejeitado:
			stats.Rejeitado++
		case model.RequirementNaoTenho:
			stats.NaoTenho++
		}
	}
	return stats
}

// FoldTaskStats is a pure fold over the task collection.
func FoldTaskStats(tasks []model.AdminTask) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.TaskPendente:
			stats.Pendente++
		case model.TaskEmAndamento:
			stats.EmAndamento++
		case model.TaskConcluido:
			stats.Concluido++
		}
	}
	if stats.Total > 0 {
		completion := float64(stats.Concluido) / float64(stats.Total)
		stats.Completion = &completion
	}
	return stats
}
