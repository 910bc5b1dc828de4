package service

import (
	"context"
	"fmt"
	"time"

	"regulariza/internal/deadline"
	"regulariza/internal/engine"
	"regulariza/internal/model"
	"regulariza/internal/repository"
	"regulariza/pkg/export"

	"github.com/google/uuid"
)

// ExportService renders a full process dossier for download. Read-only: it
// never writes a timeline entry.
type ExportService interface {
	PDF(ctx context.Context, actor engine.Actor, processID uuid.UUID) ([]byte, string, error)
	CSV(ctx context.Context, actor engine.Actor, processID uuid.UUID) ([]byte, string, error)
}

type exportService struct {
	processRepo repository.ProcessRepository
}

func NewExportService(processRepo repository.ProcessRepository) ExportService {
	return &exportService{processRepo: processRepo}
}

func (s *exportService) PDF(ctx context.Context, actor engine.Actor, processID uuid.UUID) ([]byte, string, error) {
	p, err := s.load(ctx, actor, processID)
	if err != nil {
		return nil, "", err
	}
	data, err := export.PDF("Processo: "+p.Title, dossierTables(p, time.Now()))
	if err != nil {
		return nil, "", fmt.Errorf("export process %s: %w", processID, err)
	}
	return data, exportFilename(p, "pdf"), nil
}

func (s *exportService) CSV(ctx context.Context, actor engine.Actor, processID uuid.UUID) ([]byte, string, error) {
	p, err := s.load(ctx, actor, processID)
	if err != nil {
		return nil, "", err
	}
	data, err := export.CSV(dossierTables(p, time.Now()))
	if err != nil {
		return nil, "", fmt.Errorf("export process %s: %w", processID, err)
	}
	return data, exportFilename(p, "csv"), nil
}

func (s *exportService) load(ctx context.Context, actor engine.Actor, processID uuid.UUID) (*model.Process, error) {
	p, err := s.processRepo.FindByIDFull(ctx, processID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProcessAccess(p, actor); err != nil {
		return nil, err
	}
	return p, nil
}

func exportFilename(p *model.Process, ext string) string {
	return fmt.Sprintf("processo_%s_%s.%s", p.ID, p.CreatedAt.Format("2006-01-02"), ext)
}

func deadlineCell(dl *time.Time, now time.Time) string {
	if dl == nil {
		return "-"
	}
	cell := dl.Format("02/01/2006")
	if u := deadline.Classify(dl, now); u != nil {
		cell += " (" + u.Tier.Label() + ")"
	}
	return cell
}

func dossierTables(p *model.Process, now time.Time) []export.Table {
	clientName := "-"
	if p.Client != nil {
		clientName = p.Client.Name
	}

	summary := export.Table{
		Title:   "Resumo",
		Headers: []string{"Campo", "Valor"},
		Rows: [][]string{
			{"Título", p.Title},
			{"Status", model.ProcessStatusLabel(p.Status)},
			{"Cliente", clientName},
			{"Prazo", deadlineCell(p.Deadline, now)},
			{"Criado em", p.CreatedAt.Format("02/01/2006 15:04")},
		},
	}
	if p.ClosedAt != nil {
		summary.Rows = append(summary.Rows, []string{"Concluído em", p.ClosedAt.Format("02/01/2006 15:04")})
	}
	if p.Notes != "" {
		summary.Rows = append(summary.Rows, []string{"Observações", p.Notes})
	}

	requirements := export.Table{
		Title:   "Documentos",
		Headers: []string{"Documento", "Status", "Prazo", "Arquivos", "Comentários"},
	}
	for _, r := range p.Requirements {
		comments := r.AdminComments
		if r.UserNote != "" {
			comments = r.UserNote
		}
		requirements.Rows = append(requirements.Rows, []string{
			r.Name,
			model.RequirementStatusLabel(r.Status),
			deadlineCell(r.Deadline, now),
			fmt.Sprintf("%d", len(r.Files)),
			comments,
		})
	}

	tasks := export.Table{
		Title:   "Tarefas",
		Headers: []string{"Tarefa", "Status", "Prazo", "Concluída em"},
	}
	for _, t := range p.Tasks {
		completed := "-"
		if t.CompletedAt != nil {
			completed = t.CompletedAt.Format("02/01/2006 15:04")
		}
		tasks.Rows = append(tasks.Rows, []string{
			t.Title,
			model.TaskStatusLabel(t.Status),
			deadlineCell(t.Deadline, now),
			completed,
		})
	}

	timeline := export.Table{
		Title:   "Histórico",
		Headers: []string{"Data", "Evento", "Autor"},
	}
	for i := len(p.Timeline) - 1; i >= 0; i-- {
		e := p.Timeline[i]
		timeline.Rows = append(timeline.Rows, []string{
			e.CreatedAt.Format("02/01/2006 15:04"),
			e.Message,
			e.ActorName,
		})
	}

	return []export.Table{summary, requirements, tasks, timeline}
}
