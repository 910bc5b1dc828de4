package service

import (
	"context"

	"regulariza/internal/engine"
	"regulariza/internal/repository"

	"github.com/google/uuid"
)

type TimelineService interface {
	// List returns the process history newest-first, paginated.
	List(ctx context.Context, actor engine.Actor, processID uuid.UUID, page, limit int) ([]TimelineEntryResponse, int64, error)
}

type timelineService struct {
	processRepo  repository.ProcessRepository
	timelineRepo repository.TimelineRepository
}

func NewTimelineService(processRepo repository.ProcessRepository, timelineRepo repository.TimelineRepository) TimelineService {
	return &timelineService{processRepo: processRepo, timelineRepo: timelineRepo}
}

func (s *timelineService) List(ctx context.Context, actor engine.Actor, processID uuid.UUID, page, limit int) ([]TimelineEntryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	p, err := s.processRepo.FindByID(ctx, processID)
	if err != nil {
		return nil, 0, err
	}
	if err := authorizeProcessAccess(p, actor); err != nil {
		return nil, 0, err
	}

	entries, total, err := s.timelineRepo.List(ctx, processID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]TimelineEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toTimelineEntryResponse(e))
	}
	return result, total, nil
}
