package service

import (
	"context"
	"log"
	"time"

	"regulariza/internal/engine"
	"regulariza/internal/model"
	"regulariza/internal/repository"
	"regulariza/pkg/blob"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// UpdateTaskRequest distinguishes "absent" from "null" for the deadline:
// leaving the key out keeps the current value, sending null clears it.
type UpdateTaskRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *string     `json:"status"`
	Deadline    **time.Time `json:"deadline"`
}

// --- Interface ---

type TaskService interface {
	Create(ctx context.Context, actor engine.Actor, processID uuid.UUID, req CreateTaskRequest) (TaskResponse, error)
	Update(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, req UpdateTaskRequest) (TaskResponse, error)
	ToggleComplete(ctx context.Context, actor engine.Actor, processID, id uuid.UUID) (TaskResponse, error)
	AttachFile(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, up FileUpload) (TaskResponse, error)
	RemoveFile(ctx context.Context, actor engine.Actor, processID, id, fileID uuid.UUID) (TaskResponse, error)
	Delete(ctx context.Context, actor engine.Actor, processID, id uuid.UUID) error
}

type taskService struct {
	processRepo  repository.ProcessRepository
	taskRepo     repository.TaskRepository
	fileRepo     repository.FileRepository
	timelineRepo repository.TimelineRepository
	txManager    repository.TransactionManager
	blobs        blob.Store
	notifier     Notifier
}

func NewTaskService(
	processRepo repository.ProcessRepository,
	taskRepo repository.TaskRepository,
	fileRepo repository.FileRepository,
	timelineRepo repository.TimelineRepository,
	txManager repository.TransactionManager,
	blobs blob.Store,
	notifier Notifier,
) TaskService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &taskService{
		processRepo:  processRepo,
		taskRepo:     taskRepo,
		fileRepo:     fileRepo,
		timelineRepo: timelineRepo,
		txManager:    txManager,
		blobs:        blobs,
		notifier:     notifier,
	}
}

func (s *taskService) loadScoped(ctx context.Context, actor engine.Actor, processID uuid.UUID) (*model.Process, error) {
	p, err := s.processRepo.FindByID(ctx, processID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProcessAccess(p, actor); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *taskService) mutate(
	ctx context.Context,
	actor engine.Actor,
	processID, id uuid.UUID,
	now time.Time,
	fn func(txCtx context.Context, t *model.AdminTask) (model.TimelineEntry, error),
) (TaskResponse, error) {
	p, err := s.loadScoped(ctx, actor, processID)
	if err != nil {
		return TaskResponse{}, err
	}

	var result model.AdminTask
	var e model.TimelineEntry
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		t, findErr := s.taskRepo.FindByID(txCtx, processID, id)
		if findErr != nil {
			return findErr
		}

		fnEntry, fnErr := fn(txCtx, t)
		if fnErr != nil {
			return fnErr
		}
		e = fnEntry

		if saveErr := s.taskRepo.Save(txCtx, t); saveErr != nil {
			return saveErr
		}
		if appendErr := s.timelineRepo.Append(txCtx, &e); appendErr != nil {
			return appendErr
		}
		if touchErr := s.processRepo.Touch(txCtx, processID, p.Version, now); touchErr != nil {
			return touchErr
		}
		result = *t
		return nil
	})
	if err != nil {
		return TaskResponse{}, err
	}

	s.notifier.NotifyTimeline(e)
	return toTaskResponse(result, now), nil
}

func (s *taskService) Create(ctx context.Context, actor engine.Actor, processID uuid.UUID, req CreateTaskRequest) (TaskResponse, error) {
	now := time.Now()

	p, err := s.loadScoped(ctx, actor, processID)
	if err != nil {
		return TaskResponse{}, err
	}

	task, e, err := engine.NewTask(processID, req.Title, req.Description, req.Deadline, actor, now)
	if err != nil {
		return TaskResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.taskRepo.Create(txCtx, &task); createErr != nil {
			return createErr
		}
		if appendErr := s.timelineRepo.Append(txCtx, &e); appendErr != nil {
			return appendErr
		}
		return s.processRepo.Touch(txCtx, processID, p.Version, now)
	})
	if err != nil {
		return TaskResponse{}, err
	}

	s.notifier.NotifyTimeline(e)
	return toTaskResponse(task, now), nil
}

func (s *taskService) Update(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, req UpdateTaskRequest) (TaskResponse, error) {
	now := time.Now()
	edit := engine.TaskEdit{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
	}
	return s.mutate(ctx, actor, processID, id, now, func(_ context.Context, t *model.AdminTask) (model.TimelineEntry, error) {
		return engine.EditTask(t, edit, actor, now)
	})
}

func (s *taskService) ToggleComplete(ctx context.Context, actor engine.Actor, processID, id uuid.UUID) (TaskResponse, error) {
	now := time.Now()
	return s.mutate(ctx, actor, processID, id, now, func(_ context.Context, t *model.AdminTask) (model.TimelineEntry, error) {
		return engine.ToggleTaskComplete(t, actor, now), nil
	})
}

func (s *taskService) AttachFile(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, up FileUpload) (TaskResponse, error) {
	now := time.Now()

	if _, err := s.loadScoped(ctx, actor, processID); err != nil {
		return TaskResponse{}, err
	}

	prefix := "processes/" + processID.String() + "/tasks/" + id.String()
	file, err := storeUpload(ctx, s.blobs, prefix, up, actor)
	if err != nil {
		return TaskResponse{}, err
	}
	file.OwnerID = id
	file.OwnerType = model.FileOwnerTask

	resp, err := s.mutate(ctx, actor, processID, id, now, func(txCtx context.Context, t *model.AdminTask) (model.TimelineEntry, error) {
		e, engErr := engine.AttachTaskFile(t, file, actor, now)
		if engErr != nil {
			return model.TimelineEntry{}, engErr
		}
		if createErr := s.fileRepo.Create(txCtx, &file); createErr != nil {
			return model.TimelineEntry{}, createErr
		}
		return e, nil
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, file.StorageKey); delErr != nil {
			log.Printf("WARNING: orphan blob %s could not be removed: %v", file.StorageKey, delErr)
		}
		return TaskResponse{}, err
	}
	return resp, nil
}

func (s *taskService) RemoveFile(ctx context.Context, actor engine.Actor, processID, id, fileID uuid.UUID) (TaskResponse, error) {
	now := time.Now()

	var removed model.FileAttachment
	resp, err := s.mutate(ctx, actor, processID, id, now, func(txCtx context.Context, t *model.AdminTask) (model.TimelineEntry, error) {
		f, e, engErr := engine.RemoveTaskFile(t, fileID, actor, now)
		if engErr != nil {
			return model.TimelineEntry{}, engErr
		}
		removed = f
		if delErr := s.fileRepo.Delete(txCtx, f.ID); delErr != nil {
			return model.TimelineEntry{}, delErr
		}
		return e, nil
	})
	if err != nil {
		return TaskResponse{}, err
	}

	if delErr := s.blobs.Delete(ctx, removed.StorageKey); delErr != nil {
		log.Printf("WARNING: deleting blob %s failed: %v", removed.StorageKey, delErr)
	}
	return resp, nil
}

func (s *taskService) Delete(ctx context.Context, actor engine.Actor, processID, id uuid.UUID) error {
	now := time.Now()

	p, err := s.loadScoped(ctx, actor, processID)
	if err != nil {
		return err
	}

	var keys []string
	var e model.TimelineEntry
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		t, findErr := s.taskRepo.FindByID(txCtx, processID, id)
		if findErr != nil {
			return findErr
		}
		for _, f := range t.Files {
			keys = append(keys, f.StorageKey)
		}

		e = engine.DeleteTaskEntry(t, actor, now)
		if delErr := s.taskRepo.Delete(txCtx, id); delErr != nil {
			return delErr
		}
		if appendErr := s.timelineRepo.Append(txCtx, &e); appendErr != nil {
			return appendErr
		}
		return s.processRepo.Touch(txCtx, processID, p.Version, now)
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			log.Printf("WARNING: deleting blob %s failed: %v", key, delErr)
		}
	}
	s.notifier.NotifyTimeline(e)
	return nil
}
