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

// RequirementTemplate seeds one document request at process creation.
type RequirementTemplate struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

type CreateProcessRequest struct {
	Title        string                `json:"title" binding:"required"`
	Description  string                `json:"description"`
	Deadline     *time.Time            `json:"deadline"`
	ClientID     string                `json:"client_id"`
	Requirements []RequirementTemplate `json:"requirements"`
}

type UpdateProcessStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

type CloseProcessRequest struct {
	Notes string `json:"notes"`
}

type ProcessFilter struct {
	Status string
	Page   int
	Limit  int
}

// --- Interface ---

type ProcessService interface {
	Create(ctx context.Context, actor engine.Actor, req CreateProcessRequest) (ProcessResponse, error)
	Get(ctx context.Context, actor engine.Actor, id uuid.UUID) (ProcessResponse, error)
	List(ctx context.Context, actor engine.Actor, filter ProcessFilter) ([]ProcessResponse, int64, error)
	UpdateStatus(ctx context.Context, actor engine.Actor, id uuid.UUID, req UpdateProcessStatusRequest) (ProcessResponse, error)
	Close(ctx context.Context, actor engine.Actor, id uuid.UUID, req CloseProcessRequest) (ProcessResponse, error)
	Delete(ctx context.Context, actor engine.Actor, id uuid.UUID) error
	AttachFile(ctx context.Context, actor engine.Actor, id uuid.UUID, up FileUpload) (FileResponse, error)
	RemoveFile(ctx context.Context, actor engine.Actor, id, fileID uuid.UUID) error
}

type processService struct {
	processRepo     repository.ProcessRepository
	requirementRepo repository.RequirementRepository
	fileRepo        repository.FileRepository
	timelineRepo    repository.TimelineRepository
	userRepo        repository.UserRepository
	txManager       repository.TransactionManager
	blobs           blob.Store
	notifier        Notifier
}

func NewProcessService(
	processRepo repository.ProcessRepository,
	requirementRepo repository.RequirementRepository,
	fileRepo repository.FileRepository,
	timelineRepo repository.TimelineRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	blobs blob.Store,
	notifier Notifier,
) ProcessService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &processService{
		processRepo:     processRepo,
		requirementRepo: requirementRepo,
		fileRepo:        fileRepo,
		timelineRepo:    timelineRepo,
		userRepo:        userRepo,
		txManager:       txManager,
		blobs:           blobs,
		notifier:        notifier,
	}
}

// --- Implementation ---

func (s *processService) Create(ctx context.Context, actor engine.Actor, req CreateProcessRequest) (ProcessResponse, error) {
	now := time.Now()

	var clientID *uuid.UUID
	if req.ClientID != "" {
		parsed, err := uuid.Parse(req.ClientID)
		if err == nil {
			if _, lookupErr := s.userRepo.GetByID(ctx, parsed); lookupErr != nil {
				return ProcessResponse{}, lookupErr
			}
			clientID = &parsed
		}
	}

	process, created, err := engine.NewProcess(req.Title, req.Description, req.Deadline, clientID, actor, now)
	if err != nil {
		return ProcessResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.processRepo.Create(txCtx, &process); createErr != nil {
			return createErr
		}

		// Seeding requirements from the template is part of the same
		// creation command, so only the single creation entry is logged.
		for _, tpl := range req.Requirements {
			requirement, _, tplErr := engine.NewRequirement(process.ID, tpl.Name, tpl.Description, tpl.Deadline, actor, now)
			if tplErr != nil {
				return tplErr
			}
			if createErr := s.requirementRepo.Create(txCtx, &requirement); createErr != nil {
				return createErr
			}
		}

		created.ProcessID = process.ID
		return s.timelineRepo.Append(txCtx, &created)
	})
	if err != nil {
		return ProcessResponse{}, err
	}

	s.notifier.NotifyTimeline(created)
	return s.Get(ctx, actor, process.ID)
}

func (s *processService) Get(ctx context.Context, actor engine.Actor, id uuid.UUID) (ProcessResponse, error) {
	p, err := s.processRepo.FindByIDFull(ctx, id)
	if err != nil {
		return ProcessResponse{}, err
	}
	if err := authorizeProcessAccess(p, actor); err != nil {
		return ProcessResponse{}, err
	}
	return toProcessResponse(*p, time.Now()), nil
}

func (s *processService) List(ctx context.Context, actor engine.Actor, filter ProcessFilter) ([]ProcessResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	// Clients only ever see their own cases.
	var clientID *uuid.UUID
	if actor.Role == model.ActorUser {
		clientID = &actor.ID
	}

	processes, total, err := s.processRepo.List(ctx, clientID, filter.Status, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	result := make([]ProcessResponse, 0, len(processes))
	for _, p := range processes {
		result = append(result, toProcessResponse(p, now))
	}
	return result, total, nil
}

func (s *processService) UpdateStatus(ctx context.Context, actor engine.Actor, id uuid.UUID, req UpdateProcessStatusRequest) (ProcessResponse, error) {
	now := time.Now()

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, findErr := s.processRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}
		version := p.Version

		e, engErr := engine.SetProcessStatus(p, req.Status, req.Message, actor, now)
		if engErr != nil {
			return engErr
		}
		if saveErr := s.processRepo.SaveChecked(txCtx, p, version); saveErr != nil {
			return saveErr
		}
		if appendErr := s.timelineRepo.Append(txCtx, &e); appendErr != nil {
			return appendErr
		}
		s.notifier.NotifyTimeline(e)
		return nil
	})
	if err != nil {
		return ProcessResponse{}, err
	}
	return s.Get(ctx, actor, id)
}

func (s *processService) Close(ctx context.Context, actor engine.Actor, id uuid.UUID, req CloseProcessRequest) (ProcessResponse, error) {
	now := time.Now()

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, findErr := s.processRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}
		version := p.Version

		e, engErr := engine.CloseProcess(p, req.Notes, actor, now)
		if engErr != nil {
			return engErr
		}
		if saveErr := s.processRepo.SaveChecked(txCtx, p, version); saveErr != nil {
			return saveErr
		}
		if appendErr := s.timelineRepo.Append(txCtx, &e); appendErr != nil {
			return appendErr
		}
		s.notifier.NotifyTimeline(e)
		return nil
	})
	if err != nil {
		return ProcessResponse{}, err
	}
	return s.Get(ctx, actor, id)
}

// Delete removes the blobs first and only then the records, so a crash can
// leave at most an orphaned metadata-less blob — never metadata pointing at
// a missing blob. Individual blob failures are logged and skipped; a process
// must never become undeletable because one object is stuck.
func (s *processService) Delete(ctx context.Context, actor engine.Actor, id uuid.UUID) error {
	if _, err := s.processRepo.FindByID(ctx, id); err != nil {
		return err
	}

	prefix := "processes/" + id.String()
	keys, err := s.blobs.ListByPrefix(ctx, prefix)
	if err != nil {
		log.Printf("WARNING: listing blobs for process %s failed: %v", id, err)
	}
	for _, key := range keys {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			log.Printf("WARNING: deleting blob %s failed: %v", key, delErr)
		}
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.processRepo.Delete(txCtx, id)
	})
}

func (s *processService) AttachFile(ctx context.Context, actor engine.Actor, id uuid.UUID, up FileUpload) (FileResponse, error) {
	now := time.Now()

	p, err := s.processRepo.FindByID(ctx, id)
	if err != nil {
		return FileResponse{}, err
	}
	if err := authorizeProcessAccess(p, actor); err != nil {
		return FileResponse{}, err
	}

	file, err := storeUpload(ctx, s.blobs, "processes/"+id.String()+"/files", up, actor)
	if err != nil {
		return FileResponse{}, err
	}
	file.OwnerID = id
	file.OwnerType = model.FileOwnerProcess

	e := engine.AttachProcessFile(p, file, actor, now)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.fileRepo.Create(txCtx, &file); createErr != nil {
			return createErr
		}
		if appendErr := s.timelineRepo.Append(txCtx, &e); appendErr != nil {
			return appendErr
		}
		return s.processRepo.Touch(txCtx, id, p.Version, now)
	})
	if err != nil {
		// roll the blob back so no orphan object survives a failed command
		if delErr := s.blobs.Delete(ctx, file.StorageKey); delErr != nil {
			log.Printf("WARNING: orphan blob %s could not be removed: %v", file.StorageKey, delErr)
		}
		return FileResponse{}, err
	}

	s.notifier.NotifyTimeline(e)
	return toFileResponse(file), nil
}

func (s *processService) RemoveFile(ctx context.Context, actor engine.Actor, id, fileID uuid.UUID) error {
	now := time.Now()

	var removed model.FileAttachment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, findErr := s.processRepo.FindByIDFull(txCtx, id)
		if findErr != nil {
			return findErr
		}
		if authErr := authorizeProcessAccess(p, actor); authErr != nil {
			return authErr
		}
		version := p.Version

		f, e, engErr := engine.RemoveProcessFile(p, fileID, actor, now)
		if engErr != nil {
			return engErr
		}
		removed = f

		if delErr := s.fileRepo.Delete(txCtx, f.ID); delErr != nil {
			return delErr
		}
		if appendErr := s.timelineRepo.Append(txCtx, &e); appendErr != nil {
			return appendErr
		}
		if touchErr := s.processRepo.Touch(txCtx, id, version, now); touchErr != nil {
			return touchErr
		}
		s.notifier.NotifyTimeline(e)
		return nil
	})
	if err != nil {
		return err
	}

	if delErr := s.blobs.Delete(ctx, removed.StorageKey); delErr != nil {
		log.Printf("WARNING: deleting blob %s failed: %v", removed.StorageKey, delErr)
	}
	return nil
}
