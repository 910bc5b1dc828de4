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

type CreateRequirementRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

type SetRequirementStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	AdminComments string `json:"admin_comments"`
}

type RejectFileRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type DeclareNotHaveRequest struct {
	Note string `json:"note" binding:"required"`
}

// --- Interface ---

type RequirementService interface {
	Create(ctx context.Context, actor engine.Actor, processID uuid.UUID, req CreateRequirementRequest) (RequirementResponse, error)
	AttachFile(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, up FileUpload) (RequirementResponse, error)
	RemoveFile(ctx context.Context, actor engine.Actor, processID, id, fileID uuid.UUID) (RequirementResponse, error)
	RejectFile(ctx context.Context, actor engine.Actor, processID, id, fileID uuid.UUID, req RejectFileRequest) (RequirementResponse, error)
	SetStatus(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, req SetRequirementStatusRequest) (RequirementResponse, error)
	DeclareNotHave(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, req DeclareNotHaveRequest) (RequirementResponse, error)
	Delete(ctx context.Context, actor engine.Actor, processID, id uuid.UUID) error
}

type requirementService struct {
	processRepo     repository.ProcessRepository
	requirementRepo repository.RequirementRepository
	fileRepo        repository.FileRepository
	timelineRepo    repository.TimelineRepository
	txManager       repository.TransactionManager
	blobs           blob.Store
	notifier        Notifier
}

func NewRequirementService(
	processRepo repository.ProcessRepository,
	requirementRepo repository.RequirementRepository,
	fileRepo repository.FileRepository,
	timelineRepo repository.TimelineRepository,
	txManager repository.TransactionManager,
	blobs blob.Store,
	notifier Notifier,
) RequirementService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &requirementService{
		processRepo:     processRepo,
		requirementRepo: requirementRepo,
		fileRepo:        fileRepo,
		timelineRepo:    timelineRepo,
		txManager:       txManager,
		blobs:           blobs,
		notifier:        notifier,
	}
}

// loadScoped fetches the process and checks the actor can touch it. Every
// requirement command starts here so client scoping is enforced uniformly.
func (s *requirementService) loadScoped(ctx context.Context, actor engine.Actor, processID uuid.UUID) (*model.Process, error) {
	p, err := s.processRepo.FindByID(ctx, processID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProcessAccess(p, actor); err != nil {
		return nil, err
	}
	return p, nil
}

// mutate runs one requirement command: load the row fresh inside the
// transaction, apply fn, persist the patched columns, append the timeline
// entry and bump the process version.
func (s *requirementService) mutate(
	ctx context.Context,
	actor engine.Actor,
	processID, id uuid.UUID,
	now time.Time,
	fn func(txCtx context.Context, r *model.Requirement) (model.TimelineEntry, error),
) (RequirementResponse, error) {
	p, err := s.loadScoped(ctx, actor, processID)
	if err != nil {
		return RequirementResponse{}, err
	}

	var result model.Requirement
	var e model.TimelineEntry
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.requirementRepo.FindByID(txCtx, processID, id)
		if findErr != nil {
			return findErr
		}

		fnEntry, fnErr := fn(txCtx, r)
		if fnErr != nil {
			return fnErr
		}
		e = fnEntry

		if saveErr := s.requirementRepo.Save(txCtx, r); saveErr != nil {
			return saveErr
		}
		if appendErr := s.timelineRepo.Append(txCtx, &e); appendErr != nil {
			return appendErr
		}
		if touchErr := s.processRepo.Touch(txCtx, processID, p.Version, now); touchErr != nil {
			return touchErr
		}
		result = *r
		return nil
	})
	if err != nil {
		return RequirementResponse{}, err
	}

	s.notifier.NotifyTimeline(e)
	return toRequirementResponse(result, now), nil
}

func (s *requirementService) Create(ctx context.Context, actor engine.Actor, processID uuid.UUID, req CreateRequirementRequest) (RequirementResponse, error) {
	now := time.Now()

	p, err := s.loadScoped(ctx, actor, processID)
	if err != nil {
		return RequirementResponse{}, err
	}

	requirement, e, err := engine.NewRequirement(processID, req.Name, req.Description, req.Deadline, actor, now)
	if err != nil {
		return RequirementResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.requirementRepo.Create(txCtx, &requirement); createErr != nil {
			return createErr
		}
		if appendErr := s.timelineRepo.Append(txCtx, &e); appendErr != nil {
			return appendErr
		}
		return s.processRepo.Touch(txCtx, processID, p.Version, now)
	})
	if err != nil {
		return RequirementResponse{}, err
	}

	s.notifier.NotifyTimeline(e)
	return toRequirementResponse(requirement, now), nil
}

func (s *requirementService) AttachFile(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, up FileUpload) (RequirementResponse, error) {
	now := time.Now()

	if _, err := s.loadScoped(ctx, actor, processID); err != nil {
		return RequirementResponse{}, err
	}

	prefix := "processes/" + processID.String() + "/requirements/" + id.String()
	file, err := storeUpload(ctx, s.blobs, prefix, up, actor)
	if err != nil {
		return RequirementResponse{}, err
	}
	file.OwnerID = id
	file.OwnerType = model.FileOwnerRequirement

	resp, err := s.mutate(ctx, actor, processID, id, now, func(txCtx context.Context, r *model.Requirement) (model.TimelineEntry, error) {
		e, engErr := engine.AttachRequirementFile(r, file, actor, now)
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
		return RequirementResponse{}, err
	}
	return resp, nil
}

func (s *requirementService) RemoveFile(ctx context.Context, actor engine.Actor, processID, id, fileID uuid.UUID) (RequirementResponse, error) {
	now := time.Now()

	var removed model.FileAttachment
	resp, err := s.mutate(ctx, actor, processID, id, now, func(txCtx context.Context, r *model.Requirement) (model.TimelineEntry, error) {
		f, e, engErr := engine.RemoveRequirementFile(r, fileID, actor, now)
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
		return RequirementResponse{}, err
	}

	if delErr := s.blobs.Delete(ctx, removed.StorageKey); delErr != nil {
		log.Printf("WARNING: deleting blob %s failed: %v", removed.StorageKey, delErr)
	}
	return resp, nil
}

func (s *requirementService) RejectFile(ctx context.Context, actor engine.Actor, processID, id, fileID uuid.UUID, req RejectFileRequest) (RequirementResponse, error) {
	now := time.Now()

	var removed model.FileAttachment
	resp, err := s.mutate(ctx, actor, processID, id, now, func(txCtx context.Context, r *model.Requirement) (model.TimelineEntry, error) {
		f, e, engErr := engine.RejectRequirementFile(r, fileID, req.Reason, actor, now)
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
		return RequirementResponse{}, err
	}

	if delErr := s.blobs.Delete(ctx, removed.StorageKey); delErr != nil {
		log.Printf("WARNING: deleting blob %s failed: %v", removed.StorageKey, delErr)
	}
	return resp, nil
}

func (s *requirementService) SetStatus(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, req SetRequirementStatusRequest) (RequirementResponse, error) {
	now := time.Now()
	return s.mutate(ctx, actor, processID, id, now, func(_ context.Context, r *model.Requirement) (model.TimelineEntry, error) {
		return engine.SetRequirementStatus(r, req.Status, req.AdminComments, actor, now)
	})
}

func (s *requirementService) DeclareNotHave(ctx context.Context, actor engine.Actor, processID, id uuid.UUID, req DeclareNotHaveRequest) (RequirementResponse, error) {
	now := time.Now()
	return s.mutate(ctx, actor, processID, id, now, func(_ context.Context, r *model.Requirement) (model.TimelineEntry, error) {
		return engine.DeclareNotHave(r, req.Note, actor, now)
	})
}

func (s *requirementService) Delete(ctx context.Context, actor engine.Actor, processID, id uuid.UUID) error {
	now := time.Now()

	p, err := s.loadScoped(ctx, actor, processID)
	if err != nil {
		return err
	}

	var keys []string
	var e model.TimelineEntry
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.requirementRepo.FindByID(txCtx, processID, id)
		if findErr != nil {
			return findErr
		}
		for _, f := range r.Files {
			keys = append(keys, f.StorageKey)
		}

		e = engine.DeleteRequirementEntry(r, actor, now)
		if delErr := s.requirementRepo.Delete(txCtx, id); delErr != nil {
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
