package repository

import (
	"context"
	"time"

	"regulariza/internal/model"
	"regulariza/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcessRepository interface {
	Create(ctx context.Context, p *model.Process) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Process, error)
	// FindByIDFull loads the whole aggregate: requirements, tasks, files
	// and timeline, each with their own attachments.
	FindByIDFull(ctx context.Context, id uuid.UUID) (*model.Process, error)
	List(ctx context.Context, clientID *uuid.UUID, status string, page, limit int) ([]model.Process, int64, error)
	// SaveChecked persists the process scalar fields and bumps the version,
	// failing with a conflict when expectedVersion no longer matches.
	SaveChecked(ctx context.Context, p *model.Process, expectedVersion int64) error
	// Touch bumps version and updated_at under the same optimistic check.
	// Every child mutation goes through it so concurrent writers working
	// from stale aggregate reads surface as conflicts instead of lost updates.
	Touch(ctx context.Context, id uuid.UUID, expectedVersion int64, now time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type processRepository struct {
	db *gorm.DB
}

func NewProcessRepository(db *gorm.DB) ProcessRepository {
	return &processRepository{db: db}
}

func (r *processRepository) Create(ctx context.Context, p *model.Process) error {
	if err := GetDB(ctx, r.db).Create(p).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "create process")
	}
	return nil
}

func (r *processRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Process, error) {
	var p model.Process
	if err := GetDB(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "processo %s", id)
	}
	return &p, nil
}

func (r *processRepository) FindByIDFull(ctx context.Context, id uuid.UUID) (*model.Process, error) {
	var p model.Process
	err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("Requirements", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Requirements.Files").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Tasks.Files").
		Preload("Files").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err, "processo %s", id)
	}
	return &p, nil
}

func (r *processRepository) List(ctx context.Context, clientID *uuid.UUID, status string, page, limit int) ([]model.Process, int64, error) {
	var processes []model.Process
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Process{})
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Wrap(apperror.Storage, err, "count processes")
	}

	offset := (page - 1) * limit
	if err := query.Preload("Client").Order("updated_at DESC").Offset(offset).Limit(limit).Find(&processes).Error; err != nil {
		return nil, 0, apperror.Wrap(apperror.Storage, err, "list processes")
	}
	return processes, total, nil
}

func (r *processRepository) SaveChecked(ctx context.Context, p *model.Process, expectedVersion int64) error {
	res := GetDB(ctx, r.db).Model(&model.Process{}).
		Where("id = ? AND version = ?", p.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":       p.Title,
			"description": p.Description,
			"status":      p.Status,
			"deadline":    p.Deadline,
			"notes":       p.Notes,
			"closed_at":   p.ClosedAt,
			"updated_at":  p.UpdatedAt,
			"version":     expectedVersion + 1,
		})
	if res.Error != nil {
		return apperror.Wrap(apperror.Storage, res.Error, "update process %s", p.ID)
	}
	if res.RowsAffected == 0 {
		return apperror.New(apperror.Conflict, "processo %s foi alterado por outro usuário; recarregue e tente novamente", p.ID)
	}
	p.Version = expectedVersion + 1
	return nil
}

func (r *processRepository) Touch(ctx context.Context, id uuid.UUID, expectedVersion int64, now time.Time) error {
	res := GetDB(ctx, r.db).Model(&model.Process{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"updated_at": now,
			"version":    expectedVersion + 1,
		})
	if res.Error != nil {
		return apperror.Wrap(apperror.Storage, res.Error, "touch process %s", id)
	}
	if res.RowsAffected == 0 {
		return apperror.New(apperror.Conflict, "processo %s foi alterado por outro usuário; recarregue e tente novamente", id)
	}
	return nil
}

func (r *processRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)

	// Children first: the schema cascades on process deletion, but file
	// attachments hang off three different owner types, so they are removed
	// explicitly along with everything else in the surrounding transaction.
	var reqIDs []uuid.UUID
	if err := db.Model(&model.Requirement{}).Where("process_id = ?", id).Pluck("id", &reqIDs).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "collect requirement ids")
	}
	var taskIDs []uuid.UUID
	if err := db.Model(&model.AdminTask{}).Where("process_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "collect task ids")
	}

	ownerIDs := append(append([]uuid.UUID{id}, reqIDs...), taskIDs...)
	steps := []func() error{
		func() error { return db.Where("owner_id IN ?", ownerIDs).Delete(&model.FileAttachment{}).Error },
		func() error { return db.Where("process_id = ?", id).Delete(&model.TimelineEntry{}).Error },
		func() error { return db.Where("process_id = ?", id).Delete(&model.Requirement{}).Error },
		func() error { return db.Where("process_id = ?", id).Delete(&model.AdminTask{}).Error },
		func() error { return db.Delete(&model.Process{}, "id = ?", id).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return apperror.Wrap(apperror.Storage, err, "delete process %s", id)
		}
	}
	return nil
}
