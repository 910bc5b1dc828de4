package repository

import (
	"context"

	"regulariza/internal/model"
	"regulariza/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequirementRepository interface {
	Create(ctx context.Context, req *model.Requirement) error
	// FindByID loads one requirement with its files, scoped to a process so
	// a stale or foreign id cannot cross aggregate boundaries.
	FindByID(ctx context.Context, processID, id uuid.UUID) (*model.Requirement, error)
	// Save patches the scalar columns of one requirement row. File rows are
	// managed individually — the collection is never rewritten wholesale.
	Save(ctx context.Context, req *model.Requirement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type requirementRepository struct {
	db *gorm.DB
}

func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &requirementRepository{db: db}
}

func (r *requirementRepository) Create(ctx context.Context, req *model.Requirement) error {
	if err := GetDB(ctx, r.db).Omit("Files").Create(req).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "create requirement")
	}
	return nil
}

func (r *requirementRepository) FindByID(ctx context.Context, processID, id uuid.UUID) (*model.Requirement, error) {
	var req model.Requirement
	err := GetDB(ctx, r.db).Preload("Files").
		First(&req, "id = ? AND process_id = ?", id, processID).Error
	if err != nil {
		return nil, translateNotFound(err, "documento %s", id)
	}
	return &req, nil
}

func (r *requirementRepository) Save(ctx context.Context, req *model.Requirement) error {
	err := GetDB(ctx, r.db).Model(&model.Requirement{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"name":           req.Name,
			"description":    req.Description,
			"status":         req.Status,
			"admin_comments": req.AdminComments,
			"user_note":      req.UserNote,
			"deadline":       req.Deadline,
			"updated_at":     req.UpdatedAt,
		}).Error
	if err != nil {
		return apperror.Wrap(apperror.Storage, err, "update requirement %s", req.ID)
	}
	return nil
}

func (r *requirementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("owner_id = ? AND owner_type = ?", id, model.FileOwnerRequirement).
		Delete(&model.FileAttachment{}).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "delete requirement files")
	}
	if err := db.Delete(&model.Requirement{}, "id = ?", id).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "delete requirement %s", id)
	}
	return nil
}
