package repository

import (
	"context"

	"regulariza/internal/model"
	"regulariza/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository interface {
	Create(ctx context.Context, f *model.FileAttachment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, f *model.FileAttachment) error {
	if err := GetDB(ctx, r.db).Create(f).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "create file attachment")
	}
	return nil
}

func (r *fileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := GetDB(ctx, r.db).Delete(&model.FileAttachment{}, "id = ?", id).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "delete file attachment %s", id)
	}
	return nil
}
