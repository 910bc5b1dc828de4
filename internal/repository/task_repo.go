package repository

import (
	"context"

	"regulariza/internal/model"
	"regulariza/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.AdminTask) error
	FindByID(ctx context.Context, processID, id uuid.UUID) (*model.AdminTask, error)
	Save(ctx context.Context, task *model.AdminTask) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.AdminTask) error {
	if err := GetDB(ctx, r.db).Omit("Files").Create(task).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "create task")
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, processID, id uuid.UUID) (*model.AdminTask, error) {
	var task model.AdminTask
	err := GetDB(ctx, r.db).Preload("Files").
		First(&task, "id = ? AND process_id = ?", id, processID).Error
	if err != nil {
		return nil, translateNotFound(err, "tarefa %s", id)
	}
	return &task, nil
}

func (r *taskRepository) Save(ctx context.Context, task *model.AdminTask) error {
	err := GetDB(ctx, r.db).Model(&model.AdminTask{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":        task.Title,
			"description":  task.Description,
			"status":       task.Status,
			"deadline":     task.Deadline,
			"completed_at": task.CompletedAt,
			"updated_at":   task.UpdatedAt,
		}).Error
	if err != nil {
		return apperror.Wrap(apperror.Storage, err, "update task %s", task.ID)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("owner_id = ? AND owner_type = ?", id, model.FileOwnerTask).
		Delete(&model.FileAttachment{}).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "delete task files")
	}
	if err := db.Delete(&model.AdminTask{}, "id = ?", id).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "delete task %s", id)
	}
	return nil
}
