package repository

import (
	"context"

	"regulariza/internal/model"
	"regulariza/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimelineRepository is append-only by construction: there is no update or
// delete method, and rows only go away when their whole process does.
type TimelineRepository interface {
	Append(ctx context.Context, entry *model.TimelineEntry) error
	// List returns entries in reverse-chronological display order.
	List(ctx context.Context, processID uuid.UUID, page, limit int) ([]model.TimelineEntry, int64, error)
	// ListChronological returns the full log in append (causal) order.
	ListChronological(ctx context.Context, processID uuid.UUID) ([]model.TimelineEntry, error)
}

type timelineRepository struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) TimelineRepository {
	return &timelineRepository{db: db}
}

func (r *timelineRepository) Append(ctx context.Context, entry *model.TimelineEntry) error {
	if err := GetDB(ctx, r.db).Create(entry).Error; err != nil {
		return apperror.Wrap(apperror.Storage, err, "append timeline entry")
	}
	return nil
}

func (r *timelineRepository) List(ctx context.Context, processID uuid.UUID, page, limit int) ([]model.TimelineEntry, int64, error) {
	var entries []model.TimelineEntry
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.TimelineEntry{}).Where("process_id = ?", processID).Count(&total).Error; err != nil {
		return nil, 0, apperror.Wrap(apperror.Storage, err, "count timeline entries")
	}

	offset := (page - 1) * limit
	if err := db.Where("process_id = ?", processID).
		Order("seq DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, apperror.Wrap(apperror.Storage, err, "list timeline entries")
	}
	return entries, total, nil
}

func (r *timelineRepository) ListChronological(ctx context.Context, processID uuid.UUID) ([]model.TimelineEntry, error) {
	var entries []model.TimelineEntry
	if err := GetDB(ctx, r.db).Where("process_id = ?", processID).
		Order("seq ASC").Find(&entries).Error; err != nil {
		return nil, apperror.Wrap(apperror.Storage, err, "list timeline entries")
	}
	return entries, nil
}
