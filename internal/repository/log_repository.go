package repository

import (
	"context"

	"peiban/internal/model"

	"gorm.io/gorm"
)

// LogRepository 日志数据仓储
type LogRepository struct {
	db *gorm.DB
}

// NewLogRepository 创建LogRepository实例
func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Create 创建日志
func (r *LogRepository) Create(ctx context.Context, log *model.Log) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetByIDForUser 获取属于该用户的日志，不属于该用户时同样返回 ErrNotFound
func (r *LogRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*model.Log, error) {
	var log model.Log
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&log).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &log, nil
}

// ListByUser 分页获取用户日志，按创建时间倒序
func (r *LogRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]model.Log, int64, error) {
	var (
		logs  []model.Log
		total int64
	)
	if err := r.db.WithContext(ctx).Model(&model.Log{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, total, err
}

// DeleteForUser 删除属于该用户的日志
func (r *LogRepository) DeleteForUser(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Log{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
