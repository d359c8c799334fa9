package repository

import (
	"context"
	"errors"
	"time"

	"peiban/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CheckinRepository 打卡数据仓储
type CheckinRepository struct {
	db *gorm.DB
}

// NewCheckinRepository 创建CheckinRepository实例
func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

// Create 创建打卡记录，(user_id, checkin_date) 冲突时返回唯一键错误
func (r *CheckinRepository) Create(ctx context.Context, checkin *model.Checkin) error {
	return r.db.WithContext(ctx).Create(checkin).Error
}

// FindByUserAndDate 查询用户某天的打卡记录
func (r *CheckinRepository) FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*model.Checkin, error) {
	var checkin model.Checkin
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND checkin_date = ?", userID, datatypes.Date(date)).
		First(&checkin).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &checkin, nil
}

// ExistsOn 用户某天是否已打卡
func (r *CheckinRepository) ExistsOn(ctx context.Context, userID uint, date time.Time) (bool, error) {
	_, err := r.FindByUserAndDate(ctx, userID, date)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListSince 获取用户从某天（含）开始的打卡记录
func (r *CheckinRepository) ListSince(ctx context.Context, userID uint, since time.Time) ([]model.Checkin, error) {
	var checkins []model.Checkin
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND checkin_date >= ?", userID, datatypes.Date(since)).
		Order("checkin_date ASC").
		Find(&checkins).Error
	return checkins, err
}
