package repository

import (
	"context"
	"errors"

	"peiban/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// UserRepository 用户数据仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建UserRepository实例
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据ID获取用户
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByPhone 根据手机号获取用户
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByOpenID 根据微信OpenID获取用户
func (r *UserRepository) GetByOpenID(ctx context.Context, openID string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("wechat_openid = ?", openID).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpdateProfile 更新资料字段，只写入 fields 中出现的列
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(user).Updates(fields).Error
}

// UpdateAvatar 更新头像路径
func (r *UserRepository) UpdateAvatar(ctx context.Context, user *model.User, avatar string) error {
	return r.db.WithContext(ctx).Model(user).Update("avatar", avatar).Error
}

// DeleteWithData 在同一事务中删除用户及其打卡、日志
// 返回被删除的日志，供调用方清理图片文件
func (r *UserRepository) DeleteWithData(ctx context.Context, userID uint) ([]model.Log, error) {
	var logs []model.Log
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("user_id = ?", userID).Find(&logs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Log{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Checkin{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// notFound 把gorm的未找到错误统一为 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
