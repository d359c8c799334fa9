package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"peiban/internal/model"
	"peiban/internal/repository"
	"peiban/pkg/logger"
	"peiban/pkg/upload"

	"go.uber.org/zap"
)

// 资料字段长度限制
const (
	maxNicknameLength  = 50
	maxSignatureLength = 200
)

type UserService struct {
	repo    *repository.UserRepository
	uploads *upload.Handler
}

func NewUserService(repo *repository.UserRepository, uploads *upload.Handler) *UserService {
	return &UserService{repo: repo, uploads: uploads}
}

// ProfileUpdate 资料修改，nil 表示不修改该字段
type ProfileUpdate struct {
	Nickname  *string
	Gender    *string
	Signature *string
}

// Get 获取用户
func (s *UserService) Get(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile 修改昵称、性别、个性签名
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*model.User, error) {
	fields := map[string]interface{}{}
	if in.Nickname != nil {
		nickname := strings.TrimSpace(*in.Nickname)
		if utf8.RuneCountInString(nickname) > maxNicknameLength {
			return nil, ErrNicknameTooLong
		}
		fields["nickname"] = nickname
	}
	if in.Gender != nil {
		switch *in.Gender {
		case "", model.GenderMale, model.GenderFemale, model.GenderOther:
			fields["gender"] = *in.Gender
		default:
			return nil, ErrInvalidGender
		}
	}
	if in.Signature != nil {
		if utf8.RuneCountInString(*in.Signature) > maxSignatureLength {
			return nil, ErrSignatureTooLong
		}
		fields["signature"] = *in.Signature
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfile(ctx, user, fields); err != nil {
		return nil, fmt.Errorf("更新资料失败: %w", err)
	}
	return s.Get(ctx, userID)
}

// UploadAvatar 保存新头像后删除旧头像文件
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (*model.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatar, err := s.uploads.Save(ctx, file, upload.SubfolderAvatars)
	if errors.Is(err, upload.ErrUnsupportedFile) {
		return nil, ErrUnsupportedFile
	}
	if err != nil {
		return nil, err
	}

	old := user.Avatar
	if err := s.repo.UpdateAvatar(ctx, user, avatar); err != nil {
		s.removeFile(ctx, avatar)
		return nil, fmt.Errorf("更新头像失败: %w", err)
	}
	user.Avatar = avatar
	s.removeFile(ctx, old)
	return user, nil
}

// DeleteAccount 注销账号：删除用户及其打卡、日志，再清理头像与日志图片
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	logs, err := s.repo.DeleteWithData(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("注销账号失败: %w", err)
	}

	s.removeFile(ctx, user.Avatar)
	for i := range logs {
		for _, image := range logs[i].GetImages() {
			s.removeFile(ctx, image)
		}
	}
	logger.Info("账号已注销", zap.Uint("user_id", userID), zap.Int("logs", len(logs)))
	return nil
}

func (s *UserService) removeFile(ctx context.Context, key string) {
	if err := s.uploads.Delete(ctx, key); err != nil {
		logger.Warn("删除文件失败", zap.String("file", key), zap.Error(err))
	}
}
