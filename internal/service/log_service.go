package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"unicode/utf8"

	"peiban/internal/model"
	"peiban/internal/repository"
	"peiban/pkg/logger"
	"peiban/pkg/metrics"
	"peiban/pkg/upload"

	"go.uber.org/zap"
)

// 分页默认值
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type LogService struct {
	repo    *repository.LogRepository
	uploads *upload.Handler
}

func NewLogService(repo *repository.LogRepository, uploads *upload.Handler) *LogService {
	return &LogService{repo: repo, uploads: uploads}
}

// LogPage 日志分页结果
type LogPage struct {
	Logs    []model.Log
	Total   int64
	Page    int
	PerPage int
	Pages   int
}

// Create 发布日志：配字不超过500字，图片按顺序保存，最多保留9张
func (s *LogService) Create(ctx context.Context, userID uint, content string, files []*multipart.FileHeader) (*model.Log, error) {
	if utf8.RuneCountInString(content) > model.MaxLogContentLength {
		return nil, ErrContentTooLong
	}

	accepted := make([]*multipart.FileHeader, 0, model.MaxLogImages)
	for _, f := range files {
		if len(accepted) == model.MaxLogImages {
			break
		}
		if _, ok := s.uploads.Extension(f.Filename); ok {
			accepted = append(accepted, f)
		}
	}
	if content == "" && len(accepted) == 0 {
		return nil, ErrEmptyLog
	}

	images := make([]string, 0, len(accepted))
	for _, f := range accepted {
		path, err := s.uploads.Save(ctx, f, upload.SubfolderLogs)
		if err != nil {
			s.removeFiles(ctx, images)
			return nil, fmt.Errorf("保存图片失败: %w", err)
		}
		images = append(images, path)
	}

	log := &model.Log{UserID: userID, Content: content}
	if err := log.SetImages(images); err != nil {
		s.removeFiles(ctx, images)
		return nil, err
	}
	if err := s.repo.Create(ctx, log); err != nil {
		s.removeFiles(ctx, images)
		return nil, fmt.Errorf("保存日志失败: %w", err)
	}
	metrics.LogsCreated.Inc()
	return log, nil
}

// NormalizePaging page<1 取1，perPage<1 取20，超过100按100
func NormalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	switch {
	case perPage < 1:
		perPage = DefaultPerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}
	return page, perPage
}

// List 分页获取日志，最新的在前
func (s *LogService) List(ctx context.Context, userID uint, page, perPage int) (*LogPage, error) {
	page, perPage = NormalizePaging(page, perPage)
	logs, total, err := s.repo.ListByUser(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("查询日志失败: %w", err)
	}
	return &LogPage{
		Logs:    logs,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   int((total + int64(perPage) - 1) / int64(perPage)),
	}, nil
}

// Get 获取自己的日志
func (s *LogService) Get(ctx context.Context, userID, logID uint) (*model.Log, error) {
	log, err := s.repo.GetByIDForUser(ctx, logID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLogNotFound
	}
	return log, err
}

// Delete 删除自己的日志及其图片文件
func (s *LogService) Delete(ctx context.Context, userID, logID uint) error {
	log, err := s.Get(ctx, userID, logID)
	if err != nil {
		return err
	}
	s.removeFiles(ctx, log.GetImages())

	err = s.repo.DeleteForUser(ctx, logID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLogNotFound
	}
	return err
}

func (s *LogService) removeFiles(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.uploads.Delete(ctx, key); err != nil {
			logger.Warn("删除图片失败", zap.String("file", key), zap.Error(err))
		}
	}
}
