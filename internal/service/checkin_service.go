package service

import (
	"context"
	"fmt"
	"time"

	"peiban/internal/model"
	"peiban/internal/repository"
	"peiban/pkg/db"
	"peiban/pkg/metrics"

	"gorm.io/datatypes"
)

// CalendarDays 打卡日历回看天数
const CalendarDays = 90

type CheckinService struct {
	repo *repository.CheckinRepository
	now  func() time.Time
}

func NewCheckinService(repo *repository.CheckinRepository) *CheckinService {
	return &CheckinService{repo: repo, now: time.Now}
}

// Today 服务器本地时区的当天零点
func (s *CheckinService) Today() time.Time {
	y, m, d := s.now().In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Checkin 今日打卡，同一天重复打卡返回 ErrAlreadyCheckedIn
func (s *CheckinService) Checkin(ctx context.Context, userID uint) (*model.Checkin, error) {
	today := s.Today()

	exists, err := s.repo.ExistsOn(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("查询打卡记录失败: %w", err)
	}
	if exists {
		metrics.Checkins.WithLabelValues("duplicate").Inc()
		return nil, ErrAlreadyCheckedIn
	}

	checkin := &model.Checkin{UserID: userID, CheckinDate: datatypes.Date(today)}
	if err := s.repo.Create(ctx, checkin); err != nil {
		// 并发打卡由唯一索引兜底
		if db.IsDuplicateKey(err) {
			metrics.Checkins.WithLabelValues("duplicate").Inc()
			return nil, ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("打卡失败: %w", err)
	}
	metrics.Checkins.WithLabelValues("ok").Inc()
	return checkin, nil
}

// Status 今日是否已打卡
func (s *CheckinService) Status(ctx context.Context, userID uint) (bool, time.Time, error) {
	today := s.Today()
	exists, err := s.repo.ExistsOn(ctx, userID, today)
	if err != nil {
		return false, today, fmt.Errorf("查询打卡记录失败: %w", err)
	}
	return exists, today, nil
}

// Calendar 最近90天的打卡日期，升序去重
func (s *CheckinService) Calendar(ctx context.Context, userID uint) ([]time.Time, error) {
	since := s.Today().AddDate(0, 0, -CalendarDays)
	checkins, err := s.repo.ListSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("查询打卡日历失败: %w", err)
	}

	dates := make([]time.Time, 0, len(checkins))
	seen := make(map[string]struct{}, len(checkins))
	for _, c := range checkins {
		date := time.Time(c.CheckinDate)
		key := date.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, date)
	}
	return dates, nil
}
