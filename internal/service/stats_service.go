package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/repository"
	"gymtrack/backend/pkg/redis"
)

// walkInPresenceWindow 散客没有离场记录，按最近到场时间估算在场
const walkInPresenceWindow = 2 * time.Hour

// StatsService 前台看板统计接口（实时投影，不落库）
type StatsService interface {
	Today(ctx context.Context, tenantID string) (*dto.TodayStatsResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService 创建 StatsService 实例；rdb 可为 nil（直接走数据库统计）
func NewStatsService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, rdb: rdb, logger: logger, now: time.Now}
}

func (s *statsService) Today(ctx context.Context, tenantID string) (*dto.TodayStatsResponse, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	checkins, err := s.todayCheckins(ctx, tenantID, now, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	present, err := s.repo.Booking.CountPresentNow(ctx, tenantID, dayStart, now.Format("15:04"))
	if err != nil {
		return nil, err
	}
	walkIns, err := s.repo.Attendance.CountBetween(ctx, tenantID, now.Add(-walkInPresenceWindow), now)
	if err != nil {
		return nil, err
	}

	ongoing, err := s.repo.Course.CountOngoing(ctx, tenantID, dayStart, now.Format("15:04"))
	if err != nil {
		return nil, err
	}

	return &dto.TodayStatsResponse{
		Date:             now.Format(dateLayout),
		TodayCheckIns:    checkins,
		CurrentlyPresent: present + walkIns,
		OngoingCourses:   ongoing,
	}, nil
}

// todayCheckins 优先读 redis 计数，未命中或未配置时回落到数据库
func (s *statsService) todayCheckins(ctx context.Context, tenantID string, now, dayStart, dayEnd time.Time) (int64, error) {
	if s.rdb != nil {
		count, ok, err := s.rdb.GetCheckinCount(ctx, tenantID, now)
		if err != nil {
			s.logger.Warn("读取签到计数失败，回落数据库", zap.Error(err))
		} else if ok {
			return count, nil
		}
	}

	booked, err := s.repo.Booking.CountCheckedInBetween(ctx, tenantID, dayStart, dayEnd)
	if err != nil {
		return 0, err
	}
	walkIn, err := s.repo.Attendance.CountBetween(ctx, tenantID, dayStart, dayEnd)
	if err != nil {
		return 0, err
	}
	return booked + walkIn, nil
}
