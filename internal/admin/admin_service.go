package admin

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"staffdesk/internal/auth"
	"staffdesk/internal/complaint"
	"staffdesk/internal/domain"
	"staffdesk/internal/leave"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	settingsKey        = "admin:settings"
	leaveStatsKey      = "admin:stats:leaves"
	complaintStatsKey  = "admin:stats:complaints"
	userCountKey       = "admin:stats:users"
	statisticsCacheTTL = 30 * time.Second
)

//go:generate mockgen -source=admin_service.go -destination=mock/admin_service_mock.go -package=mock
type Service interface {
	UserCount(ctx context.Context) (UserCountResponse, error)
	LeaveStatistics(ctx context.Context) (LeaveStatisticsResponse, error)
	ComplaintStatistics(ctx context.Context) (ComplaintStatisticsResponse, error)
	GetSettings(ctx context.Context) (SystemSettings, error)
	SaveSettings(ctx context.Context, settings SystemSettings) error
	ResetSettings(ctx context.Context) (SystemSettings, error)
}

type service struct {
	repo     Repository
	userRepo auth.Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(repo Repository, userRepo auth.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("admin.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("admin.service")
	}
	return &service{
		repo:     repo,
		userRepo: userRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) UserCount(ctx context.Context) (UserCountResponse, error) {
	var resp UserCountResponse
	err := s.cached(ctx, userCountKey, &resp, func() (any, error) {
		counts, err := s.userRepo.CountByRole(ctx)
		if err != nil {
			return nil, err
		}
		out := UserCountResponse{
			Employees: counts[domain.RoleEmployee.String()],
			Managers:  counts[domain.RoleManager.String()],
			Admins:    counts[domain.RoleAdmin.String()],
		}
		out.Total = out.Employees + out.Managers + out.Admins
		return out, nil
	})
	return resp, err
}

func (s *service) LeaveStatistics(ctx context.Context) (LeaveStatisticsResponse, error) {
	var resp LeaveStatisticsResponse
	err := s.cached(ctx, leaveStatsKey, &resp, func() (any, error) {
		counts, err := s.repo.CountLeavesByStatus(ctx)
		if err != nil {
			return nil, err
		}
		out := LeaveStatisticsResponse{
			Pending:  counts[leave.StatusPending.String()],
			Approved: counts[leave.StatusApproved.String()],
			Rejected: counts[leave.StatusRejected.String()],
		}
		out.Total = out.Pending + out.Approved + out.Rejected
		return out, nil
	})
	return resp, err
}

func (s *service) ComplaintStatistics(ctx context.Context) (ComplaintStatisticsResponse, error) {
	var resp ComplaintStatisticsResponse
	err := s.cached(ctx, complaintStatsKey, &resp, func() (any, error) {
		counts, err := s.repo.CountComplaintsByStatus(ctx)
		if err != nil {
			return nil, err
		}
		out := ComplaintStatisticsResponse{
			Open:       counts[complaint.StatusOpen.String()],
			InProgress: counts[complaint.StatusInProgress.String()],
			Resolved:   counts[complaint.StatusResolved.String()],
			Closed:     counts[complaint.StatusClosed.String()],
		}
		out.Total = out.Open + out.InProgress + out.Resolved + out.Closed
		return out, nil
	})
	return resp, err
}

// cached reads a statistics document through Redis. The singleflight
// group keeps concurrent dashboard loads from stampeding the database
// when the cache entry expires.
func (s *service) cached(ctx context.Context, key string, dest any, fill func() (any, error)) error {
	val, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		if err := json.Unmarshal([]byte(val), dest); err == nil {
			return nil
		}
	}

	fresh, err, _ := s.sf.Do(key, func() (any, error) {
		out, err := fill()
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		if err := s.rdb.Set(ctx, key, payload, statisticsCacheTTL).Err(); err != nil {
			s.logger.Warn("statistics cache write failed", zap.String("key", key), zap.Error(err))
		}
		return payload, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(fresh.([]byte), dest)
}

func (s *service) GetSettings(ctx context.Context) (SystemSettings, error) {
	val, err := s.rdb.Get(ctx, settingsKey).Result()
	if errors.Is(err, redis.Nil) {
		return DefaultSettings, nil
	}
	if err != nil {
		return SystemSettings{}, err
	}

	var settings SystemSettings
	if err := json.Unmarshal([]byte(val), &settings); err != nil {
		s.logger.Warn("stored settings malformed, serving defaults", zap.Error(err))
		return DefaultSettings, nil
	}
	return settings, nil
}

func (s *service) SaveSettings(ctx context.Context, settings SystemSettings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, settingsKey, payload, 0).Err(); err != nil {
		s.logger.Error("settings persist failed", zap.Error(err))
		return err
	}
	s.logger.Info("settings saved")
	return nil
}

// ResetSettings restores the compiled-in defaults. This intentionally
// differs from a plain re-read of stored state: reset means factory
// values, not last-saved values.
func (s *service) ResetSettings(ctx context.Context) (SystemSettings, error) {
	if err := s.SaveSettings(ctx, DefaultSettings); err != nil {
		return SystemSettings{}, err
	}
	return DefaultSettings, nil
}
