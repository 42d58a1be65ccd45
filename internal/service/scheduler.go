package service

import (
	"errors"

	"fitquest_backend/internal/util"
	"fitquest_backend/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// DailyScheduler 定时扫描所有启用进度的用户并执行每日结算。
// 结算本身幂等，手动触发与定时触发重叠不会重复加分。
type DailyScheduler struct {
	scheduler   gocron.Scheduler
	progression *ProgressionService
}

func NewDailyScheduler(crontab string, progression *ProgressionService) (*DailyScheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	ds := &DailyScheduler{scheduler: s, progression: progression}
	_, err = s.NewJob(
		gocron.CronJob(crontab, false),
		gocron.NewTask(ds.sweep),
	)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (d *DailyScheduler) Start() {
	d.scheduler.Start()
	logger.Log.Info("daily progression scheduler started")
}

func (d *DailyScheduler) Stop() error {
	return d.scheduler.Shutdown()
}

// sweep 单用户失败不影响其他用户
func (d *DailyScheduler) sweep() {
	ids, err := d.progression.Store.ListEnabledUserIDs()
	if err != nil {
		logger.Log.Error("scheduler failed to list enabled users", zap.Error(err))
		return
	}

	logger.Log.Info("daily progression sweep started", zap.Int("users", len(ids)))
	for _, id := range ids {
		if _, err := d.progression.RunDailyCalculation(id); err != nil {
			if errors.Is(err, util.ErrProgressionNotEnabled) {
				continue
			}
			logger.Log.Error("daily calculation failed",
				zap.Uint("userId", id), zap.Error(err))
		}
	}
	logger.Log.Info("daily progression sweep completed")
}
