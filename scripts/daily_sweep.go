// 手动触发每日进度结算脚本
//
// 结算已集成到主应用的定时任务中（默认每天 23:45 自动执行一次）。
// 此脚本仅用于手动触发，例如定时任务漏跑或服务长时间停机后补算。
// 结算是幂等的，重复执行不会重复加分。
//
// 用法: go run scripts/daily_sweep.go

package main

import (
	"log"
	"time"

	"fitquest_backend/internal/config"
	"fitquest_backend/internal/repository"
	"fitquest_backend/internal/service"
	"fitquest_backend/pkg/database"
	"fitquest_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	progressionRepo := repository.NewProgressionRepository(db)
	progression := service.NewProgressionService(
		progressionRepo,
		repository.NewWorkoutRepository(db),
		repository.NewNutritionRepository(db),
		repository.NewXPHistoryRepository(db),
		repository.NewUserRepository(db),
		nil, // 无缓存
		time.Duration(0),
	)

	ids, err := progressionRepo.ListEnabledUserIDs()
	if err != nil {
		log.Fatalf("查询启用用户失败: %v", err)
	}

	log.Printf("手动触发每日结算，共 %d 个用户...", len(ids))
	for _, id := range ids {
		if _, err := progression.RunDailyCalculation(id); err != nil {
			log.Printf("用户 %d 结算失败: %v", id, err)
		}
	}
	log.Println("完成！")
}
