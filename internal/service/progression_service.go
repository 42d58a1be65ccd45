package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fitquest_backend/internal/model"
	"fitquest_backend/internal/util"
	"fitquest_backend/pkg/logger"
	"fitquest_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressionStore 进度状态的存取接口，由gorm仓库实现
type ProgressionStore interface {
	FindByUserID(userID uint) (*model.Progression, error)
	Create(p *model.Progression) error
	Save(p *model.Progression) error
	Persist(p *model.Progression, entries []*model.XPHistory, legacy *model.LegacyAchievement) error
	Reset(p *model.Progression) error
	CountLegacy(userID uint) (int64, error)
	ListLegacy(userID uint) ([]model.LegacyAchievement, error)
	ListEnabledUserIDs() ([]uint, error)
	AddRestDay(userID uint, date string) (bool, error)
	PruneRestDaysBefore(userID uint, cutoff string) error
	ListRestDaysBetween(userID uint, from, to string) ([]string, error)
	CountRestDays(userID uint) (int64, error)
}

// WorkoutStore 训练记录查询接口（按时间戳范围）
type WorkoutStore interface {
	FindLatestInRange(userID uint, from, to time.Time) (*model.Workout, error)
	FindInRange(userID uint, from, to time.Time) ([]model.Workout, error)
}

// NutritionStore 营养记录查询接口（按日期字符串）
type NutritionStore interface {
	FindMealsByDate(userID uint, date string) ([]model.MealLog, error)
	WaterTotalByDate(userID uint, date string) (int, error)
}

// HistoryStore XP流水查询接口
type HistoryStore interface {
	FindByUser(userID uint, page, limit int) ([]model.XPHistory, int64, error)
}

// UserStore 用户查询接口
type UserStore interface {
	FindByID(id uint) (*model.User, error)
}

const dailyCalcMaxRetries = 3

// ProgressionService 每日XP结算与段位进度引擎
type ProgressionService struct {
	Store     ProgressionStore
	Workouts  WorkoutStore
	Nutrition NutritionStore
	History   HistoryStore
	Users     UserStore
	Redis     *redis.Client
	CacheTTL  time.Duration

	userLocks sync.Map // userID -> *sync.Mutex
}

func NewProgressionService(
	store ProgressionStore,
	workouts WorkoutStore,
	nutrition NutritionStore,
	history HistoryStore,
	users UserStore,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *ProgressionService {
	return &ProgressionService{
		Store:     store,
		Workouts:  workouts,
		Nutrition: nutrition,
		History:   history,
		Users:     users,
		Redis:     rdb,
		CacheTTL:  cacheTTL,
	}
}

// StreaksSummary 两类连续打卡的当前状态
type StreaksSummary struct {
	Fitness   model.StreakCounter `json:"fitness"`
	Nutrition model.StreakCounter `json:"nutrition"`
}

// DailyCalculationResult 一次每日结算的汇总
type DailyCalculationResult struct {
	XPAwarded      int             `json:"xpAwarded"`
	DailyTotal     int             `json:"dailyTotal"`
	NewTotal       int             `json:"newTotal"`
	Rank           model.Rank      `json:"rank"`
	RankedUp       bool            `json:"rankedUp"`
	OldRank        model.Rank      `json:"oldRank"`
	SeasonReset    bool            `json:"seasonReset"`
	PenaltyApplied int             `json:"penaltyApplied"`
	Fitness        *FitnessScore   `json:"fitness,omitempty"`
	Nutrition      *NutritionScore `json:"nutrition,omitempty"`
	Streaks        StreaksSummary  `json:"streaks"`
}

// ProgressionStats 对外展示的进度总览
type ProgressionStats struct {
	Enabled            bool                      `json:"enabled"`
	XP                 int                       `json:"xp"`
	Rank               model.Rank                `json:"rank"`
	NextRankXP         *int                      `json:"nextRankXp"`
	Progress           float64                   `json:"progress"`
	Streaks            StreaksSummary            `json:"streaks"`
	Season             SeasonInfo                `json:"season"`
	LegacyAchievements []model.LegacyAchievement `json:"legacyAchievements"`
}

// RestDayResult 休息日登记结果
type RestDayResult struct {
	Date          string `json:"date"`
	TotalRestDays int64  `json:"totalRestDays"`
}

// ManualAwardResult 手动加减分结果
type ManualAwardResult struct {
	NewTotal int        `json:"newTotal"`
	Rank     model.Rank `json:"rank"`
	RankedUp bool       `json:"rankedUp"`
}

// lockUser 同一用户的进度操作串行化，避免重复触发时的双重加分
func (s *ProgressionService) lockUser(userID uint) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// RunDailyCalculation 执行一次每日结算。同一天重复调用是安全的：
// 增量按"当日已计入XP"抵扣，重复计算收敛到0而不会重复加分。
// 乐观锁冲突时整体重算，由幂等性保证重试无副作用。
func (s *ProgressionService) RunDailyCalculation(userID uint) (*DailyCalculationResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	var result *DailyCalculationResult
	var err error
	for attempt := 0; attempt < dailyCalcMaxRetries; attempt++ {
		result, err = s.runDailyOnce(userID)
		if !errors.Is(err, util.ErrConcurrentModification) {
			break
		}
		monitoring.DailyCalculationCounter.WithLabelValues("conflict").Inc()
		logger.Log.Warn("daily calculation conflict, retrying",
			zap.Uint("userId", userID), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		monitoring.DailyCalculationCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	monitoring.DailyCalculationCounter.WithLabelValues("ok").Inc()
	s.invalidateStatsCache(userID)
	return result, nil
}

func (s *ProgressionService) runDailyOnce(userID uint) (*DailyCalculationResult, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	p, err := s.Store.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if !p.Enabled {
		return nil, util.ErrProgressionNotEnabled
	}

	// 以用户本地日历日解析"今天"：训练按时间戳范围查询，营养按日期字符串查询
	loc := user.Location()
	now := time.Now().In(loc)
	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	dateStr := now.Format(dateLayout)

	workout, err := s.Workouts.FindLatestInRange(userID, dayStart, dayEnd)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	meals, err := s.Nutrition.FindMealsByDate(userID, dateStr)
	if err != nil {
		return nil, err
	}
	water, err := s.Nutrition.WaterTotalByDate(userID, dateStr)
	if err != nil {
		return nil, err
	}

	hasFitness := workout != nil
	hasNutrition := len(meals) > 0

	var entries []*model.XPHistory
	var reasons []string
	totalXP := 0

	var fitScore *FitnessScore
	if hasFitness {
		history, err := s.Workouts.FindInRange(userID, dayStart.AddDate(0, 0, -14), dayStart)
		if err != nil {
			return nil, err
		}
		fs := ScoreFitness(workout, history)
		fitScore = &fs
		totalXP += fs.TotalXP
		reasons = append(reasons, fmt.Sprintf("fitness +%d", fs.TotalXP))
	}

	var nutScore *NutritionScore
	if hasNutrition {
		ns := ScoreNutrition(SumMeals(meals, water), user.NutritionGoals)
		nutScore = &ns
		totalXP += ns.TotalXP
		reasons = append(reasons, fmt.Sprintf("nutrition +%d", ns.TotalXP))
	}

	// 连签推进每天每类各调用一次，无活动时走断签分支
	if bonus := AdvanceStreak(&p.FitnessStreak, hasFitness, now, loc); bonus > 0 {
		totalXP += bonus
		reasons = append(reasons, fmt.Sprintf("fitness streak +%d", bonus))
		entries = append(entries, model.NewXPHistory(userID, 0,
			fmt.Sprintf("%d-day fitness streak milestone (+%d XP)", p.FitnessStreak.Current, bonus),
			model.CategoryStreak))
	}
	if bonus := AdvanceStreak(&p.NutritionStreak, hasNutrition, now, loc); bonus > 0 {
		totalXP += bonus
		reasons = append(reasons, fmt.Sprintf("nutrition streak +%d", bonus))
		entries = append(entries, model.NewXPHistory(userID, 0,
			fmt.Sprintf("%d-day nutrition streak milestone (+%d XP)", p.NutritionStreak.Current, bonus),
			model.CategoryStreak))
	}

	isNewDay := p.LastDailyCalculationDate == nil || !sameCalendarDay(*p.LastDailyCalculationDate, now, loc)

	// 漏记惩罚只在新的一天且已有历史结算时评估。当日活动先抵扣惩罚，
	// 被抵扣的部分照常计入结算基线，重算不会把惩罚补偿回去
	penalty := 0
	if isNewDay && p.LastDailyCalculationDate != nil {
		missed, err := s.missedDaysFor(userID, *p.LastDailyCalculationDate, now, loc)
		if err != nil {
			return nil, err
		}
		if len(missed) > 0 {
			penalty = PenaltyFor(len(missed))
			p.XP -= penalty
			if p.XP < 0 {
				p.XP = 0
			}
			entries = append(entries, model.NewXPHistory(userID, -penalty,
				fmt.Sprintf("Missed logging for %d day(s)", len(missed)),
				model.CategoryPenalty))
		}
	}

	if isNewDay {
		p.DailyXPEarned = 0
	}

	// 增量结算：只补发超出当日已结算部分，本次惩罚计入补发基线。
	// 记录被删导致总分回落时钳到0，重算永不静默扣分，扣分只走显式惩罚路径
	xpToAdd := totalXP - penalty - p.DailyXPEarned
	if xpToAdd < 0 {
		xpToAdd = 0
	}

	if xpToAdd > 0 {
		p.XP += xpToAdd
		t := now
		p.LastXPUpdate = &t
		entries = append(entries, model.NewXPHistory(userID, xpToAdd,
			"Daily activity: "+strings.Join(reasons, ", "),
			dailyCategory(hasFitness, hasNutrition)))
	}

	// 基线始终推进到当日已计算的活动总分，包括被惩罚抵扣的部分，
	// 同一天的下一次结算以此为起点
	if totalXP > p.DailyXPEarned {
		p.DailyXPEarned = totalXP
	}

	// 无论是否加分都推进结算日期，下一次调用的新日/惩罚判断才正确
	calcTime := now
	p.LastDailyCalculationDate = &calcTime

	oldRank := p.Rank
	p.Rank = RankFor(p.XP)
	rankedUp := p.Rank != oldRank
	if rankedUp && rankIndex(p.Rank) > rankIndex(oldRank) {
		entries = append(entries, model.NewXPHistory(userID, 0,
			fmt.Sprintf("Rank up: %s → %s", oldRank, p.Rank),
			model.CategoryLevelUp))
	}

	seasonCount, err := s.Store.CountLegacy(userID)
	if err != nil {
		return nil, err
	}
	seasonReset, legacy := CheckSeasonRollover(p, int(seasonCount)+1, now)

	if err := s.Store.Persist(p, entries, legacy); err != nil {
		return nil, err
	}

	if xpToAdd > 0 {
		monitoring.XPAwardedCounter.Add(float64(xpToAdd))
	}
	logger.Log.Info("daily calculation completed",
		zap.Uint("userId", userID),
		zap.Int("xpAwarded", xpToAdd),
		zap.Int("penalty", penalty),
		zap.String("rank", string(p.Rank)),
		zap.Bool("seasonReset", seasonReset))

	return &DailyCalculationResult{
		XPAwarded:      xpToAdd,
		DailyTotal:     p.DailyXPEarned,
		NewTotal:       p.XP,
		Rank:           p.Rank,
		RankedUp:       rankedUp,
		OldRank:        oldRank,
		SeasonReset:    seasonReset,
		PenaltyApplied: penalty,
		Fitness:        fitScore,
		Nutrition:      nutScore,
		Streaks:        StreaksSummary{Fitness: p.FitnessStreak, Nutrition: p.NutritionStreak},
	}, nil
}

func (s *ProgressionService) missedDaysFor(userID uint, lastCalc, now time.Time, loc *time.Location) ([]string, error) {
	from := startOfDay(lastCalc.In(loc)).AddDate(0, 0, 1).Format(dateLayout)
	to := startOfDay(now).AddDate(0, 0, -1).Format(dateLayout)
	restList, err := s.Store.ListRestDaysBetween(userID, from, to)
	if err != nil {
		return nil, err
	}
	restDays := make(map[string]bool, len(restList))
	for _, d := range restList {
		restDays[d] = true
	}
	return MissedDays(lastCalc, now, restDays, loc), nil
}

func dailyCategory(hasFitness, hasNutrition bool) model.XPCategory {
	switch {
	case hasFitness && hasNutrition:
		return model.CategoryMixed
	case hasFitness:
		return model.CategoryFitness
	case hasNutrition:
		return model.CategoryNutrition
	default:
		return model.CategoryOther
	}
}

// Toggle 启停进度系统。首次启用时设置赛季起点；停用不清除已积累的XP与流水
func (s *ProgressionService) Toggle(userID uint) (*model.Progression, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	p, err := s.Store.FindByUserID(userID)
	if errors.Is(err, util.ErrProgressionNotFound) {
		now := time.Now()
		p = &model.Progression{
			UserID:          userID,
			Enabled:         true,
			Rank:            model.RankE,
			SeasonStartDate: &now,
		}
		if err := s.Store.Create(p); err != nil {
			return nil, err
		}
		s.invalidateStatsCache(userID)
		return p, nil
	}
	if err != nil {
		return nil, err
	}

	p.Enabled = !p.Enabled
	if p.Enabled && p.SeasonStartDate == nil {
		now := time.Now()
		p.SeasonStartDate = &now
	}
	if err := s.Store.Save(p); err != nil {
		return nil, err
	}
	s.invalidateStatsCache(userID)
	return p, nil
}

// AwardManualXP 手动加减任意XP（管理操作），重算段位并记入流水
func (s *ProgressionService) AwardManualXP(userID uint, amount int, reason string) (*ManualAwardResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	p, err := s.Store.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if !p.Enabled {
		return nil, util.ErrProgressionNotEnabled
	}

	oldRank := p.Rank
	p.XP += amount
	if p.XP < 0 {
		p.XP = 0
	}
	p.Rank = RankFor(p.XP)
	t := time.Now()
	p.LastXPUpdate = &t

	entry := model.NewXPHistory(userID, amount, reason, model.CategoryOther)
	if err := s.Store.Persist(p, []*model.XPHistory{entry}, nil); err != nil {
		return nil, err
	}

	s.invalidateStatsCache(userID)
	return &ManualAwardResult{
		NewTotal: p.XP,
		Rank:     p.Rank,
		RankedUp: p.Rank != oldRank,
	}, nil
}

// ResetProgress 清零XP/段位/当日计数/连签current并删除全部流水，不可恢复。
// longest连签与赛季存档保留。
func (s *ProgressionService) ResetProgress(userID uint) error {
	unlock := s.lockUser(userID)
	defer unlock()

	p, err := s.Store.FindByUserID(userID)
	if err != nil {
		return err
	}

	p.XP = 0
	p.Rank = model.RankE
	p.DailyXPEarned = 0
	p.LastDailyCalculationDate = nil
	p.LastXPUpdate = nil
	p.FitnessStreak.Current = 0
	p.NutritionStreak.Current = 0

	if err := s.Store.Reset(p); err != nil {
		return err
	}
	s.invalidateStatsCache(userID)
	return nil
}

// LogRestDay 幂等登记今天为休息日并预先推进结算日期，豁免当天的漏记惩罚
func (s *ProgressionService) LogRestDay(userID uint) (*RestDayResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	p, err := s.Store.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if !p.Enabled {
		return nil, util.ErrProgressionNotEnabled
	}

	loc := user.Location()
	now := time.Now().In(loc)
	dateStr := now.Format(dateLayout)

	added, err := s.Store.AddRestDay(userID, dateStr)
	if err != nil {
		return nil, err
	}

	calcTime := now
	p.LastDailyCalculationDate = &calcTime

	var entries []*model.XPHistory
	if added {
		entries = append(entries, model.NewXPHistory(userID, 0,
			"Rest day logged for "+dateStr, model.CategoryOther))
	}
	if err := s.Store.Persist(p, entries, nil); err != nil {
		return nil, err
	}

	cutoff := now.AddDate(0, 0, -restDayRetentionDays).Format(dateLayout)
	if err := s.Store.PruneRestDaysBefore(userID, cutoff); err != nil {
		logger.Log.Warn("rest day prune failed", zap.Uint("userId", userID), zap.Error(err))
	}

	total, err := s.Store.CountRestDays(userID)
	if err != nil {
		return nil, err
	}

	s.invalidateStatsCache(userID)
	return &RestDayResult{Date: dateStr, TotalRestDays: total}, nil
}

// GetStats 进度总览，短TTL缓存
func (s *ProgressionService) GetStats(userID uint) (*ProgressionStats, error) {
	if cached := s.statsFromCache(userID); cached != nil {
		return cached, nil
	}

	p, err := s.Store.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	legacy, err := s.Store.ListLegacy(userID)
	if err != nil {
		return nil, err
	}

	stats := &ProgressionStats{
		Enabled:            p.Enabled,
		XP:                 p.XP,
		Rank:               p.Rank,
		Progress:           RankProgress(p.XP),
		Streaks:            StreaksSummary{Fitness: p.FitnessStreak, Nutrition: p.NutritionStreak},
		Season:             seasonInfoFor(p, time.Now()),
		LegacyAchievements: legacy,
	}
	if next, ok := NextRankThreshold(p.Rank); ok {
		stats.NextRankXP = &next
	}

	s.statsToCache(userID, stats)
	return stats, nil
}

// GetHistory XP流水分页
func (s *ProgressionService) GetHistory(userID uint, page, limit int) ([]model.XPHistory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.History.FindByUser(userID, page, limit)
}

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("progression:stats:%d", userID)
}

func (s *ProgressionService) statsFromCache(userID uint) *ProgressionStats {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return nil
	}
	val, err := s.Redis.Get(context.Background(), statsCacheKey(userID)).Result()
	if err != nil {
		return nil
	}
	var stats ProgressionStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *ProgressionService) statsToCache(userID uint, stats *ProgressionStats) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	s.Redis.Set(context.Background(), statsCacheKey(userID), data, s.CacheTTL)
}

func (s *ProgressionService) invalidateStatsCache(userID uint) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), statsCacheKey(userID))
}
