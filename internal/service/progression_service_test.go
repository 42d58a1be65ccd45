package service

import (
	"os"
	"testing"
	"time"

	"fitquest_backend/internal/model"
	"fitquest_backend/internal/util"
	"fitquest_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fakeStore 内存版进度存储，模拟数据库的读时拷贝和提交语义
type fakeStore struct {
	state            model.Progression
	entries          []*model.XPHistory
	legacy           []model.LegacyAchievement
	restDays         map[string]bool
	persistConflicts int
}

func newFakeStore(p model.Progression) *fakeStore {
	return &fakeStore{state: p, restDays: make(map[string]bool)}
}

func (f *fakeStore) FindByUserID(userID uint) (*model.Progression, error) {
	if f.state.UserID != userID {
		return nil, util.ErrProgressionNotFound
	}
	p := f.state
	return &p, nil
}

func (f *fakeStore) Create(p *model.Progression) error {
	p.ID = 1
	f.state = *p
	return nil
}

func (f *fakeStore) Save(p *model.Progression) error {
	f.state = *p
	return nil
}

func (f *fakeStore) Persist(p *model.Progression, entries []*model.XPHistory, legacy *model.LegacyAchievement) error {
	if f.persistConflicts > 0 {
		f.persistConflicts--
		return util.ErrConcurrentModification
	}
	f.state = *p
	f.entries = append(f.entries, entries...)
	if legacy != nil {
		f.legacy = append(f.legacy, *legacy)
	}
	return nil
}

func (f *fakeStore) Reset(p *model.Progression) error {
	f.state = *p
	f.entries = nil
	return nil
}

func (f *fakeStore) CountLegacy(userID uint) (int64, error) {
	return int64(len(f.legacy)), nil
}

func (f *fakeStore) ListLegacy(userID uint) ([]model.LegacyAchievement, error) {
	return f.legacy, nil
}

func (f *fakeStore) ListEnabledUserIDs() ([]uint, error) {
	if f.state.Enabled {
		return []uint{f.state.UserID}, nil
	}
	return nil, nil
}

func (f *fakeStore) AddRestDay(userID uint, date string) (bool, error) {
	if f.restDays[date] {
		return false, nil
	}
	f.restDays[date] = true
	return true, nil
}

func (f *fakeStore) PruneRestDaysBefore(userID uint, cutoff string) error {
	for d := range f.restDays {
		if d < cutoff {
			delete(f.restDays, d)
		}
	}
	return nil
}

func (f *fakeStore) ListRestDaysBetween(userID uint, from, to string) ([]string, error) {
	var dates []string
	for d := range f.restDays {
		if d >= from && d <= to {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

func (f *fakeStore) CountRestDays(userID uint) (int64, error) {
	return int64(len(f.restDays)), nil
}

type fakeWorkouts struct {
	today   *model.Workout
	history []model.Workout
}

func (f *fakeWorkouts) FindLatestInRange(userID uint, from, to time.Time) (*model.Workout, error) {
	if f.today == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.today, nil
}

func (f *fakeWorkouts) FindInRange(userID uint, from, to time.Time) ([]model.Workout, error) {
	return f.history, nil
}

type fakeNutrition struct {
	meals []model.MealLog
	water int
}

func (f *fakeNutrition) FindMealsByDate(userID uint, date string) ([]model.MealLog, error) {
	return f.meals, nil
}

func (f *fakeNutrition) WaterTotalByDate(userID uint, date string) (int, error) {
	return f.water, nil
}

type fakeUsers struct {
	user *model.User
}

func (f *fakeUsers) FindByID(id uint) (*model.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.user, nil
}

type fakeHistory struct{}

func (f *fakeHistory) FindByUser(userID uint, page, limit int) ([]model.XPHistory, int64, error) {
	return nil, 0, nil
}

func testUser() *model.User {
	u := &model.User{
		Name:     "Tester",
		Email:    "tester@example.com",
		Timezone: "UTC",
		NutritionGoals: model.NutritionGoals{
			Calories: 2200,
			Protein:  150,
			Carbs:    250,
			Fat:      70,
			Water:    3000,
		},
	}
	u.ID = 1
	return u
}

func enabledProgression() model.Progression {
	start := time.Now().AddDate(0, 0, -30)
	p := model.Progression{
		UserID:          1,
		Enabled:         true,
		Rank:            model.RankE,
		SeasonStartDate: &start,
	}
	p.ID = 1
	return p
}

func newTestService(store *fakeStore, workouts *fakeWorkouts, nutrition *fakeNutrition) *ProgressionService {
	return NewProgressionService(store, workouts, nutrition, &fakeHistory{}, &fakeUsers{user: testUser()}, nil, 0)
}

func todayWorkout() *model.Workout {
	return &model.Workout{
		UserID:    1,
		Date:      time.Now(),
		Exercises: []model.WorkoutExercise{{Name: "Bench Press", Sets: 3, Reps: 10, Weight: 60}},
	}
}

func fullDayMeals() []model.MealLog {
	return []model.MealLog{
		{UserID: 1, Items: []model.FoodItem{
			{Calories: 2200, Protein: 150, Carbs: 250, Fat: 70},
		}},
	}
}

func TestRunDailyCalculationWorkoutOnly(t *testing.T) {
	store := newFakeStore(enabledProgression())
	svc := newTestService(store, &fakeWorkouts{today: todayWorkout()}, &fakeNutrition{})

	result, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)

	// 打卡25 + 新动作15
	assert.Equal(t, 40, result.XPAwarded)
	assert.Equal(t, 40, result.DailyTotal)
	assert.Equal(t, 40, result.NewTotal)
	assert.Equal(t, model.RankE, result.Rank)
	assert.False(t, result.RankedUp)
	assert.Equal(t, 0, result.PenaltyApplied)
	assert.Equal(t, 1, result.Streaks.Fitness.Current)
	assert.Equal(t, 0, result.Streaks.Nutrition.Current)

	assert.Equal(t, 40, store.state.XP)
	assert.NotNil(t, store.state.LastDailyCalculationDate)
	require.Len(t, store.entries, 1)
	assert.Equal(t, 40, store.entries[0].Amount)
	assert.Equal(t, model.CategoryFitness, store.entries[0].Category)
}

func TestRunDailyCalculationIdempotent(t *testing.T) {
	store := newFakeStore(enabledProgression())
	svc := newTestService(store, &fakeWorkouts{today: todayWorkout()}, &fakeNutrition{})

	first, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)
	assert.Equal(t, 40, first.XPAwarded)

	second, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)

	assert.Equal(t, 0, second.XPAwarded, "同一天重复结算不重复加分")
	assert.Equal(t, 40, second.NewTotal)
	assert.Equal(t, 1, second.Streaks.Fitness.Current, "连签不重复推进")
	assert.Len(t, store.entries, 1, "不产生重复流水")
}

func TestRunDailyCalculationAwardsDeltaForLateLogs(t *testing.T) {
	// 上午结算过训练40分，下午补记了全达标的饮食
	p := enabledProgression()
	now := time.Now()
	p.XP = 40
	p.DailyXPEarned = 40
	p.LastDailyCalculationDate = &now
	p.FitnessStreak = model.StreakCounter{Current: 1, Longest: 1, LastLog: &now}

	store := newFakeStore(p)
	svc := newTestService(store,
		&fakeWorkouts{today: todayWorkout()},
		&fakeNutrition{meals: fullDayMeals(), water: 3000},
	)

	result, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)

	// 营养 25 + 5*20 = 125，只补发超出部分
	assert.Equal(t, 125, result.XPAwarded)
	assert.Equal(t, 165, result.DailyTotal)
	assert.Equal(t, 165, result.NewTotal)
	assert.Equal(t, 1, result.Streaks.Fitness.Current)
	assert.Equal(t, 1, result.Streaks.Nutrition.Current)
}

func TestRunDailyCalculationAppliesMissedDayPenalty(t *testing.T) {
	p := enabledProgression()
	lastCalc := time.Now().AddDate(0, 0, -3)
	p.XP = 1000
	p.LastDailyCalculationDate = &lastCalc
	p.FitnessStreak = model.StreakCounter{Current: 5, Longest: 5, LastLog: &lastCalc}

	store := newFakeStore(p)
	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	result, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)

	// 中间漏了2天，每天50
	assert.Equal(t, 100, result.PenaltyApplied)
	assert.Equal(t, 900, result.NewTotal)
	assert.Equal(t, 0, result.XPAwarded)
	assert.Equal(t, 0, result.Streaks.Fitness.Current, "漏记后连签中断")

	require.Len(t, store.entries, 1)
	assert.Equal(t, -100, store.entries[0].Amount)
	assert.Equal(t, model.XPLoss, store.entries[0].Type)
	assert.Equal(t, model.CategoryPenalty, store.entries[0].Category)
}

func TestRunDailyCalculationRestDayExemptsPenalty(t *testing.T) {
	p := enabledProgression()
	lastCalc := time.Now().AddDate(0, 0, -3)
	p.XP = 1000
	p.LastDailyCalculationDate = &lastCalc

	store := newFakeStore(p)
	store.restDays[time.Now().AddDate(0, 0, -1).Format("2006-01-02")] = true

	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	result, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)

	// 2天缺勤，其中1天是休息日，只罚1天
	assert.Equal(t, 50, result.PenaltyApplied)
	assert.Equal(t, 950, result.NewTotal)
}

func TestRunDailyCalculationPenaltyNotReoffsetByRerun(t *testing.T) {
	// 漏记惩罚超过当日活动分时，当日活动被惩罚吃掉；
	// 同一天再次结算不能把被吃掉的活动分重新发出来
	p := enabledProgression()
	lastCalc := time.Now().AddDate(0, 0, -3)
	p.XP = 1000
	p.LastDailyCalculationDate = &lastCalc

	store := newFakeStore(p)
	svc := newTestService(store, &fakeWorkouts{today: todayWorkout()}, &fakeNutrition{})

	first, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)
	assert.Equal(t, 100, first.PenaltyApplied)
	assert.Equal(t, 0, first.XPAwarded, "活动40分全部抵扣惩罚")
	assert.Equal(t, 40, first.DailyTotal)
	assert.Equal(t, 900, first.NewTotal)

	second, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)
	assert.Equal(t, 0, second.PenaltyApplied)
	assert.Equal(t, 0, second.XPAwarded, "重算不补偿已被惩罚抵扣的部分")
	assert.Equal(t, 900, second.NewTotal)

	require.Len(t, store.entries, 1)
	assert.Equal(t, model.CategoryPenalty, store.entries[0].Category)
}

func TestRunDailyCalculationActivityPartiallyOffsetsPenalty(t *testing.T) {
	p := enabledProgression()
	lastCalc := time.Now().AddDate(0, 0, -3)
	p.XP = 1000
	p.LastDailyCalculationDate = &lastCalc

	store := newFakeStore(p)
	svc := newTestService(store,
		&fakeWorkouts{today: todayWorkout()},
		&fakeNutrition{meals: fullDayMeals(), water: 3000},
	)

	result, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)

	// 活动165（训练40 + 营养125），惩罚100，净得65
	assert.Equal(t, 100, result.PenaltyApplied)
	assert.Equal(t, 65, result.XPAwarded)
	assert.Equal(t, 165, result.DailyTotal)
	assert.Equal(t, 965, result.NewTotal)

	second, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)
	assert.Equal(t, 0, second.XPAwarded)
	assert.Equal(t, 965, second.NewTotal)
}

func TestRunDailyCalculationPenaltyNeverGoesNegative(t *testing.T) {
	p := enabledProgression()
	lastCalc := time.Now().AddDate(0, 0, -10)
	p.XP = 120
	p.LastDailyCalculationDate = &lastCalc

	store := newFakeStore(p)
	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	result, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)

	assert.Equal(t, 450, result.PenaltyApplied)
	assert.Equal(t, 0, result.NewTotal, "总XP扣到0为止")
}

func TestRunDailyCalculationRankUp(t *testing.T) {
	p := enabledProgression()
	p.XP = 7990
	p.DailyXPEarned = 0

	store := newFakeStore(p)
	svc := newTestService(store, &fakeWorkouts{today: todayWorkout()}, &fakeNutrition{})

	result, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)

	assert.Equal(t, 8030, result.NewTotal)
	assert.Equal(t, model.RankD, result.Rank)
	assert.True(t, result.RankedUp)
	assert.Equal(t, model.RankE, result.OldRank)

	var levelUps int
	for _, e := range store.entries {
		if e.Category == model.CategoryLevelUp {
			levelUps++
			assert.Equal(t, 0, e.Amount)
		}
	}
	assert.Equal(t, 1, levelUps)
}

func TestRunDailyCalculationSeasonRollover(t *testing.T) {
	p := enabledProgression()
	start := time.Now().AddDate(0, 0, -366)
	p.SeasonStartDate = &start
	p.XP = 90000
	p.Rank = model.RankS
	p.FitnessStreak = model.StreakCounter{Current: 12, Longest: 200}

	store := newFakeStore(p)
	svc := newTestService(store, &fakeWorkouts{today: todayWorkout()}, &fakeNutrition{})

	result, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)

	assert.True(t, result.SeasonReset)
	require.Len(t, store.legacy, 1)
	assert.Equal(t, 1, store.legacy[0].Season)
	assert.Equal(t, start.Year(), store.legacy[0].Year)
	assert.Equal(t, model.RankS, store.legacy[0].FinalRank)
	assert.Equal(t, 90040, store.legacy[0].FinalXP, "当天加分计入存档")

	assert.Equal(t, 0, store.state.XP)
	assert.Equal(t, model.RankE, store.state.Rank)
	assert.Equal(t, 0, store.state.FitnessStreak.Current)
	assert.Equal(t, 200, store.state.FitnessStreak.Longest)
}

func TestRunDailyCalculationRetriesOnConflict(t *testing.T) {
	store := newFakeStore(enabledProgression())
	store.persistConflicts = 1

	svc := newTestService(store, &fakeWorkouts{today: todayWorkout()}, &fakeNutrition{})

	result, err := svc.RunDailyCalculation(1)
	require.NoError(t, err)
	assert.Equal(t, 40, result.XPAwarded)
	assert.Len(t, store.entries, 1)
}

func TestRunDailyCalculationNotEnabled(t *testing.T) {
	p := enabledProgression()
	p.Enabled = false
	store := newFakeStore(p)
	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	_, err := svc.RunDailyCalculation(1)
	assert.ErrorIs(t, err, util.ErrProgressionNotEnabled)
}

func TestToggleCreatesAndFlips(t *testing.T) {
	store := &fakeStore{restDays: make(map[string]bool)}
	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	p, err := svc.Toggle(1)
	require.NoError(t, err)
	assert.True(t, p.Enabled)
	assert.NotNil(t, p.SeasonStartDate, "首次启用设置赛季起点")

	p, err = svc.Toggle(1)
	require.NoError(t, err)
	assert.False(t, p.Enabled)

	p, err = svc.Toggle(1)
	require.NoError(t, err)
	assert.True(t, p.Enabled)
}

func TestAwardManualXP(t *testing.T) {
	p := enabledProgression()
	p.XP = 7990
	store := newFakeStore(p)
	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	result, err := svc.AwardManualXP(1, 100, "compensation")
	require.NoError(t, err)
	assert.Equal(t, 8090, result.NewTotal)
	assert.Equal(t, model.RankD, result.Rank)
	assert.True(t, result.RankedUp)

	require.Len(t, store.entries, 1)
	assert.Equal(t, "compensation", store.entries[0].Reason)
}

func TestAwardManualXPClampsAtZero(t *testing.T) {
	p := enabledProgression()
	p.XP = 100
	store := newFakeStore(p)
	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	result, err := svc.AwardManualXP(1, -500, "adjustment")
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewTotal)
}

func TestResetProgress(t *testing.T) {
	p := enabledProgression()
	now := time.Now()
	p.XP = 50000
	p.Rank = model.RankB
	p.DailyXPEarned = 80
	p.LastDailyCalculationDate = &now
	p.FitnessStreak = model.StreakCounter{Current: 30, Longest: 90}

	store := newFakeStore(p)
	store.entries = []*model.XPHistory{{UserID: 1, Amount: 40}}
	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	require.NoError(t, svc.ResetProgress(1))

	assert.Equal(t, 0, store.state.XP)
	assert.Equal(t, model.RankE, store.state.Rank)
	assert.Equal(t, 0, store.state.DailyXPEarned)
	assert.Nil(t, store.state.LastDailyCalculationDate)
	assert.Equal(t, 0, store.state.FitnessStreak.Current)
	assert.Equal(t, 90, store.state.FitnessStreak.Longest, "历史最长保留")
	assert.Empty(t, store.entries, "流水清空")
}

func TestLogRestDayIsIdempotent(t *testing.T) {
	store := newFakeStore(enabledProgression())
	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	first, err := svc.LogRestDay(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalRestDays)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), first.Date)
	assert.NotNil(t, store.state.LastDailyCalculationDate, "休息日预先推进结算日期")

	second, err := svc.LogRestDay(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.TotalRestDays, "同一天重复登记不累计")
}

func TestGetStats(t *testing.T) {
	p := enabledProgression()
	p.XP = 4000
	store := newFakeStore(p)
	store.legacy = []model.LegacyAchievement{{UserID: 1, Season: 1, FinalRank: model.RankB}}

	svc := newTestService(store, &fakeWorkouts{}, &fakeNutrition{})

	stats, err := svc.GetStats(1)
	require.NoError(t, err)

	assert.True(t, stats.Enabled)
	assert.Equal(t, 4000, stats.XP)
	assert.Equal(t, model.RankE, stats.Rank)
	require.NotNil(t, stats.NextRankXP)
	assert.Equal(t, 8000, *stats.NextRankXP)
	assert.InDelta(t, 50.0, stats.Progress, 0.01)
	assert.Len(t, stats.LegacyAchievements, 1)
	assert.Equal(t, 31, stats.Season.Day)
}
