package service

import (
	"testing"
	"time"

	"fitquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSeasonRolloverBeforeExpiry(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Progression{XP: 50000, Rank: model.RankB, SeasonStartDate: &start}

	reset, legacy := CheckSeasonRollover(p, 1, start.AddDate(0, 0, 364))

	assert.False(t, reset)
	assert.Nil(t, legacy)
	assert.Equal(t, 50000, p.XP)
}

func TestCheckSeasonRolloverAtExpiry(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 365)
	p := &model.Progression{
		UserID:          42,
		XP:              92000,
		Rank:            model.RankS,
		SeasonStartDate: &start,
		FitnessStreak:   model.StreakCounter{Current: 30, Longest: 120},
		NutritionStreak: model.StreakCounter{Current: 5, Longest: 40},
	}

	reset, legacy := CheckSeasonRollover(p, 3, now)

	assert.True(t, reset)
	require.NotNil(t, legacy)
	assert.Equal(t, uint(42), legacy.UserID)
	assert.Equal(t, 3, legacy.Season)
	assert.Equal(t, 2024, legacy.Year, "存档年份取赛季开始年份")
	assert.Equal(t, model.RankS, legacy.FinalRank)
	assert.Equal(t, 92000, legacy.FinalXP)

	assert.Equal(t, 0, p.XP)
	assert.Equal(t, model.RankE, p.Rank)
	assert.Equal(t, now, *p.SeasonStartDate)
	assert.Equal(t, 0, p.FitnessStreak.Current)
	assert.Equal(t, 0, p.NutritionStreak.Current)
	assert.Equal(t, 120, p.FitnessStreak.Longest, "历史最长连签跨赛季保留")
	assert.Equal(t, 40, p.NutritionStreak.Longest)
}

func TestCheckSeasonRolloverInitializesMissingStart(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Progression{XP: 100}

	reset, legacy := CheckSeasonRollover(p, 1, now)

	assert.False(t, reset)
	assert.Nil(t, legacy)
	require.NotNil(t, p.SeasonStartDate)
	assert.Equal(t, now, *p.SeasonStartDate)
	assert.Equal(t, 100, p.XP)
}

func TestSeasonInfoFor(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &model.Progression{SeasonStartDate: &start}

	info := seasonInfoFor(p, start.AddDate(0, 0, 100))
	assert.Equal(t, 101, info.Day)
	assert.Equal(t, 265, info.DaysRemaining)

	info = seasonInfoFor(&model.Progression{}, time.Now())
	assert.Nil(t, info.StartDate)
	assert.Equal(t, 0, info.Day)
}
