package service

import (
	"testing"
	"time"

	"fitquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceStreakIncrement(t *testing.T) {
	c := &model.StreakCounter{Current: 3, Longest: 10}
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	bonus := AdvanceStreak(c, true, now, time.UTC)

	assert.Equal(t, 0, bonus)
	assert.Equal(t, 4, c.Current)
	assert.Equal(t, 10, c.Longest)
	assert.Equal(t, now, *c.LastLog)
}

func TestAdvanceStreakUpdatesLongest(t *testing.T) {
	c := &model.StreakCounter{Current: 10, Longest: 10}
	AdvanceStreak(c, true, time.Now(), time.UTC)
	assert.Equal(t, 11, c.Current)
	assert.Equal(t, 11, c.Longest)
}

func TestAdvanceStreakBreak(t *testing.T) {
	last := time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC)
	c := &model.StreakCounter{Current: 20, Longest: 20, LastLog: &last}

	bonus := AdvanceStreak(c, false, time.Now(), time.UTC)

	assert.Equal(t, 0, bonus)
	assert.Equal(t, 0, c.Current)
	assert.Equal(t, 20, c.Longest, "断签不影响历史最长")
}

func TestAdvanceStreakMilestones(t *testing.T) {
	cases := []struct {
		day   int
		bonus int
	}{
		{7, 100},
		{14, 300},
		{30, 750},
		{90, 2500},
		{180, 6000},
		{365, 15000},
	}

	for _, c := range cases {
		counter := &model.StreakCounter{Current: c.day - 1, Longest: c.day - 1}
		bonus := AdvanceStreak(counter, true, time.Now(), time.UTC)
		assert.Equal(t, c.bonus, bonus, "day=%d", c.day)
	}
}

func TestAdvanceStreakMilestoneOnlyOnExactDay(t *testing.T) {
	counter := &model.StreakCounter{Current: 7, Longest: 7}
	bonus := AdvanceStreak(counter, true, time.Now(), time.UTC)
	assert.Equal(t, 0, bonus, "第8天不应重复发放第7天的里程碑")
}

func TestAdvanceStreakSameDayIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	c := &model.StreakCounter{Current: 5, Longest: 5}

	AdvanceStreak(c, true, now, time.UTC)
	assert.Equal(t, 6, c.Current)

	// 同一天再次结算不重复推进
	later := now.Add(10 * time.Hour)
	bonus := AdvanceStreak(c, true, later, time.UTC)
	assert.Equal(t, 0, bonus)
	assert.Equal(t, 6, c.Current)

	// 次日正常推进
	nextDay := now.AddDate(0, 0, 1)
	AdvanceStreak(c, true, nextDay, time.UTC)
	assert.Equal(t, 7, c.Current)
}
