package service

import (
	"time"

	"fitquest_backend/internal/model"
)

// 连续打卡里程碑奖励，只在current恰好等于里程碑时触发
var streakMilestones = map[int]int{
	7:   100,
	14:  300,
	30:  750,
	90:  2500,
	180: 6000,
	365: 15000,
}

// AdvanceStreak 推进或中断连续打卡计数器，返回里程碑奖励XP。
// 每次结算每个活动类型各调用一次。同一天已计入的活动不会重复推进，
// 同一天的重复结算因此是幂等的；无活动时走断签分支。
func AdvanceStreak(c *model.StreakCounter, hasActivity bool, now time.Time, loc *time.Location) int {
	if !hasActivity {
		c.Current = 0
		return 0
	}

	if c.LastLog != nil && sameCalendarDay(*c.LastLog, now, loc) {
		// 今天已经计入过
		return 0
	}

	c.Current++
	if c.Current > c.Longest {
		c.Longest = c.Current
	}
	t := now
	c.LastLog = &t

	if bonus, ok := streakMilestones[c.Current]; ok {
		return bonus
	}
	return 0
}
