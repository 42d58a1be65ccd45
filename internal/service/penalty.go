package service

import (
	"time"
)

const (
	missedDayPenaltyXP   = 50
	restDayRetentionDays = 90 // 休息日滚动保留窗口
	dateLayout           = "2006-01-02"
)

// MissedDays 枚举lastCalc与today之间（两端都不含）的全部日历日，
// 剔除休息日后即为漏记天数。首次结算（无lastCalc）不产生惩罚。
func MissedDays(lastCalc, today time.Time, restDays map[string]bool, loc *time.Location) []string {
	lastDay := startOfDay(lastCalc.In(loc))
	todayDay := startOfDay(today.In(loc))

	var missed []string
	for d := lastDay.AddDate(0, 0, 1); d.Before(todayDay); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(dateLayout)
		if !restDays[dateStr] {
			missed = append(missed, dateStr)
		}
	}
	return missed
}

// PenaltyFor 漏记天数对应的XP惩罚
func PenaltyFor(missedDays int) int {
	return missedDays * missedDayPenaltyXP
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
