package service

import (
	"time"

	"fitquest_backend/internal/model"
)

const seasonLengthDays = 365

// CheckSeasonRollover 检测赛季是否到期。到期时生成存档条目并重置进度：
// XP清零、段位回E、赛季起点更新、两个连续打卡的current清零（longest保留）。
// seasonNumber 为本次存档的赛季序号（历史存档数+1）。
func CheckSeasonRollover(p *model.Progression, seasonNumber int, now time.Time) (bool, *model.LegacyAchievement) {
	if p.SeasonStartDate == nil {
		t := now
		p.SeasonStartDate = &t
		return false, nil
	}

	daysSinceStart := int(now.Sub(*p.SeasonStartDate).Hours() / 24)
	if daysSinceStart < seasonLengthDays {
		return false, nil
	}

	legacy := &model.LegacyAchievement{
		UserID:      p.UserID,
		Season:      seasonNumber,
		Year:        p.SeasonStartDate.Year(),
		FinalRank:   p.Rank,
		FinalXP:     p.XP,
		CompletedAt: now,
	}

	t := now
	p.XP = 0
	p.Rank = model.RankE
	p.SeasonStartDate = &t
	p.FitnessStreak.Current = 0
	p.NutritionStreak.Current = 0

	return true, legacy
}

// SeasonInfo 当前赛季信息
type SeasonInfo struct {
	StartDate     *time.Time `json:"startDate"`
	Day           int        `json:"day"`
	DaysRemaining int        `json:"daysRemaining"`
}

func seasonInfoFor(p *model.Progression, now time.Time) SeasonInfo {
	info := SeasonInfo{StartDate: p.SeasonStartDate}
	if p.SeasonStartDate == nil {
		return info
	}
	elapsed := int(now.Sub(*p.SeasonStartDate).Hours() / 24)
	info.Day = elapsed + 1
	info.DaysRemaining = seasonLengthDays - elapsed
	if info.DaysRemaining < 0 {
		info.DaysRemaining = 0
	}
	return info
}
