package service

import "fitquest_backend/internal/model"

// rankThreshold 段位与达到该段位所需的最低XP
type rankThreshold struct {
	Rank  model.Rank
	MinXP int
}

// 段位阈值表，升序排列
var rankTable = []rankThreshold{
	{model.RankE, 0},
	{model.RankD, 8000},
	{model.RankC, 20000},
	{model.RankB, 40000},
	{model.RankA, 60000},
	{model.RankS, 85000},
	{model.RankNational, 115000},
	{model.RankMonarch, 150000},
}

// RankFor 返回阈值不超过xp的最高段位，最低为E
func RankFor(xp int) model.Rank {
	result := rankTable[0].Rank
	for _, t := range rankTable {
		if xp >= t.MinXP {
			result = t.Rank
		}
	}
	return result
}

// NextRankThreshold 返回下一段位的XP阈值，最高段位时第二个返回值为false
func NextRankThreshold(rank model.Rank) (int, bool) {
	for i, t := range rankTable {
		if t.Rank == rank {
			if i+1 < len(rankTable) {
				return rankTable[i+1].MinXP, true
			}
			return 0, false
		}
	}
	return 0, false
}

// RankProgress 当前XP向下一段位的进度百分比，最高段位恒为100
func RankProgress(xp int) float64 {
	next, ok := NextRankThreshold(RankFor(xp))
	if !ok {
		return 100
	}
	progress := float64(xp) / float64(next) * 100
	if progress > 100 {
		progress = 100
	}
	return progress
}

// rankIndex 段位在阈值表中的序号，未知段位按E处理
func rankIndex(rank model.Rank) int {
	for i, t := range rankTable {
		if t.Rank == rank {
			return i
		}
	}
	return 0
}
