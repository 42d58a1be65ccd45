package service

import (
	"math"

	"fitquest_backend/internal/model"
)

const (
	nutritionBaseXP = 25 // 当天有饮食记录即得的打卡分
	targetMetXP     = 20 // 每达成一项目标
	macroTolerance  = 0.10
)

// NutritionScore 当日营养评分结果
type NutritionScore struct {
	BaseXP          int      `json:"baseXp"`
	PerformanceXP   int      `json:"performanceXp"`
	TotalXP         int      `json:"totalXp"`
	TargetsMet      int      `json:"targetsMet"`
	TargetsAchieved []string `json:"targetsAchieved"`
}

// ScoreNutrition 按五项独立目标评分：
// 热量/碳水/脂肪在目标±10%内，蛋白质和饮水不低于目标。
func ScoreNutrition(totals model.DailyNutritionTotals, goals model.NutritionGoals) NutritionScore {
	score := NutritionScore{BaseXP: nutritionBaseXP}

	if withinTolerance(totals.Calories, goals.Calories) {
		score.markMet("calories")
	}
	if goals.Protein > 0 && totals.Protein >= float64(goals.Protein) {
		score.markMet("protein")
	}
	if withinTolerance(totals.Carbs, goals.Carbs) {
		score.markMet("carbs")
	}
	if withinTolerance(totals.Fat, goals.Fat) {
		score.markMet("fat")
	}
	if goals.Water > 0 && totals.Water >= goals.Water {
		score.markMet("water")
	}

	score.PerformanceXP = score.TargetsMet * targetMetXP
	score.TotalXP = score.BaseXP + score.PerformanceXP
	return score
}

func (s *NutritionScore) markMet(target string) {
	s.TargetsMet++
	s.TargetsAchieved = append(s.TargetsAchieved, target)
}

func withinTolerance(actual float64, goal int) bool {
	if goal <= 0 {
		return false
	}
	return math.Abs(actual-float64(goal)) <= macroTolerance*float64(goal)
}

// SumMeals 汇总当日全部餐食与饮水
func SumMeals(meals []model.MealLog, waterML int) model.DailyNutritionTotals {
	totals := model.DailyNutritionTotals{Water: waterML}
	for i := range meals {
		for _, item := range meals[i].Items {
			totals.Calories += item.Calories
			totals.Protein += item.Protein
			totals.Carbs += item.Carbs
			totals.Fat += item.Fat
		}
	}
	return totals
}
