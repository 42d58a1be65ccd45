package service

import (
	"math"
	"strings"

	"fitquest_backend/internal/model"
)

const (
	fitnessBaseXP = 25 // 当天有训练记录即得的打卡分
	newExerciseXP = 15 // 对比窗口内首次出现的动作

	improvementBucketPct = 10 // 每提升10%容量
	improvementBucketXP  = 10
	improvementCapXP     = 25

	declineBucketPct = 20 // 每下降20%容量
	declineBucketXP  = 5
	declineCapXP     = 15
)

// ExerciseScoreDetail 单个动作的渐进超负荷评分明细
type ExerciseScoreDetail struct {
	Name           string  `json:"name"`
	CurrentVolume  float64 `json:"currentVolume"`
	PreviousVolume float64 `json:"previousVolume"`
	ChangePercent  float64 `json:"changePercent"`
	XP             int     `json:"xp"`
	Note           string  `json:"note,omitempty"`
}

// FitnessScore 当日训练评分结果
type FitnessScore struct {
	BaseXP        int                   `json:"baseXp"`
	ProgressiveXP int                   `json:"progressiveXp"`
	TotalXP       int                   `json:"totalXp"`
	Details       []ExerciseScoreDetail `json:"details"`
}

// ScoreFitness 对今天的训练做渐进超负荷评分。
// history 为过去14天的训练，按日期从新到旧排列。
func ScoreFitness(today *model.Workout, history []model.Workout) FitnessScore {
	score := FitnessScore{BaseXP: fitnessBaseXP}

	for i := range today.Exercises {
		ex := &today.Exercises[i]
		detail := ExerciseScoreDetail{
			Name:          ex.Name,
			CurrentVolume: ex.Volume(),
		}

		prev := findPreviousExercise(ex.Name, history)
		switch {
		case prev == nil:
			// 窗口内没练过这个动作，按新动作/PR奖励
			detail.XP = newExerciseXP
			detail.Note = "new exercise"
		case prev.Volume() == 0:
			detail.Note = "previous had no volume"
		default:
			detail.PreviousVolume = prev.Volume()
			detail.ChangePercent = (detail.CurrentVolume - detail.PreviousVolume) / detail.PreviousVolume * 100
			detail.XP = progressiveXP(detail.ChangePercent)
		}

		score.ProgressiveXP += detail.XP
		score.Details = append(score.Details, detail)
	}

	score.TotalXP = score.BaseXP + score.ProgressiveXP
	if score.TotalXP < 0 {
		// 打卡分兜底，全线退步也不倒扣
		score.TotalXP = 0
	}
	return score
}

// progressiveXP 容量变化率换算XP：就近取整到档位后封顶
func progressiveXP(changePercent float64) int {
	if changePercent > 0 {
		buckets := int(math.Round(changePercent / improvementBucketPct))
		xp := buckets * improvementBucketXP
		if xp > improvementCapXP {
			xp = improvementCapXP
		}
		return xp
	}
	if changePercent < 0 {
		buckets := int(math.Round(-changePercent / declineBucketPct))
		xp := buckets * declineBucketXP
		if xp > declineCapXP {
			xp = declineCapXP
		}
		return -xp
	}
	return 0
}

// findPreviousExercise 在历史训练中找同名动作最近一次出现（忽略大小写）
func findPreviousExercise(name string, history []model.Workout) *model.WorkoutExercise {
	for i := range history {
		for j := range history[i].Exercises {
			if strings.EqualFold(history[i].Exercises[j].Name, name) {
				return &history[i].Exercises[j]
			}
		}
	}
	return nil
}
