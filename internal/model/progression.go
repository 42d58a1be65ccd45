package model

import "time"

// Rank 段位，由累计XP经静态阈值表推导
type Rank string

const (
	RankE        Rank = "E"
	RankD        Rank = "D"
	RankC        Rank = "C"
	RankB        Rank = "B"
	RankA        Rank = "A"
	RankS        Rank = "S"
	RankNational Rank = "National"
	RankMonarch  Rank = "Monarch"
)

// StreakCounter 连续打卡计数器，不变式：Longest >= Current
type StreakCounter struct {
	Current int        `gorm:"default:0" json:"current"`
	Longest int        `gorm:"default:0" json:"longest"`
	LastLog *time.Time `json:"lastLog"`
}

// Progression 每个用户一行的进度状态，赛季边界时重置
// swagger:model Progression
type Progression struct {
	BaseModel
	UserID                   uint          `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	Enabled                  bool          `gorm:"default:false" json:"enabled"`
	XP                       int           `gorm:"default:0" json:"xp"`
	Rank                     Rank          `gorm:"size:16;default:'E'" json:"rank"`
	SeasonStartDate          *time.Time    `json:"seasonStartDate"`
	DailyXPEarned            int           `gorm:"default:0" json:"dailyXpEarned"`            // 当日已计入的XP，新的一天清零
	LastDailyCalculationDate *time.Time    `json:"lastDailyCalculationDate"`                  // 上次结算完成的日期，用于新日检测与漏记天数
	LastXPUpdate             *time.Time    `json:"lastXpUpdate"`
	FitnessStreak            StreakCounter `gorm:"embedded;embeddedPrefix:fitness_" json:"fitnessStreak"`
	NutritionStreak          StreakCounter `gorm:"embedded;embeddedPrefix:nutrition_" json:"nutritionStreak"`
	Version                  int           `gorm:"default:0" json:"-"` // 乐观锁
}

func (Progression) TableName() string {
	return "progressions"
}

// RestDay 豁免惩罚的休息日，保留90天滚动窗口
type RestDay struct {
	BaseModel
	UserID uint   `gorm:"index:idx_user_rest_date,unique;type:bigint unsigned;not null" json:"userId"`
	Date   string `gorm:"size:10;not null;index:idx_user_rest_date,unique" json:"date"`
}

func (RestDay) TableName() string {
	return "rest_days"
}

// LegacyAchievement 赛季结算存档，只增不改
// swagger:model LegacyAchievement
type LegacyAchievement struct {
	BaseModel
	UserID      uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Season      int       `gorm:"not null" json:"season"`
	Year        int       `gorm:"not null" json:"year"`
	FinalRank   Rank      `gorm:"size:16" json:"finalRank"`
	FinalXP     int       `gorm:"default:0" json:"finalXp"`
	CompletedAt time.Time `json:"completedAt"`
}

func (LegacyAchievement) TableName() string {
	return "legacy_achievements"
}
