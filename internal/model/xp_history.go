package model

import "time"

type XPType string

const (
	XPGain XPType = "GAIN"
	XPLoss XPType = "LOSS"
)

type XPCategory string

const (
	CategoryFitness   XPCategory = "FITNESS"
	CategoryNutrition XPCategory = "NUTRITION"
	CategoryStreak    XPCategory = "STREAK"
	CategoryLevelUp   XPCategory = "LEVEL_UP"
	CategoryPenalty   XPCategory = "PENALTY"
	CategoryOther     XPCategory = "OTHER"
	CategoryMixed     XPCategory = "MIXED"
)

// XPHistory XP流水审计记录，创建后不可修改，仅显式重置时删除
// swagger:model XPHistory
type XPHistory struct {
	BaseModel
	UserID   uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Amount   int        `gorm:"not null" json:"amount"` // 有符号，正为获得，负为扣除
	Type     XPType     `gorm:"type:enum('GAIN','LOSS');not null" json:"type"`
	Reason   string     `gorm:"size:255" json:"reason"`
	Category XPCategory `gorm:"size:16;default:'OTHER';index" json:"category"`
	Date     time.Time  `gorm:"index" json:"date"`
}

func (XPHistory) TableName() string {
	return "xp_history"
}

// NewXPHistory 按金额符号推导类型，金额为0时视为非惩罚性的GAIN信息记录
func NewXPHistory(userID uint, amount int, reason string, category XPCategory) *XPHistory {
	t := XPGain
	if amount < 0 {
		t = XPLoss
	}
	return &XPHistory{
		UserID:   userID,
		Amount:   amount,
		Type:     t,
		Reason:   reason,
		Category: category,
		Date:     time.Now(),
	}
}
