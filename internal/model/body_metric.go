package model

import "time"

// BodyMetric 体测记录（体重/体脂），可附带进步照片
// swagger:model BodyMetric
type BodyMetric struct {
	BaseModel
	UserID     uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Date       time.Time `gorm:"not null;index" json:"date"`
	WeightKg   float64   `gorm:"default:0" json:"weightKg"`
	BodyFatPct float64   `gorm:"default:0" json:"bodyFatPct"`
	PhotoURL   string    `gorm:"size:255" json:"photoUrl"`
}

func (BodyMetric) TableName() string {
	return "body_metrics"
}
