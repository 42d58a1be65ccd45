package model

import "time"

// Workout 一次训练记录，按时间戳定位
// swagger:model Workout
type Workout struct {
	BaseModel
	UserID    uint              `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Date      time.Time         `gorm:"not null;index:idx_user_workout_date" json:"date"`
	Notes     string            `gorm:"type:text" json:"notes"`
	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"exercises"`
}

func (Workout) TableName() string {
	return "workouts"
}

// WorkoutExercise 训练中的单个动作
// swagger:model WorkoutExercise
type WorkoutExercise struct {
	BaseModel
	WorkoutID uint    `gorm:"index;type:bigint unsigned;not null" json:"workoutId"`
	Name      string  `gorm:"size:100;not null" json:"name"`
	Sets      int     `gorm:"default:0" json:"sets"`
	Reps      int     `gorm:"default:0" json:"reps"`
	Weight    float64 `gorm:"default:0" json:"weight"` // 公斤，自重动作可为0
}

func (WorkoutExercise) TableName() string {
	return "workout_exercises"
}

// Volume 训练容量 = 组数×次数×重量，缺失重量按1计，避免自重动作容量归零
func (e *WorkoutExercise) Volume() float64 {
	weight := e.Weight
	if weight <= 0 {
		weight = 1
	}
	return float64(e.Sets) * float64(e.Reps) * weight
}
