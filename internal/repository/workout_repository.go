package repository

import (
	"time"

	"fitquest_backend/internal/model"

	"gorm.io/gorm"
)

type WorkoutRepository struct {
	DB *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{DB: db}
}

func (r *WorkoutRepository) Create(workout *model.Workout) error {
	return r.DB.Create(workout).Error
}

func (r *WorkoutRepository) FindByID(id uint) (*model.Workout, error) {
	var workout model.Workout
	err := r.DB.Preload("Exercises").First(&workout, id).Error
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

func (r *WorkoutRepository) FindByUser(userID uint, page, limit int) ([]model.Workout, int64, error) {
	var workouts []model.Workout
	var total int64

	query := r.DB.Model(&model.Workout{}).Where("user_id = ?", userID)
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Preload("Exercises").
		Order("date DESC").
		Limit(limit).Offset(offset).
		Find(&workouts).Error
	return workouts, total, err
}

// FindLatestInRange 取时间范围内最近一次训练（用于"今天的训练"）
func (r *WorkoutRepository) FindLatestInRange(userID uint, from, to time.Time) (*model.Workout, error) {
	var workout model.Workout
	err := r.DB.Preload("Exercises").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date DESC").
		First(&workout).Error
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// FindInRange 取时间范围内全部训练，按日期倒序（用于渐进超负荷对比窗口）
func (r *WorkoutRepository) FindInRange(userID uint, from, to time.Time) ([]model.Workout, error) {
	var workouts []model.Workout
	err := r.DB.Preload("Exercises").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date DESC").
		Find(&workouts).Error
	return workouts, err
}

func (r *WorkoutRepository) Update(workout *model.Workout) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(workout).Error
}

func (r *WorkoutRepository) Delete(workout *model.Workout) error {
	return r.DB.Select("Exercises").Delete(workout).Error
}
