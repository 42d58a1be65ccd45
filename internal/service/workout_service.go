package service

import (
	"errors"
	"time"

	"fitquest_backend/internal/model"
	"fitquest_backend/internal/repository"
	"fitquest_backend/internal/util"

	"gorm.io/gorm"
)

type WorkoutService struct {
	WorkoutRepo *repository.WorkoutRepository
}

func NewWorkoutService(workoutRepo *repository.WorkoutRepository) *WorkoutService {
	return &WorkoutService{WorkoutRepo: workoutRepo}
}

// ExerciseInput 单个动作的录入数据
type ExerciseInput struct {
	Name   string  `json:"name" binding:"required"`
	Sets   int     `json:"sets" binding:"min=0"`
	Reps   int     `json:"reps" binding:"min=0"`
	Weight float64 `json:"weight" binding:"min=0"`
}

func (s *WorkoutService) Create(userID uint, date time.Time, notes string, exercises []ExerciseInput) (*model.Workout, error) {
	workout := &model.Workout{
		UserID: userID,
		Date:   date,
		Notes:  notes,
	}
	for _, e := range exercises {
		workout.Exercises = append(workout.Exercises, model.WorkoutExercise{
			Name:   e.Name,
			Sets:   e.Sets,
			Reps:   e.Reps,
			Weight: e.Weight,
		})
	}
	if err := s.WorkoutRepo.Create(workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *WorkoutService) List(userID uint, page, limit int) ([]model.Workout, int64, error) {
	return s.WorkoutRepo.FindByUser(userID, page, limit)
}

// Get 带归属校验的单条查询
func (s *WorkoutService) Get(userID, workoutID uint) (*model.Workout, error) {
	workout, err := s.WorkoutRepo.FindByID(workoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return workout, nil
}

// Update 整体替换动作列表
func (s *WorkoutService) Update(userID, workoutID uint, date time.Time, notes string, exercises []ExerciseInput) (*model.Workout, error) {
	workout, err := s.Get(userID, workoutID)
	if err != nil {
		return nil, err
	}

	workout.Date = date
	workout.Notes = notes
	workout.Exercises = workout.Exercises[:0]
	for _, e := range exercises {
		workout.Exercises = append(workout.Exercises, model.WorkoutExercise{
			WorkoutID: workout.ID,
			Name:      e.Name,
			Sets:      e.Sets,
			Reps:      e.Reps,
			Weight:    e.Weight,
		})
	}

	if err := s.WorkoutRepo.Update(workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *WorkoutService) Delete(userID, workoutID uint) error {
	workout, err := s.Get(userID, workoutID)
	if err != nil {
		return err
	}
	return s.WorkoutRepo.Delete(workout)
}
