package service

import (
	"errors"
	"time"

	"fitquest_backend/internal/model"
	"fitquest_backend/internal/repository"
	"fitquest_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ProfileUpdate 个人资料可更新字段，nil表示不修改
type ProfileUpdate struct {
	Name     *string
	Avatar   *string
	Timezone *string
}

func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.Timezone != nil {
		if _, err := time.LoadLocation(*update.Timezone); err != nil {
			return nil, errors.New("invalid timezone")
		}
		user.Timezone = *update.Timezone
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateNutritionGoals 更新每日营养目标，目标变化影响次日起的营养评分
func (s *UserService) UpdateNutritionGoals(userID uint, goals model.NutritionGoals) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	user.NutritionGoals = goals
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
