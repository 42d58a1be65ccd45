package service

import (
	"errors"

	"fitquest_backend/internal/model"
	"fitquest_backend/internal/repository"
	"fitquest_backend/internal/util"

	"gorm.io/gorm"
)

type NutritionService struct {
	NutritionRepo *repository.NutritionRepository
	UserRepo      *repository.UserRepository
}

func NewNutritionService(nutritionRepo *repository.NutritionRepository, userRepo *repository.UserRepository) *NutritionService {
	return &NutritionService{NutritionRepo: nutritionRepo, UserRepo: userRepo}
}

// FoodItemInput 单个食物条目的录入数据
type FoodItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Calories float64 `json:"calories" binding:"min=0"`
	Protein  float64 `json:"protein" binding:"min=0"`
	Carbs    float64 `json:"carbs" binding:"min=0"`
	Fat      float64 `json:"fat" binding:"min=0"`
}

func (s *NutritionService) LogMeal(userID uint, date string, mealType model.MealType, items []FoodItemInput) (*model.MealLog, error) {
	meal := &model.MealLog{
		UserID: userID,
		Date:   date,
		Type:   mealType,
	}
	for _, item := range items {
		meal.Items = append(meal.Items, model.FoodItem{
			Name:     item.Name,
			Calories: item.Calories,
			Protein:  item.Protein,
			Carbs:    item.Carbs,
			Fat:      item.Fat,
		})
	}
	if err := s.NutritionRepo.CreateMeal(meal); err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *NutritionService) ListMealsByDate(userID uint, date string) ([]model.MealLog, error) {
	return s.NutritionRepo.FindMealsByDate(userID, date)
}

func (s *NutritionService) DeleteMeal(userID, mealID uint) error {
	meal, err := s.NutritionRepo.FindMealByID(mealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMealLogNotFound
		}
		return err
	}
	if meal.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.NutritionRepo.DeleteMeal(meal)
}

func (s *NutritionService) AddWater(userID uint, date string, amountML int) (int, error) {
	log := &model.WaterLog{UserID: userID, Date: date, AmountML: amountML}
	if err := s.NutritionRepo.AddWater(log); err != nil {
		return 0, err
	}
	return s.NutritionRepo.WaterTotalByDate(userID, date)
}

// DailySummary 当日营养汇总与目标达成情况
type DailySummary struct {
	Date   string                     `json:"date"`
	Totals model.DailyNutritionTotals `json:"totals"`
	Goals  model.NutritionGoals       `json:"goals"`
	Score  NutritionScore             `json:"score"`
	Meals  []model.MealLog            `json:"meals"`
}

func (s *NutritionService) GetDailySummary(userID uint, date string) (*DailySummary, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	meals, err := s.NutritionRepo.FindMealsByDate(userID, date)
	if err != nil {
		return nil, err
	}
	water, err := s.NutritionRepo.WaterTotalByDate(userID, date)
	if err != nil {
		return nil, err
	}

	totals := SumMeals(meals, water)
	return &DailySummary{
		Date:   date,
		Totals: totals,
		Goals:  user.NutritionGoals,
		Score:  ScoreNutrition(totals, user.NutritionGoals),
		Meals:  meals,
	}, nil
}
