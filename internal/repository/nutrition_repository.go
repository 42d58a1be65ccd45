package repository

import (
	"fitquest_backend/internal/model"

	"gorm.io/gorm"
)

type NutritionRepository struct {
	DB *gorm.DB
}

func NewNutritionRepository(db *gorm.DB) *NutritionRepository {
	return &NutritionRepository{DB: db}
}

func (r *NutritionRepository) CreateMeal(meal *model.MealLog) error {
	return r.DB.Create(meal).Error
}

func (r *NutritionRepository) FindMealByID(id uint) (*model.MealLog, error) {
	var meal model.MealLog
	err := r.DB.Preload("Items").First(&meal, id).Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// FindMealsByDate 按日期字符串(YYYY-MM-DD)取当日全部餐食
func (r *NutritionRepository) FindMealsByDate(userID uint, date string) ([]model.MealLog, error) {
	var meals []model.MealLog
	err := r.DB.Preload("Items").
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at ASC").
		Find(&meals).Error
	return meals, err
}

func (r *NutritionRepository) DeleteMeal(meal *model.MealLog) error {
	return r.DB.Select("Items").Delete(meal).Error
}

func (r *NutritionRepository) AddWater(log *model.WaterLog) error {
	return r.DB.Create(log).Error
}

// WaterTotalByDate 当日饮水总量(毫升)
func (r *NutritionRepository) WaterTotalByDate(userID uint, date string) (int, error) {
	var total int64
	err := r.DB.Model(&model.WaterLog{}).
		Where("user_id = ? AND date = ?", userID, date).
		Select("COALESCE(SUM(amount_ml), 0)").
		Scan(&total).Error
	return int(total), err
}
