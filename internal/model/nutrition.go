package model

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealLog 一餐记录。与训练不同，营养记录按日期字符串(YYYY-MM-DD)定位
// swagger:model MealLog
type MealLog struct {
	BaseModel
	UserID uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Date   string     `gorm:"size:10;not null;index:idx_user_meal_date" json:"date"`
	Type   MealType   `gorm:"type:enum('breakfast','lunch','dinner','snack');default:'snack'" json:"type"`
	Items  []FoodItem `gorm:"foreignKey:MealLogID;constraint:OnDelete:CASCADE" json:"items"`
}

func (MealLog) TableName() string {
	return "meal_logs"
}

// FoodItem 一餐中的单个食物条目
// swagger:model FoodItem
type FoodItem struct {
	BaseModel
	MealLogID uint    `gorm:"index;type:bigint unsigned;not null" json:"mealLogId"`
	Name      string  `gorm:"size:100" json:"name"`
	Calories  float64 `gorm:"default:0" json:"calories"`
	Protein   float64 `gorm:"default:0" json:"protein"`
	Carbs     float64 `gorm:"default:0" json:"carbs"`
	Fat       float64 `gorm:"default:0" json:"fat"`
}

func (FoodItem) TableName() string {
	return "food_items"
}

// WaterLog 饮水记录，按日期字符串累计
// swagger:model WaterLog
type WaterLog struct {
	BaseModel
	UserID   uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Date     string `gorm:"size:10;not null;index:idx_user_water_date" json:"date"`
	AmountML int    `gorm:"not null" json:"amountMl"`
}

func (WaterLog) TableName() string {
	return "water_logs"
}

// DailyNutritionTotals 当日营养汇总，供营养评分使用
type DailyNutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Water    int     `json:"water"`
}
