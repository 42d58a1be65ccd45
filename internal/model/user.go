package model

import (
	"time"
)

type UserRole string

const (
	Member UserRole = "member"
	Coach  UserRole = "coach"
	Admin  UserRole = "admin"
)

// NutritionGoals 每日营养目标，注册时写入默认值
// swagger:model NutritionGoals
type NutritionGoals struct {
	Calories int `gorm:"default:2200" json:"calories"` // 千卡
	Protein  int `gorm:"default:150" json:"protein"`   // 克
	Carbs    int `gorm:"default:250" json:"carbs"`     // 克
	Fat      int `gorm:"default:70" json:"fat"`        // 克
	Water    int `gorm:"default:3000" json:"water"`    // 毫升
}

// swagger:model User
type User struct {
	BaseModel
	Name           string         `gorm:"size:100;not null" json:"name"`
	Email          string         `gorm:"size:100;unique;not null" json:"email"`
	Password       string         `gorm:"size:100;not null" json:"-"`
	Role           UserRole       `gorm:"type:enum('member','coach','admin');default:'member'" json:"role"`
	Avatar         string         `gorm:"size:255" json:"avatar"`
	Timezone       string         `gorm:"size:64;default:'UTC'" json:"timezone"` // IANA时区，用于解析"今天"
	Disabled       bool           `gorm:"default:false" json:"disabled"`
	NutritionGoals NutritionGoals `gorm:"embedded;embeddedPrefix:goal_" json:"nutritionGoals"`
	LastLogin      time.Time      `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen       time.Time      `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// Location 返回用户时区，解析失败回退UTC
func (u *User) Location() *time.Location {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}
