package repository

import (
	"fitquest_backend/internal/model"

	"gorm.io/gorm"
)

type XPHistoryRepository struct {
	DB *gorm.DB
}

func NewXPHistoryRepository(db *gorm.DB) *XPHistoryRepository {
	return &XPHistoryRepository{DB: db}
}

// FindByUser 按时间倒序分页查询流水。写入与清除走ProgressionRepository的
// Persist/Reset事务，与进度状态同生共死
func (r *XPHistoryRepository) FindByUser(userID uint, page, limit int) ([]model.XPHistory, int64, error) {
	var entries []model.XPHistory
	var total int64

	query := r.DB.Model(&model.XPHistory{}).Where("user_id = ?", userID)
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Order("date DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, total, err
}
