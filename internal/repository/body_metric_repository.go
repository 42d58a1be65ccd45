package repository

import (
	"fitquest_backend/internal/model"

	"gorm.io/gorm"
)

type BodyMetricRepository struct {
	DB *gorm.DB
}

func NewBodyMetricRepository(db *gorm.DB) *BodyMetricRepository {
	return &BodyMetricRepository{DB: db}
}

func (r *BodyMetricRepository) Create(metric *model.BodyMetric) error {
	return r.DB.Create(metric).Error
}

func (r *BodyMetricRepository) FindByID(id uint) (*model.BodyMetric, error) {
	var metric model.BodyMetric
	err := r.DB.First(&metric, id).Error
	if err != nil {
		return nil, err
	}
	return &metric, nil
}

func (r *BodyMetricRepository) FindByUser(userID uint, page, limit int) ([]model.BodyMetric, int64, error) {
	var metrics []model.BodyMetric
	var total int64

	query := r.DB.Model(&model.BodyMetric{}).Where("user_id = ?", userID)
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Order("date DESC").
		Limit(limit).Offset(offset).
		Find(&metrics).Error
	return metrics, total, err
}

func (r *BodyMetricRepository) Delete(metric *model.BodyMetric) error {
	return r.DB.Delete(metric).Error
}
