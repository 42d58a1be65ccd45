package service

import (
	"errors"
	"mime/multipart"
	"time"

	"fitquest_backend/internal/model"
	"fitquest_backend/internal/repository"
	"fitquest_backend/internal/util"

	"gorm.io/gorm"
)

type BodyMetricService struct {
	MetricRepo *repository.BodyMetricRepository
	Storage    StorageService
}

func NewBodyMetricService(metricRepo *repository.BodyMetricRepository, storage StorageService) *BodyMetricService {
	return &BodyMetricService{MetricRepo: metricRepo, Storage: storage}
}

func (s *BodyMetricService) Create(userID uint, date time.Time, weightKg, bodyFatPct float64, photo *multipart.FileHeader) (*model.BodyMetric, error) {
	metric := &model.BodyMetric{
		UserID:     userID,
		Date:       date,
		WeightKg:   weightKg,
		BodyFatPct: bodyFatPct,
	}

	if photo != nil {
		url, err := s.Storage.Upload(photo, "body_metrics")
		if err != nil {
			return nil, err
		}
		metric.PhotoURL = url
	}

	if err := s.MetricRepo.Create(metric); err != nil {
		return nil, err
	}
	return metric, nil
}

func (s *BodyMetricService) List(userID uint, page, limit int) ([]model.BodyMetric, int64, error) {
	return s.MetricRepo.FindByUser(userID, page, limit)
}

func (s *BodyMetricService) Delete(userID, metricID uint) error {
	metric, err := s.MetricRepo.FindByID(metricID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrBodyMetricNotFound
		}
		return err
	}
	if metric.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.MetricRepo.Delete(metric)
}
