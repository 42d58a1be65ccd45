package repository

import (
	"errors"

	"fitquest_backend/internal/model"
	"fitquest_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressionRepository struct {
	DB *gorm.DB
}

func NewProgressionRepository(db *gorm.DB) *ProgressionRepository {
	return &ProgressionRepository{DB: db}
}

func (r *ProgressionRepository) FindByUserID(userID uint) (*model.Progression, error) {
	var p model.Progression
	err := r.DB.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProgressionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressionRepository) Create(p *model.Progression) error {
	return r.DB.Create(p).Error
}

// saveVersioned 带乐观锁写回：版本不匹配说明被并发修改，整体计算需重试
func saveVersioned(tx *gorm.DB, p *model.Progression) error {
	currentVersion := p.Version
	p.Version = currentVersion + 1

	res := tx.Model(&model.Progression{}).
		Where("id = ? AND version = ?", p.ID, currentVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(p)
	if res.Error != nil {
		p.Version = currentVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		p.Version = currentVersion
		return util.ErrConcurrentModification
	}
	return nil
}

func (r *ProgressionRepository) Save(p *model.Progression) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return saveVersioned(tx, p)
	})
}

// Persist 每日结算的原子落库：状态、流水和赛季存档要么全部提交要么全部回滚
func (r *ProgressionRepository) Persist(p *model.Progression, entries []*model.XPHistory, legacy *model.LegacyAchievement) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, p); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		if legacy != nil {
			if err := tx.Create(legacy).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Reset 清零状态并删除全部XP流水，不可恢复
func (r *ProgressionRepository) Reset(p *model.Progression) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, p); err != nil {
			return err
		}
		return tx.Where("user_id = ?", p.UserID).Delete(&model.XPHistory{}).Error
	})
}

func (r *ProgressionRepository) CountLegacy(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LegacyAchievement{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *ProgressionRepository) ListLegacy(userID uint) ([]model.LegacyAchievement, error) {
	var list []model.LegacyAchievement
	err := r.DB.Where("user_id = ?", userID).Order("season ASC").Find(&list).Error
	return list, err
}

// ListEnabledUserIDs 启用了进度系统的用户，供定时结算扫描
func (r *ProgressionRepository) ListEnabledUserIDs() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Progression{}).Where("enabled = ?", true).Pluck("user_id", &ids).Error
	return ids, err
}

// AddRestDay 幂等登记休息日，返回是否新增
func (r *ProgressionRepository) AddRestDay(userID uint, date string) (bool, error) {
	rest := model.RestDay{UserID: userID, Date: date}
	res := r.DB.Where("user_id = ? AND date = ?", userID, date).FirstOrCreate(&rest)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PruneRestDaysBefore 删除滚动窗口之外的休息日
func (r *ProgressionRepository) PruneRestDaysBefore(userID uint, cutoff string) error {
	return r.DB.Where("user_id = ? AND date < ?", userID, cutoff).Delete(&model.RestDay{}).Error
}

// ListRestDaysBetween 区间内的休息日日期集合（含端点）
func (r *ProgressionRepository) ListRestDaysBetween(userID uint, from, to string) ([]string, error) {
	var dates []string
	err := r.DB.Model(&model.RestDay{}).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Pluck("date", &dates).Error
	return dates, err
}

func (r *ProgressionRepository) CountRestDays(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.RestDay{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
