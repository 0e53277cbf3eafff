package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
)

// PeriodRepository 时限数据访问接口
type PeriodRepository interface {
	Create(ctx context.Context, period *model.Period) error
	BatchCreate(ctx context.Context, periods []model.Period) error
	GetByID(ctx context.Context, id string) (*model.Period, error)
	// ListByTimetable 按 (sort_order ASC, period_id ASC) 返回时间割的时限
	ListByTimetable(ctx context.Context, timetableID string) ([]model.Period, error)
	// FindClash 查找同一时间割内名称或顺序重复的时限，excludeID 非空时排除自身
	FindClash(ctx context.Context, timetableID, name string, order int, excludeID string) (*model.Period, error)
	Update(ctx context.Context, period *model.Period) error
	Delete(ctx context.Context, id string) error
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo 创建 PeriodRepository 实例
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.Period) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *periodRepo) BatchCreate(ctx context.Context, periods []model.Period) error {
	if len(periods) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&periods).Error
}

func (r *periodRepo) GetByID(ctx context.Context, id string) (*model.Period, error) {
	var period model.Period
	err := r.db.WithContext(ctx).
		Preload("Timetable").
		Where("period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) ListByTimetable(ctx context.Context, timetableID string) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Where("timetable_id = ?", timetableID).
		Order("sort_order ASC, period_id ASC").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) FindClash(ctx context.Context, timetableID, name string, order int, excludeID string) (*model.Period, error) {
	var period model.Period
	db := r.db.WithContext(ctx).
		Where("timetable_id = ? AND (name = ? OR sort_order = ?)", timetableID, name, order)
	if excludeID != "" {
		db = db.Where("period_id <> ?", excludeID)
	}
	if err := db.First(&period).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) Update(ctx context.Context, period *model.Period) error {
	return r.db.WithContext(ctx).Save(period).Error
}

func (r *periodRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("period_id = ?", id).
		Delete(&model.Period{}).Error
}
