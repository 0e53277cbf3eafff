package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
)

// DayRepository 曜日数据访问接口
type DayRepository interface {
	Create(ctx context.Context, day *model.Day) error
	BatchCreate(ctx context.Context, days []model.Day) error
	GetByID(ctx context.Context, id string) (*model.Day, error)
	// ListByTimetable 按 (sort_order ASC, day_id ASC) 返回时间割的曜日
	ListByTimetable(ctx context.Context, timetableID string) ([]model.Day, error)
	// FindClash 查找同一时间割内名称或顺序重复的曜日，excludeID 非空时排除自身
	FindClash(ctx context.Context, timetableID, name string, order int, excludeID string) (*model.Day, error)
	Update(ctx context.Context, day *model.Day) error
	Delete(ctx context.Context, id string) error
}

type dayRepo struct {
	db *gorm.DB
}

// NewDayRepo 创建 DayRepository 实例
func NewDayRepo(db *gorm.DB) DayRepository {
	return &dayRepo{db: db}
}

func (r *dayRepo) Create(ctx context.Context, day *model.Day) error {
	return r.db.WithContext(ctx).Create(day).Error
}

func (r *dayRepo) BatchCreate(ctx context.Context, days []model.Day) error {
	if len(days) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&days).Error
}

func (r *dayRepo) GetByID(ctx context.Context, id string) (*model.Day, error) {
	var day model.Day
	err := r.db.WithContext(ctx).
		Preload("Timetable").
		Where("day_id = ?", id).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *dayRepo) ListByTimetable(ctx context.Context, timetableID string) ([]model.Day, error) {
	var days []model.Day
	err := r.db.WithContext(ctx).
		Where("timetable_id = ?", timetableID).
		Order("sort_order ASC, day_id ASC").
		Find(&days).Error
	return days, err
}

func (r *dayRepo) FindClash(ctx context.Context, timetableID, name string, order int, excludeID string) (*model.Day, error) {
	var day model.Day
	db := r.db.WithContext(ctx).
		Where("timetable_id = ? AND (name = ? OR sort_order = ?)", timetableID, name, order)
	if excludeID != "" {
		db = db.Where("day_id <> ?", excludeID)
	}
	if err := db.First(&day).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *dayRepo) Update(ctx context.Context, day *model.Day) error {
	return r.db.WithContext(ctx).Save(day).Error
}

func (r *dayRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("day_id = ?", id).
		Delete(&model.Day{}).Error
}
