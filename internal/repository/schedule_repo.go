package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
)

// ScheduleRepository 槽位指派数据访问接口
type ScheduleRepository interface {
	// GetByIDForUser 按 ID 查询（预加载 Course/Day/Period），限定归属用户
	GetByIDForUser(ctx context.Context, id, userID string) (*model.Schedule, error)
	// ListForTimetable 返回用户在指定时间割内的全部指派
	// （Day 与 Period 均须属于该时间割）
	ListForTimetable(ctx context.Context, userID, timetableID string) ([]model.Schedule, error)
	// FindBySlot 查找占用 (user, day, period) 槽位的指派，excludeID 非空时排除自身；
	// 冲突守卫的快路径检查，最终仲裁是 (user_id, day_id, period_id) 唯一索引
	FindBySlot(ctx context.Context, userID, dayID, periodID, excludeID string) (*model.Schedule, error)
	// CreateWithCourse 在单个事务中创建授业（course.CourseID 为空时）与指派，
	// 全有或全无——不允许只留下无指派的授业
	CreateWithCourse(ctx context.Context, schedule *model.Schedule, course *model.Course) error
	// UpdateWithCourse 在单个事务中更新指派坐标与授业字段
	UpdateWithCourse(ctx context.Context, schedule *model.Schedule, course *model.Course) error
	Delete(ctx context.Context, id string) error
	// CountByCourse 统计仍引用该授业的指派数（孤儿清扫的判定输入）
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	// CountByCourseForUser 统计该用户引用该授业的指派数（所有权链校验）
	CountByCourseForUser(ctx context.Context, courseID, userID string) (int64, error)
	// FirstByCourseForUser 取该用户引用该授业的任一指派
	FirstByCourseForUser(ctx context.Context, courseID, userID string) (*model.Schedule, error)
	// CountForTimetable 统计时间割内的指派数（时间割删除前的保护检查）
	CountForTimetable(ctx context.Context, timetableID string) (int64, error)
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) GetByIDForUser(ctx context.Context, id, userID string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Day").
		Preload("Period").
		Where("schedule_id = ? AND user_id = ?", id, userID).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) ListForTimetable(ctx context.Context, userID, timetableID string) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.WithContext(ctx).
		Joins("JOIN days ON days.day_id = schedules.day_id").
		Joins("JOIN periods ON periods.period_id = schedules.period_id").
		Where("schedules.user_id = ? AND days.timetable_id = ? AND periods.timetable_id = ?",
			userID, timetableID, timetableID).
		Preload("Course").
		Preload("Day").
		Preload("Period").
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepo) FindBySlot(ctx context.Context, userID, dayID, periodID, excludeID string) (*model.Schedule, error) {
	var schedule model.Schedule
	db := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ? AND day_id = ? AND period_id = ?", userID, dayID, periodID)
	if excludeID != "" {
		db = db.Where("schedule_id <> ?", excludeID)
	}
	if err := db.First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) CreateWithCourse(ctx context.Context, schedule *model.Schedule, course *model.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if course != nil && course.CourseID == "" {
			if err := tx.Create(course).Error; err != nil {
				return err
			}
			schedule.CourseID = course.CourseID
		}
		return tx.Create(schedule).Error
	})
}

func (r *scheduleRepo) UpdateWithCourse(ctx context.Context, schedule *model.Schedule, course *model.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(schedule).Error; err != nil {
			return err
		}
		if course != nil {
			if err := tx.Save(course).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		Delete(&model.Schedule{}).Error
}

func (r *scheduleRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *scheduleRepo) CountByCourseForUser(ctx context.Context, courseID, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count, err
}

func (r *scheduleRepo) FirstByCourseForUser(ctx context.Context, courseID, userID string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Order("schedule_id ASC").
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) CountForTimetable(ctx context.Context, timetableID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Joins("JOIN days ON days.day_id = schedules.day_id").
		Where("days.timetable_id = ?", timetableID).
		Count(&count).Error
	return count, err
}
