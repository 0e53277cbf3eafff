package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
)

// CourseRepository 授业数据访问接口
// 授业不直接归属用户，"用户的授业"定义为：存在该用户 Schedule 引用的授业
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// FindScheduledByName 在用户已排入时间割的授业中按名称查找（复用确认的依据）
	FindScheduledByName(ctx context.Context, userID, name string) (*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) FindScheduledByName(ctx context.Context, userID, name string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN schedules ON schedules.course_id = courses.course_id").
		Where("schedules.user_id = ? AND courses.name = ?", userID, name).
		Order("courses.course_id ASC").
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	// tasks 外键 ON DELETE CASCADE，任务随授业一并清除
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}
