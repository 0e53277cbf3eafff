package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
)

// TaskRepository 任务数据访问接口
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.Task, error)
	// ListByCourseIDs 返回一组授业的全部任务（网格聚合 / 任务一览的输入）
	ListByCourseIDs(ctx context.Context, courseIDs []string) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
}

type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) ListByCourseIDs(ctx context.Context, courseIDs []string) ([]model.Task, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("course_id IN ?", courseIDs).
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("task_id = ?", id).
		Delete(&model.Task{}).Error
}
