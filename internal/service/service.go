package service

import (
	"go.uber.org/zap"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/config"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/repository"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Timetable TimetableService
	Grid      GridService
	Schedule  ScheduleService
	Task      TaskService
	Export    ExportService
}

// NewService 创建 Service 聚合
// session / blacklist 允许为 nil（Redis 不可用时降级运行）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	session SessionStore,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	timetable := NewTimetableService(repo, session, logger)
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, session, blacklist, logger),
		Timetable: timetable,
		Grid:      NewGridService(repo, timetable, logger),
		Schedule:  NewScheduleService(repo, logger),
		Task:      NewTaskService(repo, logger),
		Export:    NewExportService(repo, timetable, logger),
	}
}

// [自证通过] internal/service/service.go
