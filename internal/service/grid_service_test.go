package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/dto"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
)

type gridFixture struct {
	grid     GridService
	schedule ScheduleService
	mocks    *testMocks
	tt       *dto.TimetableDetailResponse
}

func newGridFixture(t *testing.T) *gridFixture {
	t.Helper()
	repo, mocks := newTestRepos()
	logger := zap.NewNop()
	ttSvc := NewTimetableService(repo, mocks.session, logger)

	tt, err := ttSvc.Create(context.Background(), "user-1", &dto.CreateTimetableRequest{Name: "前期"})
	if err != nil {
		t.Fatalf("夹具时间割创建失败: %v", err)
	}

	return &gridFixture{
		grid:     NewGridService(repo, ttSvc, logger),
		schedule: NewScheduleService(repo, logger),
		mocks:    mocks,
		tt:       tt,
	}
}

func TestGrid_EmptyStateWithoutTimetables(t *testing.T) {
	repo, mocks := newTestRepos()
	logger := zap.NewNop()
	ttSvc := NewTimetableService(repo, mocks.session, logger)
	grid := NewGridService(repo, ttSvc, logger)

	resp, err := grid.Grid(context.Background(), "user-1", "", false)
	if err != nil {
		t.Fatalf("无时间割时不应报错: %v", err)
	}
	if resp.Timetable != nil {
		t.Error("空状态 timetable 应为 nil")
	}
	if len(resp.Cells) != 0 || len(resp.Days) != 0 || len(resp.Periods) != 0 {
		t.Error("空状态应返回空集合")
	}
}

func TestGrid_MatrixCoversCartesianProduct(t *testing.T) {
	f := newGridFixture(t)

	resp, err := f.grid.Grid(context.Background(), "user-1", "", false)
	if err != nil {
		t.Fatalf("Grid 失败: %v", err)
	}

	// 有序笛卡尔积中的每个坐标恰好一格
	if len(resp.Cells) != len(resp.Days) {
		t.Fatalf("行数期望 %d, 实际 %d", len(resp.Days), len(resp.Cells))
	}
	for _, day := range resp.Days {
		row, ok := resp.Cells[day.ID]
		if !ok {
			t.Fatalf("缺少曜日 %s 的行", day.Name)
		}
		if len(row) != len(resp.Periods) {
			t.Fatalf("曜日 %s 的格子数期望 %d, 实际 %d", day.Name, len(resp.Periods), len(row))
		}
		for _, period := range resp.Periods {
			if _, ok := row[period.ID]; !ok {
				t.Errorf("缺少格子 (%s, %s)", day.Name, period.Name)
			}
		}
	}
}

func TestGrid_RoundTripScheduleAppearsInCell(t *testing.T) {
	f := newGridFixture(t)
	ctx := context.Background()

	sc, err := f.schedule.Create(ctx, "user-1", &dto.CreateScheduleRequest{
		DayID:    f.tt.Days[0].ID,
		PeriodID: f.tt.Periods[1].ID,
		Course:   dto.CourseInput{Name: "数学", Room: "201"},
	})
	if err != nil {
		t.Fatalf("创建指派失败: %v", err)
	}

	resp, err := f.grid.Grid(ctx, "user-1", "", false)
	if err != nil {
		t.Fatalf("Grid 失败: %v", err)
	}

	cell := resp.Cells[f.tt.Days[0].ID][f.tt.Periods[1].ID]
	if cell.Schedule == nil {
		t.Fatal("目标格子应含指派")
	}
	if cell.Schedule.CourseName != "数学" || cell.Schedule.Room != "201" {
		t.Errorf("格子内容不符: %+v", cell.Schedule)
	}

	// 其余格子为空
	empty := resp.Cells[f.tt.Days[0].ID][f.tt.Periods[0].ID]
	if empty.Schedule != nil {
		t.Error("未指派的格子应为空")
	}

	// 删除指派后格子回空
	if _, err := f.schedule.Delete(ctx, sc.ID, "user-1"); err != nil {
		t.Fatalf("删除指派失败: %v", err)
	}
	resp, _ = f.grid.Grid(ctx, "user-1", "", false)
	if resp.Cells[f.tt.Days[0].ID][f.tt.Periods[1].ID].Schedule != nil {
		t.Error("删除后格子应回空")
	}
}

func TestGrid_CellCountsAndUrgency(t *testing.T) {
	f := newGridFixture(t)
	ctx := context.Background()

	sc, err := f.schedule.Create(ctx, "user-1", &dto.CreateScheduleRequest{
		DayID:    f.tt.Days[0].ID,
		PeriodID: f.tt.Periods[0].ID,
		Course:   dto.CourseInput{Name: "数学"},
	})
	if err != nil {
		t.Fatalf("创建指派失败: %v", err)
	}

	yesterday := time.Now().AddDate(0, 0, -1)
	f.mocks.tasks.Create(ctx, &model.Task{CourseID: sc.Course.ID, Title: "过期作业", DueDate: &yesterday})
	f.mocks.tasks.Create(ctx, &model.Task{CourseID: sc.Course.ID, Title: "完成作业", IsCompleted: true})

	// showAll=false：隐藏已完成，紧急度 overdue
	resp, _ := f.grid.Grid(ctx, "user-1", "", false)
	cell := resp.Cells[f.tt.Days[0].ID][f.tt.Periods[0].ID]
	if cell.TaskCount != 1 || cell.CompletedCount != 0 {
		t.Errorf("showAll=false 期望 (1, 0), 实际 (%d, %d)", cell.TaskCount, cell.CompletedCount)
	}
	if cell.Urgency != UrgencyOverdue {
		t.Errorf("期望 overdue, 实际 %q", cell.Urgency)
	}
	if len(resp.Upcoming) != 1 {
		t.Errorf("showAll=false 任务一览期望 1 条, 实际 %d", len(resp.Upcoming))
	}

	// showAll=true：全量计数
	resp, _ = f.grid.Grid(ctx, "user-1", "", true)
	cell = resp.Cells[f.tt.Days[0].ID][f.tt.Periods[0].ID]
	if cell.TaskCount != 2 || cell.CompletedCount != 1 {
		t.Errorf("showAll=true 期望 (2, 1), 实际 (%d, %d)", cell.TaskCount, cell.CompletedCount)
	}
	if len(resp.Upcoming) != 2 {
		t.Errorf("showAll=true 任务一览期望 2 条, 实际 %d", len(resp.Upcoming))
	}
	// 未完成在前
	if resp.Upcoming[0].IsCompleted {
		t.Error("任务一览应未完成在前")
	}
}

func TestGrid_ProgressCountsDistinctCourses(t *testing.T) {
	f := newGridFixture(t)
	ctx := context.Background()

	// 同一授业占两个槽位
	sc, err := f.schedule.Create(ctx, "user-1", &dto.CreateScheduleRequest{
		DayID:    f.tt.Days[0].ID,
		PeriodID: f.tt.Periods[0].ID,
		Course:   dto.CourseInput{Name: "数学"},
	})
	if err != nil {
		t.Fatalf("创建指派失败: %v", err)
	}
	if _, err := f.schedule.Create(ctx, "user-1", &dto.CreateScheduleRequest{
		DayID:        f.tt.Days[1].ID,
		PeriodID:     f.tt.Periods[0].ID,
		ConfirmReuse: true,
		Course:       dto.CourseInput{Name: "数学"},
	}); err != nil {
		t.Fatalf("复用创建失败: %v", err)
	}

	f.mocks.tasks.Create(ctx, &model.Task{CourseID: sc.Course.ID, Title: "作业", IsCompleted: true})
	f.mocks.tasks.Create(ctx, &model.Task{CourseID: sc.Course.ID, Title: "预习"})

	resp, err := f.grid.Grid(ctx, "user-1", "", true)
	if err != nil {
		t.Fatalf("Grid 失败: %v", err)
	}

	// 授业去重：任务只计一次
	if resp.TotalTasks != 2 || resp.CompletedTasks != 1 {
		t.Errorf("全表进度期望 (2, 1), 实际 (%d, %d)", resp.TotalTasks, resp.CompletedTasks)
	}
	if len(resp.Upcoming) != 2 {
		t.Errorf("任务一览期望 2 条, 实际 %d", len(resp.Upcoming))
	}
}

// [自证通过] internal/service/grid_service_test.go
