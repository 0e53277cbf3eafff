package service

import (
	"sort"
	"time"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
)

// ── 紧急度判定（纯函数） ──
//
// 授业与任务的紧急度分级，三档优先级（先命中者生效）：
//   overdue   期限 < 今日
//   due_today 期限 = 今日
//   upcoming  期限 ≤ 今日 + 7 天（含端点）
// 已完成任务与无期限任务一律不参与判定。
// 所有比较按"日"为粒度，传入的参照日期先经 normalizeDate 截断时刻部分。

const (
	// UrgencyOverdue 已过期
	UrgencyOverdue = "overdue"
	// UrgencyDueToday 今日截止
	UrgencyDueToday = "due_today"
	// UrgencyUpcoming 一周内截止
	UrgencyUpcoming = "upcoming"
	// UrgencyNone 无紧急度（wire 上省略该字段）
	UrgencyNone = ""

	// upcomingWindowDays upcoming 档的窗口天数（含端点）
	upcomingWindowDays = 7
)

// normalizeDate 截断到日期粒度（保留时区）
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// classifyDue 单个期限的紧急度。due 为 nil 时返回 UrgencyNone。
func classifyDue(due *time.Time, today time.Time) string {
	if due == nil {
		return UrgencyNone
	}
	d := normalizeDate(*due)
	today = normalizeDate(today)

	switch {
	case d.Before(today):
		return UrgencyOverdue
	case d.Equal(today):
		return UrgencyDueToday
	case !d.After(today.AddDate(0, 0, upcomingWindowDays)):
		return UrgencyUpcoming
	default:
		return UrgencyNone
	}
}

// classifyTask 单个任务的紧急度。已完成任务恒为 UrgencyNone。
func classifyTask(task *model.Task, today time.Time) string {
	if task.IsCompleted {
		return UrgencyNone
	}
	return classifyDue(task.DueDate, today)
}

// classifyCourse 授业的紧急度：对其未完成任务按三档优先级取最严重者
func classifyCourse(tasks []model.Task, today time.Time) string {
	result := UrgencyNone
	for i := range tasks {
		switch classifyTask(&tasks[i], today) {
		case UrgencyOverdue:
			return UrgencyOverdue // 最高档，无需继续
		case UrgencyDueToday:
			result = UrgencyDueToday
		case UrgencyUpcoming:
			if result != UrgencyDueToday {
				result = UrgencyUpcoming
			}
		}
	}
	return result
}

// courseTaskCounts 授业的展示计数
//
// showAll=false：total = 未完成数，completed = 0（已完成任务整体隐藏）
// showAll=true ：total = 全部任务数，completed = 已完成数
func courseTaskCounts(tasks []model.Task, showAll bool) (total, completed int) {
	for i := range tasks {
		if tasks[i].IsCompleted {
			if showAll {
				total++
				completed++
			}
			continue
		}
		total++
	}
	return total, completed
}

// sortTasks 任务一览的稳定排序：
// (completed ASC, due_date ASC 且 null 置底, task_id ASC)
func sortTasks(tasks []model.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		a, b := &tasks[i], &tasks[j]
		if a.IsCompleted != b.IsCompleted {
			return !a.IsCompleted
		}
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			// 两者均无期限，按 ID
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		default:
			da, db := normalizeDate(*a.DueDate), normalizeDate(*b.DueDate)
			if !da.Equal(db) {
				return da.Before(db)
			}
		}
		return a.TaskID < b.TaskID
	})
}

// courseOrphaned 授业孤儿判定：删除一条指派后剩余引用数为零即为孤儿，
// 须连同其任务（FK 级联）一并清除
func courseOrphaned(remaining int64) bool {
	return remaining == 0
}

// [自证通过] internal/service/urgency.go
