package model

import "time"

// ── 课程主题色板 ──
//
// 与前端约定的 6 色固定色板，超出范围的取值一律拒绝

const DefaultCourseColor = "#e2e8f0"

// CourseColors 允许的课程主题色（固定 6 色）
var CourseColors = []string{
	"#e2e8f0", // 标准（灰）
	"#fbcfe8", // 粉
	"#c7d2fe", // 紫
	"#bae6fd", // 天蓝
	"#bbf7d0", // 绿
	"#fef08a", // 黄
}

// IsValidCourseColor 校验颜色是否在色板内
func IsValidCourseColor(color string) bool {
	for _, c := range CourseColors {
		if c == color {
			return true
		}
	}
	return false
}

// Course 授业表 — 对应 courses
// 不直接归属用户：仅通过 Schedule 链接可达；
// 最后一条 Schedule 被删除时，授业连同其任务一并清除。
type Course struct {
	CourseID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Instructor  string `gorm:"type:varchar(100);not null;default:''"          json:"instructor"`
	Room        string `gorm:"type:varchar(100);not null;default:''"          json:"room"`
	Description string `gorm:"type:text;not null;default:''"                  json:"description"`
	Color       string `gorm:"type:varchar(7);not null;default:'#e2e8f0'"     json:"color"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Task 任务表 — 对应 tasks
// 归属于唯一的 Course，due_date 为日期（无时刻），可空
type Task struct {
	TaskID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	CourseID    string     `gorm:"type:uuid;not null;index"                       json:"course_id"`
	Title       string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string     `gorm:"type:text;not null;default:''"                  json:"description"`
	DueDate     *time.Time `gorm:"type:date;index"                                json:"due_date,omitempty"`
	IsCompleted bool       `gorm:"not null;default:false"                         json:"is_completed"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// [自证通过] internal/model/course.go
