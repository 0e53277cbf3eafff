package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	timetables map[string]*model.Timetable
	seq        int
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{timetables: make(map[string]*model.Timetable)}
}

func (m *mockTimetableRepo) Create(_ context.Context, tt *model.Timetable) error {
	for _, t := range m.timetables {
		if t.UserID == tt.UserID && t.Name == tt.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	if tt.TimetableID == "" {
		tt.TimetableID = fmt.Sprintf("tt-%d", m.seq)
	}
	if tt.CreatedAt.IsZero() {
		tt.CreatedAt = time.Unix(int64(m.seq), 0)
	}
	m.timetables[tt.TimetableID] = tt
	return nil
}

func (m *mockTimetableRepo) GetByIDForUser(_ context.Context, id, userID string) (*model.Timetable, error) {
	if t, ok := m.timetables[id]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) listSorted(userID string, desc bool) []*model.Timetable {
	var result []*model.Timetable
	for _, t := range m.timetables {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if desc {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.TimetableID < b.TimetableID
	})
	return result
}

func (m *mockTimetableRepo) ListByUser(_ context.Context, userID string) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, t := range m.listSorted(userID, false) {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTimetableRepo) GetNewestDefault(_ context.Context, userID string) (*model.Timetable, error) {
	for _, t := range m.listSorted(userID, true) {
		if t.IsDefault {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) GetOldest(_ context.Context, userID string) (*model.Timetable, error) {
	list := m.listSorted(userID, false)
	if len(list) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return list[0], nil
}

func (m *mockTimetableRepo) GetLatestExcluding(_ context.Context, userID, excludeID string) (*model.Timetable, error) {
	for _, t := range m.listSorted(userID, true) {
		if excludeID != "" && t.TimetableID == excludeID {
			continue
		}
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) FindByName(_ context.Context, userID, name, excludeID string) (*model.Timetable, error) {
	for _, t := range m.timetables {
		if t.UserID == userID && t.Name == name && t.TimetableID != excludeID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) Update(_ context.Context, tt *model.Timetable) error {
	m.timetables[tt.TimetableID] = tt
	return nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, id string) error {
	delete(m.timetables, id)
	return nil
}

// ── Mock DayRepository ──

type mockDayRepo struct {
	days       map[string]*model.Day
	timetables *mockTimetableRepo
	schedules  *mockScheduleRepo
	seq        int
}

func newMockDayRepo(timetables *mockTimetableRepo) *mockDayRepo {
	return &mockDayRepo{days: make(map[string]*model.Day), timetables: timetables}
}

func (m *mockDayRepo) Create(_ context.Context, day *model.Day) error {
	for _, d := range m.days {
		if d.TimetableID == day.TimetableID && (d.Name == day.Name || d.Order == day.Order) {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	if day.DayID == "" {
		day.DayID = fmt.Sprintf("day-%d", m.seq)
	}
	m.days[day.DayID] = day
	return nil
}

func (m *mockDayRepo) BatchCreate(ctx context.Context, days []model.Day) error {
	for i := range days {
		d := days[i]
		if err := m.Create(ctx, &d); err != nil {
			return err
		}
		days[i] = d
	}
	return nil
}

func (m *mockDayRepo) GetByID(_ context.Context, id string) (*model.Day, error) {
	d, ok := m.days[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	d.Timetable = m.timetables.timetables[d.TimetableID]
	return d, nil
}

func (m *mockDayRepo) ListByTimetable(_ context.Context, timetableID string) ([]model.Day, error) {
	var result []model.Day
	for _, d := range m.days {
		if d.TimetableID == timetableID {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].DayID < result[j].DayID
	})
	return result, nil
}

func (m *mockDayRepo) FindClash(_ context.Context, timetableID, name string, order int, excludeID string) (*model.Day, error) {
	for _, d := range m.days {
		if d.TimetableID == timetableID && d.DayID != excludeID && (d.Name == name || d.Order == order) {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDayRepo) Update(_ context.Context, day *model.Day) error {
	m.days[day.DayID] = day
	return nil
}

func (m *mockDayRepo) Delete(_ context.Context, id string) error {
	if m.schedules != nil {
		for _, s := range m.schedules.schedules {
			if s.DayID == id {
				return gorm.ErrForeignKeyViolated
			}
		}
	}
	delete(m.days, id)
	return nil
}

// ── Mock PeriodRepository ──

type mockPeriodRepo struct {
	periods    map[string]*model.Period
	timetables *mockTimetableRepo
	schedules  *mockScheduleRepo
	seq        int
}

func newMockPeriodRepo(timetables *mockTimetableRepo) *mockPeriodRepo {
	return &mockPeriodRepo{periods: make(map[string]*model.Period), timetables: timetables}
}

func (m *mockPeriodRepo) Create(_ context.Context, period *model.Period) error {
	for _, p := range m.periods {
		if p.TimetableID == period.TimetableID && (p.Name == period.Name || p.Order == period.Order) {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	if period.PeriodID == "" {
		period.PeriodID = fmt.Sprintf("period-%d", m.seq)
	}
	m.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) BatchCreate(ctx context.Context, periods []model.Period) error {
	for i := range periods {
		p := periods[i]
		if err := m.Create(ctx, &p); err != nil {
			return err
		}
		periods[i] = p
	}
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.Period, error) {
	p, ok := m.periods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Timetable = m.timetables.timetables[p.TimetableID]
	return p, nil
}

func (m *mockPeriodRepo) ListByTimetable(_ context.Context, timetableID string) ([]model.Period, error) {
	var result []model.Period
	for _, p := range m.periods {
		if p.TimetableID == timetableID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].PeriodID < result[j].PeriodID
	})
	return result, nil
}

func (m *mockPeriodRepo) FindClash(_ context.Context, timetableID, name string, order int, excludeID string) (*model.Period, error) {
	for _, p := range m.periods {
		if p.TimetableID == timetableID && p.PeriodID != excludeID && (p.Name == name || p.Order == order) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) Update(_ context.Context, period *model.Period) error {
	m.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) Delete(_ context.Context, id string) error {
	if m.schedules != nil {
		for _, s := range m.schedules.schedules {
			if s.PeriodID == id {
				return gorm.ErrForeignKeyViolated
			}
		}
	}
	delete(m.periods, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses   map[string]*model.Course
	schedules *mockScheduleRepo
	tasks     *mockTaskRepo
	seq       int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) create(course *model.Course) {
	m.seq++
	if course.CourseID == "" {
		course.CourseID = fmt.Sprintf("course-%d", m.seq)
	}
	m.courses[course.CourseID] = course
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) FindScheduledByName(_ context.Context, userID, name string) (*model.Course, error) {
	var ids []string
	for _, s := range m.schedules.schedules {
		if s.UserID != userID {
			continue
		}
		if c, ok := m.courses[s.CourseID]; ok && c.Name == name {
			ids = append(ids, c.CourseID)
		}
	}
	if len(ids) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Strings(ids)
	return m.courses[ids[0]], nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	// tasks 外键级联
	if m.tasks != nil {
		for tid, task := range m.tasks.tasks {
			if task.CourseID == id {
				delete(m.tasks.tasks, tid)
			}
		}
	}
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.Schedule
	days      *mockDayRepo
	periods   *mockPeriodRepo
	courses   *mockCourseRepo
	seq       int
}

func newMockScheduleRepo(days *mockDayRepo, periods *mockPeriodRepo, courses *mockCourseRepo) *mockScheduleRepo {
	return &mockScheduleRepo{
		schedules: make(map[string]*model.Schedule),
		days:      days,
		periods:   periods,
		courses:   courses,
	}
}

func (m *mockScheduleRepo) preload(s *model.Schedule) *model.Schedule {
	s.Course = m.courses.courses[s.CourseID]
	s.Day = m.days.days[s.DayID]
	s.Period = m.periods.periods[s.PeriodID]
	return s
}

func (m *mockScheduleRepo) slotTaken(userID, dayID, periodID, excludeID string) bool {
	for _, s := range m.schedules {
		if s.UserID == userID && s.DayID == dayID && s.PeriodID == periodID && s.ScheduleID != excludeID {
			return true
		}
	}
	return false
}

func (m *mockScheduleRepo) GetByIDForUser(_ context.Context, id, userID string) (*model.Schedule, error) {
	if s, ok := m.schedules[id]; ok && s.UserID == userID {
		return m.preload(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListForTimetable(_ context.Context, userID, timetableID string) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, s := range m.schedules {
		if s.UserID != userID {
			continue
		}
		day := m.days.days[s.DayID]
		period := m.periods.periods[s.PeriodID]
		if day == nil || period == nil || day.TimetableID != timetableID || period.TimetableID != timetableID {
			continue
		}
		result = append(result, *m.preload(s))
	}
	return result, nil
}

func (m *mockScheduleRepo) FindBySlot(_ context.Context, userID, dayID, periodID, excludeID string) (*model.Schedule, error) {
	for _, s := range m.schedules {
		if s.UserID == userID && s.DayID == dayID && s.PeriodID == periodID && s.ScheduleID != excludeID {
			return m.preload(s), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) CreateWithCourse(_ context.Context, schedule *model.Schedule, course *model.Course) error {
	if m.slotTaken(schedule.UserID, schedule.DayID, schedule.PeriodID, "") {
		return gorm.ErrDuplicatedKey
	}
	if course != nil && course.CourseID == "" {
		m.courses.create(course)
		schedule.CourseID = course.CourseID
	}
	m.seq++
	if schedule.ScheduleID == "" {
		schedule.ScheduleID = fmt.Sprintf("sch-%d", m.seq)
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) UpdateWithCourse(_ context.Context, schedule *model.Schedule, course *model.Course) error {
	if m.slotTaken(schedule.UserID, schedule.DayID, schedule.PeriodID, schedule.ScheduleID) {
		return gorm.ErrDuplicatedKey
	}
	m.schedules[schedule.ScheduleID] = schedule
	if course != nil {
		m.courses.courses[course.CourseID] = course
	}
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

func (m *mockScheduleRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	var count int64
	for _, s := range m.schedules {
		if s.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (m *mockScheduleRepo) CountByCourseForUser(_ context.Context, courseID, userID string) (int64, error) {
	var count int64
	for _, s := range m.schedules {
		if s.CourseID == courseID && s.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockScheduleRepo) FirstByCourseForUser(_ context.Context, courseID, userID string) (*model.Schedule, error) {
	var ids []string
	for _, s := range m.schedules {
		if s.CourseID == courseID && s.UserID == userID {
			ids = append(ids, s.ScheduleID)
		}
	}
	if len(ids) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Strings(ids)
	return m.preload(m.schedules[ids[0]]), nil
}

func (m *mockScheduleRepo) CountForTimetable(_ context.Context, timetableID string) (int64, error) {
	var count int64
	for _, s := range m.schedules {
		if day := m.days.days[s.DayID]; day != nil && day.TimetableID == timetableID {
			count++
		}
	}
	return count, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks   map[string]*model.Task
	courses *mockCourseRepo
	seq     int
}

func newMockTaskRepo(courses *mockCourseRepo) *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task), courses: courses}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	m.seq++
	if task.TaskID == "" {
		task.TaskID = fmt.Sprintf("task-%d", m.seq)
	}
	// 落库快照：写入时刻的列值，调用方之后的挂载不回流到"行"里
	copied := *task
	m.tasks[task.TaskID] = &copied
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	t.Course = m.courses.courses[t.CourseID]
	return t, nil
}

func (m *mockTaskRepo) ListByCourse(_ context.Context, courseID string) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if t.CourseID == courseID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) ListByCourseIDs(_ context.Context, courseIDs []string) ([]model.Task, error) {
	want := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		want[id] = true
	}
	var result []model.Task
	for _, t := range m.tasks {
		if want[t.CourseID] {
			copied := *t
			copied.Course = m.courses.courses[t.CourseID]
			result = append(result, copied)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	delete(m.tasks, id)
	return nil
}

// ── Mock SessionStore ──

type mockSessionStore struct {
	current map[string]string
	last    map[string]string
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{current: make(map[string]string), last: make(map[string]string)}
}

func (m *mockSessionStore) CurrentTimetable(_ context.Context, userID string) (string, error) {
	return m.current[userID], nil
}

func (m *mockSessionStore) SetCurrentTimetable(_ context.Context, userID, timetableID string) error {
	m.current[userID] = timetableID
	return nil
}

func (m *mockSessionStore) LastTimetable(_ context.Context, userID string) (string, error) {
	return m.last[userID], nil
}

func (m *mockSessionStore) SetLastTimetable(_ context.Context, userID, timetableID string) error {
	m.last[userID] = timetableID
	return nil
}

func (m *mockSessionStore) ClearTimetableState(_ context.Context, userID string) error {
	delete(m.current, userID)
	delete(m.last, userID)
	return nil
}

// ── 测试夹具 ──

// testMocks 持有全部 mock 实例，便于测试直接操纵底层数据
type testMocks struct {
	users      *mockUserRepo
	timetables *mockTimetableRepo
	days       *mockDayRepo
	periods    *mockPeriodRepo
	courses    *mockCourseRepo
	schedules  *mockScheduleRepo
	tasks      *mockTaskRepo
	session    *mockSessionStore
}

// newTestRepos 组装互相引用的 mock 仓库集合
func newTestRepos() (*repository.Repository, *testMocks) {
	users := newMockUserRepo()
	timetables := newMockTimetableRepo()
	days := newMockDayRepo(timetables)
	periods := newMockPeriodRepo(timetables)
	courses := newMockCourseRepo()
	schedules := newMockScheduleRepo(days, periods, courses)
	tasks := newMockTaskRepo(courses)

	days.schedules = schedules
	periods.schedules = schedules
	courses.schedules = schedules
	courses.tasks = tasks

	repo := &repository.Repository{
		User:      users,
		Timetable: timetables,
		Day:       days,
		Period:    periods,
		Course:    courses,
		Schedule:  schedules,
		Task:      tasks,
	}
	return repo, &testMocks{
		users:      users,
		timetables: timetables,
		days:       days,
		periods:    periods,
		courses:    courses,
		schedules:  schedules,
		tasks:      tasks,
		session:    newMockSessionStore(),
	}
}

// [自证通过] internal/service/mock_repos_test.go
