package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/model"
)

// TimetableRepository 时间割数据访问接口
type TimetableRepository interface {
	Create(ctx context.Context, tt *model.Timetable) error
	// GetByIDForUser 按 ID 查询，限定归属用户；非本人记录按不存在处理
	GetByIDForUser(ctx context.Context, id, userID string) (*model.Timetable, error)
	// ListByUser 按创建顺序（created_at ASC, timetable_id ASC）返回用户全部时间割
	ListByUser(ctx context.Context, userID string) ([]model.Timetable, error)
	// GetNewestDefault 取用户最新创建的 is_default=true 时间割
	GetNewestDefault(ctx context.Context, userID string) (*model.Timetable, error)
	// GetOldest 取用户最早创建的时间割
	GetOldest(ctx context.Context, userID string) (*model.Timetable, error)
	// GetLatestExcluding 取排除指定 ID 后用户最新创建的时间割（Bootstrap 的复制源）
	GetLatestExcluding(ctx context.Context, userID, excludeID string) (*model.Timetable, error)
	// FindByName 查询用户的同名时间割，excludeID 非空时排除自身
	FindByName(ctx context.Context, userID, name, excludeID string) (*model.Timetable, error)
	Update(ctx context.Context, tt *model.Timetable) error
	Delete(ctx context.Context, id string) error
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Create(ctx context.Context, tt *model.Timetable) error {
	return r.db.WithContext(ctx).Create(tt).Error
}

func (r *timetableRepo) GetByIDForUser(ctx context.Context, id, userID string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.db.WithContext(ctx).
		Where("timetable_id = ? AND user_id = ?", id, userID).
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) ListByUser(ctx context.Context, userID string) ([]model.Timetable, error) {
	var tts []model.Timetable
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, timetable_id ASC").
		Find(&tts).Error
	return tts, err
}

func (r *timetableRepo) GetNewestDefault(ctx context.Context, userID string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		Order("created_at DESC, timetable_id DESC").
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) GetOldest(ctx context.Context, userID string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, timetable_id ASC").
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) GetLatestExcluding(ctx context.Context, userID, excludeID string) (*model.Timetable, error) {
	var tt model.Timetable
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	// 空串不参与比较：timetable_id 是 uuid 列，'' 无法转型
	if excludeID != "" {
		db = db.Where("timetable_id <> ?", excludeID)
	}
	err := db.
		Order("created_at DESC, timetable_id DESC").
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) FindByName(ctx context.Context, userID, name, excludeID string) (*model.Timetable, error) {
	var tt model.Timetable
	db := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != "" {
		db = db.Where("timetable_id <> ?", excludeID)
	}
	if err := db.First(&tt).Error; err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) Update(ctx context.Context, tt *model.Timetable) error {
	return r.db.WithContext(ctx).Save(tt).Error
}

func (r *timetableRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("timetable_id = ?", id).
		Delete(&model.Timetable{}).Error
}
