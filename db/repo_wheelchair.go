// db/repo_wheelchair.go
package db

import (
	"context"
	"errors"
	"time"

	"Gin_postgres_redis_equipment_tracker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrWheelchairNotFound 是正常业务结果:序列号敲错很常见,不当故障处理
var ErrWheelchairNotFound = errors.New("wheelchair not found")

func (r *Repo) ListWheelchairs(ctx context.Context) ([]models.Wheelchair, error) {
	var ws []models.Wheelchair
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&ws).Error
	return ws, err
}

func (r *Repo) FindWheelchairBySerial(ctx context.Context, serial string) (*models.Wheelchair, error) {
	var w models.Wheelchair
	if err := r.DB.WithContext(ctx).First(&w, "serial = ?", serial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWheelchairNotFound
		}
		return nil, err
	}
	return &w, nil
}

// CreateWheelchair 按序列号落库。同号已存在时整条覆盖(last writer wins),
// 包括把在库状态和楼层打回默认值——沿用源系统的文档替换语义,不做唯一性拦截。
func (r *Repo) CreateWheelchair(ctx context.Context, w *models.Wheelchair) error {
	w.CheckedIn = true
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "serial"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":                   w.Name,
			"category":               w.Category,
			"floor":                  nil,
			"checked_in":             true,
			"person_last_interacted": "",
			"last_check_in_time":     nil,
			"last_check_out_time":    nil,
			"updated_at":             time.Now().UTC(),
		}),
	}).Create(w).Error
}

// UpdateWheelchairDetails 只改名称和类别,其余字段不动(管理端编辑表单)
func (r *Repo) UpdateWheelchairDetails(ctx context.Context, serial, name, category string) error {
	res := r.DB.WithContext(ctx).Model(&models.Wheelchair{}).
		Where("serial = ?", serial).
		Updates(map[string]interface{}{
			"name":     name,
			"category": category,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWheelchairNotFound
	}
	return nil
}

// CheckoutUpdate 一次借还动作要落到轮椅记录上的全部字段
type CheckoutUpdate struct {
	Floor     string
	CheckIn   bool
	UserEmail string
	At        time.Time
}

func (r *Repo) ApplyCheckoutAction(ctx context.Context, serial string, u CheckoutUpdate) error {
	fields := map[string]interface{}{
		"floor":                  u.Floor,
		"checked_in":             u.CheckIn,
		"person_last_interacted": u.UserEmail,
		"updated_at":             u.At,
	}
	// 只刷新本次动作对应的时间戳,另一侧保留上一次的值
	if u.CheckIn {
		fields["last_check_in_time"] = u.At
	} else {
		fields["last_check_out_time"] = u.At
	}
	res := r.DB.WithContext(ctx).Model(&models.Wheelchair{}).
		Where("serial = ?", serial).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWheelchairNotFound
	}
	return nil
}

// DeleteWheelchair 删不存在的记录报 not found,而不是静默成功
func (r *Repo) DeleteWheelchair(ctx context.Context, serial string) error {
	res := r.DB.WithContext(ctx).Where("serial = ?", serial).Delete(&models.Wheelchair{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWheelchairNotFound
	}
	return nil
}
