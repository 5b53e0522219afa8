package repository

import (
	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
)

type TokenTrackerRepository struct {
	db *gorm.DB
}

func NewTokenTrackerRepository(db *gorm.DB) *TokenTrackerRepository {
	return &TokenTrackerRepository{db: db}
}

// NextToken 为指定商家在指定日期分配下一个取餐号。
// 整个分配在一个事务里完成：先对 (vendor_id, date) 行做自增更新，
// 行不存在时插入初始值 1；插入撞上唯一索引说明并发事务抢先建了行，
// 此时重试自增。同一天内号码严格递增且不重复，跨天自动从 1 重新开始。
func (r *TokenTrackerRepository) NextToken(vendorID int64, date string) (int, error) {
	var token int

	err := r.db.Transaction(func(tx *gorm.DB) error {
		incr := func() (bool, error) {
			result := tx.Model(&model.TokenTracker{}).
				Where("vendor_id = ? AND date = ?", vendorID, date).
				Update("last_token", gorm.Expr("last_token + 1"))
			if result.Error != nil {
				return false, result.Error
			}
			return result.RowsAffected > 0, nil
		}

		updated, err := incr()
		if err != nil {
			return err
		}

		if !updated {
			tracker := &model.TokenTracker{
				VendorID:  vendorID,
				Date:      date,
				LastToken: 1,
			}
			if err := tx.Create(tracker).Error; err != nil {
				// 唯一索引冲突：并发事务已建行，改走自增
				if updated, err = incr(); err != nil {
					return err
				}
				if !updated {
					return gorm.ErrRecordNotFound
				}
			} else {
				token = 1
				return nil
			}
		}

		var tracker model.TokenTracker
		if err := tx.Where("vendor_id = ? AND date = ?", vendorID, date).
			First(&tracker).Error; err != nil {
			return err
		}
		token = tracker.LastToken
		return nil
	})

	return token, err
}

// Get 查询某商家某天的号码记录，不存在时返回 gorm.ErrRecordNotFound
func (r *TokenTrackerRepository) Get(vendorID int64, date string) (*model.TokenTracker, error) {
	var tracker model.TokenTracker
	err := r.db.Where("vendor_id = ? AND date = ?", vendorID, date).First(&tracker).Error
	if err != nil {
		return nil, err
	}
	return &tracker, nil
}
