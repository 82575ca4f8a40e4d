package mysql

import (
	"context"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	DB *gorm.DB
}

// List 当前收藏的成员ID集合
func (r *FavoriteRepository) List(ctx context.Context, memberID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Favorite{}).
		Where("member_id = ?", memberID).
		Order("favorite_id ASC").
		Pluck("favorite_id", &ids).Error
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "favorite list", err)
	}
	return ids, nil
}

// Replace 全量替换：客户端提交期望的完整集合，服务端算增删差集。
// 返回实际新增和删除的ID，幂等
func (r *FavoriteRepository) Replace(ctx context.Context, memberID uint64, desired []uint64) (added, removed []uint64, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []model.Favorite
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_id = ?", memberID).
			Find(&current).Error; err != nil {
			return pkg.Wrap(pkg.KindInternal, "favorite replace: load", err)
		}

		have := make(map[uint64]bool, len(current))
		for _, f := range current {
			have[f.FavoriteID] = true
		}
		want := make(map[uint64]bool, len(desired))
		for _, id := range desired {
			if id == memberID {
				return pkg.E(pkg.KindBadRequest, "favorite replace: cannot favorite self")
			}
			want[id] = true
		}

		for id := range want {
			if !have[id] {
				added = append(added, id)
			}
		}
		for id := range have {
			if !want[id] {
				removed = append(removed, id)
			}
		}

		for _, id := range added {
			if err := tx.Create(&model.Favorite{MemberID: memberID, FavoriteID: id}).Error; err != nil {
				return pkg.Wrap(pkg.KindInternal, "favorite replace: add", err)
			}
		}
		if len(removed) > 0 {
			if err := tx.Where("member_id = ? AND favorite_id IN ?", memberID, removed).
				Delete(&model.Favorite{}).Error; err != nil {
				return pkg.Wrap(pkg.KindInternal, "favorite replace: remove", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return added, removed, nil
}
