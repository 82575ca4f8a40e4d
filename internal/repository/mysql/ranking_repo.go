package mysql

import (
	"context"
	"time"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"

	"gorm.io/gorm"
)

type RankingRepository struct {
	DB *gorm.DB
}

// MemberCompleted 某个成员本期完成的帮忙数量
type MemberCompleted struct {
	MemberID  uint64 `json:"member_id"`
	Name      string `json:"name"`
	Completed int    `json:"completed"`
}

// MonthCompleted 月初到现在每个认领方完成的单元数，排行榜的原始数据
func (r *RankingRepository) MonthCompleted(ctx context.Context, from, to time.Time) ([]MemberCompleted, error) {
	var list []MemberCompleted
	err := r.DB.WithContext(ctx).Model(&model.HelpUnit{}).
		Select("help_units.counterparty_id AS member_id, members.name AS name, COUNT(*) AS completed").
		Joins("JOIN members ON members.id = help_units.counterparty_id").
		Where("help_units.status = ? AND help_units.applied_at >= ? AND help_units.applied_at < ?",
			model.StatusCompleted, from, to).
		Group("help_units.counterparty_id, members.name").
		Find(&list).Error
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "ranking month completed", err)
	}
	return list, nil
}
