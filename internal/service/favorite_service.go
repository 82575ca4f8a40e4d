package service

import (
	"context"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"
	"Park_Helper/internal/repository/mysql"
)

type FavoriteService struct {
	repo       *mysql.FavoriteRepository
	memberRepo *mysql.MemberRepository
}

func NewFavoriteService() *FavoriteService {
	return &FavoriteService{
		repo:       &mysql.FavoriteRepository{DB: mysql.DB},
		memberRepo: &mysql.MemberRepository{DB: mysql.DB},
	}
}

// List 收藏的成员列表（带姓名）
func (s *FavoriteService) List(ctx context.Context, memberID uint64) ([]model.Member, error) {
	ids, err := s.repo.List(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.memberRepo.FindByIDs(ids)
}

// Replace 全量替换收藏集合，返回本次实际的增删
func (s *FavoriteService) Replace(ctx context.Context, memberID uint64, desired []uint64) (added, removed []uint64, err error) {
	if memberID == 0 {
		return nil, nil, pkg.E(pkg.KindBadRequest, "favorite replace: invalid member")
	}
	return s.repo.Replace(ctx, memberID, desired)
}
