package mysql

import (
	"Park_Helper/internal/model"

	"gorm.io/gorm"
)

type MemberRepository struct {
	DB *gorm.DB
}

func (r *MemberRepository) Create(member *model.Member) error {
	return r.DB.Create(member).Error
}

func (r *MemberRepository) FindByUsername(username string) (*model.Member, error) {
	var member model.Member
	err := r.DB.Where("username = ? OR email = ?", username, username).First(&member).Error
	return &member, err
}

func (r *MemberRepository) FindByID(id uint64) (*model.Member, error) {
	var member model.Member
	err := r.DB.First(&member, id).Error
	return &member, err
}

func (r *MemberRepository) FindByIDs(ids []uint64) ([]model.Member, error) {
	var list []model.Member
	err := r.DB.Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *MemberRepository) UpdatePassword(member *model.Member, newPassword string) error {
	return r.DB.Model(member).Update("password", newPassword).Error
}
