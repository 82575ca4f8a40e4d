package service

import (
	"errors"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"
	"Park_Helper/internal/repository/mysql"
	"Park_Helper/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
)

type MemberService struct {
	repo    *mysql.MemberRepository
	rMember *redis.MemberRepository
}

func NewMemberService() *MemberService {
	return &MemberService{
		repo:    &mysql.MemberRepository{DB: mysql.DB},
		rMember: &redis.MemberRepository{},
	}
}

func (s *MemberService) Register(username, password, name, email, carNumber string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	member := &model.Member{
		Username:  username,
		Password:  string(hash),
		Name:      name,
		Email:     email,
		CarNumber: carNumber,
	}

	return s.repo.Create(member)
}

func (s *MemberService) Login(username, password string) (*pkg.Pair, error) {
	member, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, errors.New("member not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(password)) != nil {
		return nil, errors.New("invalid password")
	}
	// 将token写入redis，新登录顶掉旧会话
	token, err := pkg.GeneratePair(member.ID)
	if err != nil {
		return nil, err
	}
	err = s.rMember.AddMemberToken(member.ID, token.AccessToken)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (s *MemberService) Logout(memberID uint64) error {
	if err := s.rMember.DeleteMemberToken(memberID); err != nil {
		return err
	}
	return nil
}

func (s *MemberService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ChangePassword 登录态修改密码
func (s *MemberService) ChangePassword(memberID uint64, oldPassword, newPassword string) error {
	member, err := s.repo.FindByID(memberID)
	if err != nil {
		return err
	}

	err = bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(oldPassword))
	if err != nil {
		return errors.New("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(member, string(hash))
}

func (s *MemberService) Profile(memberID uint64) (*model.Member, error) {
	return s.repo.FindByID(memberID)
}
