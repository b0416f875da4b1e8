package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"silent-library/internal/core/mailer"
	"silent-library/internal/domain"
	"silent-library/internal/repo"
	"silent-library/pkg/utils"
)

// ErrBadCredentials 登录失败，handler 映射成 401
var ErrBadCredentials = errors.New("invalid username or password")

type UserService struct {
	users *repo.UserRepo
	mail  *mailer.Mailer // 可为 nil（测试）
	log   *zap.Logger
}

func NewUserService(users *repo.UserRepo, mail *mailer.Mailer, l *zap.Logger) *UserService {
	return &UserService{users: users, mail: mail, log: l}
}

type RegisterInput struct {
	Username  string `json:"username" binding:"required,max=64"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"max=64"`
	LastName  string `json:"lastName" binding:"max=64"`
}

// Register 用户和档案一次事务建好；欢迎邮件异步发，失败只记日志
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" {
		return nil, &domain.ValidationError{Field: "username", Msg: "must not be empty"}
	}
	u := domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: utils.HashPassword(in.Password),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("id", u.ID), zap.String("username", u.Username))
	if s.mail != nil {
		go s.mail.SendWelcome(u.Email, u.FirstName, u.Username)
	}
	return &u, nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Account 用户 + 档案（档案缺失时现场补建，老数据兜底）
func (s *UserService) Account(ctx context.Context, ident domain.Identity) (*domain.User, *domain.Profile, error) {
	u, err := s.users.FindByID(ctx, ident.UserID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.users.ProfileByUserID(ctx, ident.UserID)
	if domain.IsNotFound(err) {
		p = &domain.Profile{ID: utils.NewID(), UserID: ident.UserID}
		if err = s.users.SaveProfile(ctx, p); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

type ProfileInput struct {
	FirstName   string     `json:"firstName" binding:"max=64"`
	LastName    string     `json:"lastName" binding:"max=64"`
	Email       string     `json:"email" binding:"required,email"`
	Phone       string     `json:"phone" binding:"max=15"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	PictureURL  string     `json:"pictureUrl"`
}

func (s *UserService) UpdateProfile(ctx context.Context, ident domain.Identity, in ProfileInput) (*domain.User, *domain.Profile, error) {
	u, p, err := s.Account(ctx, ident)
	if err != nil {
		return nil, nil, err
	}
	u.FirstName = strings.TrimSpace(in.FirstName)
	u.LastName = strings.TrimSpace(in.LastName)
	u.Email = strings.TrimSpace(in.Email)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, nil, err
	}
	p.Phone = in.Phone
	p.Address = in.Address
	p.DateOfBirth = in.DateOfBirth
	p.PictureURL = in.PictureURL
	if err := s.users.SaveProfile(ctx, p); err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// Remove 员工移除用户，档案和评价随之清掉
func (s *UserService) Remove(ctx context.Context, ident domain.Identity, userID string) error {
	if !ident.IsStaff {
		return &domain.ForbiddenError{Msg: "staff only"}
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info("user removed", zap.String("id", userID), zap.String("by", ident.UserID))
	return nil
}

func (s *UserService) List(ctx context.Context, ident domain.Identity, offset, limit int, q string) ([]domain.User, int64, error) {
	if !ident.IsStaff {
		return nil, 0, &domain.ForbiddenError{Msg: "staff only"}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(ctx, offset, limit, q)
}

// BackfillProfiles 幂等补档案
func (s *UserService) BackfillProfiles(ctx context.Context, ident domain.Identity) (int, error) {
	if !ident.IsStaff {
		return 0, &domain.ForbiddenError{Msg: "staff only"}
	}
	n, err := s.users.BackfillProfiles(ctx)
	if err == nil && n > 0 {
		s.log.Info("profiles backfilled", zap.Int("created", n))
	}
	return n, err
}
