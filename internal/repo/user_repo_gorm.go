package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"silent-library/internal/domain"
	"silent-library/pkg/utils"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// Create 用户和空档案在同一事务内落库，保证“有用户必有档案”
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Profile{ID: utils.NewID(), UserID: u.ID}).Error
	})
	if err != nil && isDupKey(err) {
		return &domain.ValidationError{Field: "username", Msg: "username or email already taken"}
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "user", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "user", ID: username}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		if isDupKey(err) {
			return &domain.ValidationError{Field: "email", Msg: "email already taken"}
		}
		return err
	}
	return nil
}

// Delete 评价、档案、用户在一个事务里按序清掉
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Profile{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &domain.NotFoundError{Entity: "user", ID: id}
		}
		return nil
	})
}

func (r *UserRepo) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Order("created_at desc").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) ProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "profile", ID: userID}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *UserRepo) SaveProfile(ctx context.Context, p *domain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// BackfillProfiles 给唯一索引出现前建的老用户补档案，可重复执行
func (r *UserRepo) BackfillProfiles(ctx context.Context) (int, error) {
	var orphans []domain.User
	err := r.db.WithContext(ctx).
		Where("id NOT IN (?)", r.db.Model(&domain.Profile{}).Select("user_id")).
		Find(&orphans).Error
	if err != nil {
		return 0, err
	}
	created := 0
	for i := range orphans {
		p := domain.Profile{ID: utils.NewID(), UserID: orphans[i].ID}
		if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
			if isDupKey(err) {
				continue // 并发补建也算成功
			}
			return created, err
		}
		created++
	}
	return created, nil
}

func (r *UserRepo) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Profile{}).Count(&n).Error
	return n, err
}
