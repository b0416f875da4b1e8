package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"silent-library/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create 直接插入，靠 (book_id, user_id) 唯一索引挡重复；
// 撞索引时带回已有评价的 id，调用方引导去编辑
func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	err := r.db.WithContext(ctx).Create(rv).Error
	if err == nil {
		return nil
	}
	if !isDupKey(err) {
		return err
	}
	var existing domain.Review
	if e := r.db.WithContext(ctx).
		First(&existing, "book_id = ? AND user_id = ?", rv.BookID, rv.UserID).Error; e != nil {
		return err
	}
	return &domain.ConflictError{
		Msg:      "you have already reviewed this book",
		ReviewID: existing.ID,
	}
}

func (r *ReviewRepo) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "review", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) FindByBookAndUser(ctx context.Context, bookID, userID string) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.WithContext(ctx).First(&rv, "book_id = ? AND user_id = ?", bookID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "review", ID: bookID + "/" + userID}
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// ListByBook 最新的在前
func (r *ReviewRepo) ListByBook(ctx context.Context, bookID string) ([]domain.Review, error) {
	var rvs []domain.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at desc").
		Find(&rvs).Error
	return rvs, err
}

func (r *ReviewRepo) Update(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Save(rv).Error
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "review", ID: id}
	}
	return nil
}

// Aggregate 活读：AVG/COUNT 现算，不落库不缓存
func (r *ReviewRepo) Aggregate(ctx context.Context, bookID string) (avg float64, count int64, err error) {
	var row struct {
		Avg float64
		Cnt int64
	}
	err = r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS cnt").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	return row.Avg, row.Cnt, err
}

func (r *ReviewRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Review{}).Count(&n).Error
	return n, err
}

// Recent 员工后台的最近评价
func (r *ReviewRepo) Recent(ctx context.Context, limit int) ([]domain.Review, error) {
	var rvs []domain.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Order("created_at desc").
		Limit(limit).
		Find(&rvs).Error
	return rvs, err
}
