package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"silent-library/internal/domain"
)

// 搜索范围
const (
	SearchTitle  = "title"
	SearchAuthor = "author"
	SearchGenre  = "genre"
	SearchAll    = "all"
)

type BookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

func (r *BookRepo) Create(ctx context.Context, b *domain.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isDupKey(err) {
			return &domain.ValidationError{Field: "isbn", Msg: "a book with this ISBN already exists"}
		}
		return err
	}
	return nil
}

func (r *BookRepo) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	var b domain.Book
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "book", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List 全量目录，按书名排序
func (r *BookRepo) List(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	err := r.db.WithContext(ctx).Order("title asc").Find(&books).Error
	return books, err
}

// Search 大小写不敏感的子串匹配；query 为空等价 List
func (r *BookRepo) Search(ctx context.Context, query, scope string) ([]domain.Book, error) {
	q := r.db.WithContext(ctx).Model(&domain.Book{})
	if s := strings.TrimSpace(query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		switch scope {
		case SearchTitle:
			q = q.Where("LOWER(title) LIKE ?", like)
		case SearchAuthor:
			q = q.Where("LOWER(author) LIKE ?", like)
		case SearchGenre:
			q = q.Where("LOWER(category) LIKE ?", like)
		default: // all
			q = q.Where(
				"LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(category) LIKE ? OR LOWER(description) LIKE ?",
				like, like, like, like,
			)
		}
	}
	var books []domain.Book
	err := q.Order("title asc").Find(&books).Error
	return books, err
}

func (r *BookRepo) Update(ctx context.Context, b *domain.Book) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		if isDupKey(err) {
			return &domain.ValidationError{Field: "isbn", Msg: "a book with this ISBN already exists"}
		}
		return err
	}
	return nil
}

// Delete 先删子表评价再删书，一个事务内完成级联
func (r *BookRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Book{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &domain.NotFoundError{Entity: "book", ID: id}
		}
		return nil
	})
}

func (r *BookRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Book{}).Count(&n).Error
	return n, err
}

func (r *BookRepo) CountDistinctCategories(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Book{}).Distinct("category").Count(&n).Error
	return n, err
}

func (r *BookRepo) CountDistinctAuthors(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Book{}).Distinct("author").Count(&n).Error
	return n, err
}

func (r *BookRepo) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Book{}).Where("available_copies > 0").Count(&n).Error
	return n, err
}

// Recent 最近上架，首页展示用
func (r *BookRepo) Recent(ctx context.Context, limit int) ([]domain.Book, error) {
	var books []domain.Book
	err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&books).Error
	return books, err
}

type RatedBook struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	AvgRating float64 `json:"avgRating"`
}

// TopRated 仅有评价的书参与排序
func (r *BookRepo) TopRated(ctx context.Context, limit int) ([]RatedBook, error) {
	var rows []RatedBook
	err := r.db.WithContext(ctx).
		Table("books").
		Select("books.id, books.title, books.author, AVG(reviews.rating) AS avg_rating").
		Joins("JOIN reviews ON reviews.book_id = books.id").
		Group("books.id, books.title, books.author").
		Order("avg_rating desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
