package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"silent-library/internal/domain"
	"silent-library/internal/repo"
	"silent-library/pkg/utils"
)

// CatalogService 图书目录。写操作入口处显式检查 staff 权限
type CatalogService struct {
	books   *repo.BookRepo
	reviews *repo.ReviewRepo
	log     *zap.Logger
}

func NewCatalogService(books *repo.BookRepo, reviews *repo.ReviewRepo, l *zap.Logger) *CatalogService {
	return &CatalogService{books: books, reviews: reviews, log: l}
}

type BookInput struct {
	Title           string    `json:"title" binding:"required,max=200"`
	Author          string    `json:"author" binding:"required,max=200"`
	ISBN            string    `json:"isbn" binding:"required"`
	Description     string    `json:"description"`
	Category        string    `json:"category" binding:"max=50"`
	CoverURL        string    `json:"coverUrl"`
	PublishedDate   time.Time `json:"publishedDate"`
	AvailableCopies *int      `json:"availableCopies"` // 缺省 1
}

func (in *BookInput) validate() error {
	if len(in.ISBN) != domain.ISBNLength {
		return &domain.ValidationError{Field: "isbn", Msg: "ISBN must be 13 characters"}
	}
	if in.AvailableCopies != nil && *in.AvailableCopies < 0 {
		return &domain.ValidationError{Field: "availableCopies", Msg: "must not be negative"}
	}
	return nil
}

func (in *BookInput) apply(b *domain.Book) {
	b.Title = strings.TrimSpace(in.Title)
	b.Author = strings.TrimSpace(in.Author)
	b.ISBN = in.ISBN
	b.Description = in.Description
	b.Category = in.Category
	b.CoverURL = in.CoverURL
	b.PublishedDate = in.PublishedDate
	if in.AvailableCopies != nil {
		b.AvailableCopies = *in.AvailableCopies
	}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Book, error) {
	return s.books.List(ctx)
}

func (s *CatalogService) Search(ctx context.Context, query, scope string) ([]domain.Book, error) {
	return s.books.Search(ctx, query, scope)
}

// BookDetail 书 + 评价 + 现算的聚合；登录用户还带上自己的评价
type BookDetail struct {
	Book       domain.Book          `json:"book"`
	Reviews    []domain.Review      `json:"reviews"`
	Rating     domain.RatingSummary `json:"rating"`
	UserReview *domain.Review       `json:"userReview,omitempty"`
}

func (s *CatalogService) Detail(ctx context.Context, ident domain.Identity, bookID string) (*BookDetail, error) {
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	summary, err := s.Rating(ctx, bookID)
	if err != nil {
		return nil, err
	}
	d := &BookDetail{Book: *b, Reviews: reviews, Rating: summary}
	if ident.Authenticated() {
		for i := range reviews {
			if reviews[i].UserID == ident.UserID {
				d.UserReview = &reviews[i]
				break
			}
		}
	}
	return d, nil
}

// Rating 按需聚合：平均分四舍五入到 1 位小数，无评价为 0
func (s *CatalogService) Rating(ctx context.Context, bookID string) (domain.RatingSummary, error) {
	avg, count, err := s.reviews.Aggregate(ctx, bookID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	if count == 0 {
		return domain.RatingSummary{}, nil
	}
	return domain.RatingSummary{
		Average: math.Round(avg*10) / 10,
		Count:   count,
	}, nil
}

func (s *CatalogService) Create(ctx context.Context, ident domain.Identity, in BookInput) (*domain.Book, error) {
	if !ident.IsStaff {
		return nil, &domain.ForbiddenError{Msg: "only library staff can add books"}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := domain.Book{ID: utils.NewID(), AvailableCopies: 1}
	in.apply(&b)
	if err := s.books.Create(ctx, &b); err != nil {
		return nil, err
	}
	s.log.Info("book created", zap.String("id", b.ID), zap.String("isbn", b.ISBN))
	return &b, nil
}

func (s *CatalogService) Update(ctx context.Context, ident domain.Identity, bookID string, in BookInput) (*domain.Book, error) {
	if !ident.IsStaff {
		return nil, &domain.ForbiddenError{Msg: "only library staff can edit books"}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	in.apply(b)
	if err := s.books.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *CatalogService) Delete(ctx context.Context, ident domain.Identity, bookID string) error {
	if !ident.IsStaff {
		return &domain.ForbiddenError{Msg: "only library staff can delete books"}
	}
	if err := s.books.Delete(ctx, bookID); err != nil {
		return err
	}
	s.log.Info("book deleted", zap.String("id", bookID), zap.String("by", ident.UserID))
	return nil
}
