package service

import (
	"context"

	"go.uber.org/zap"

	"silent-library/internal/domain"
	"silent-library/internal/repo"
	"silent-library/pkg/utils"
)

type ReviewService struct {
	reviews *repo.ReviewRepo
	books   *repo.BookRepo
	log     *zap.Logger
}

func NewReviewService(reviews *repo.ReviewRepo, books *repo.BookRepo, l *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, books: books, log: l}
}

// Submit 新增评价。重复提交不产生第二条：
// 唯一索引触发 ConflictError，里面带着已有评价的 id
func (s *ReviewService) Submit(ctx context.Context, ident domain.Identity, bookID string, rating int, text string) (*domain.Review, error) {
	if !ident.Authenticated() {
		return nil, &domain.ForbiddenError{Msg: "login required"}
	}
	if !domain.ValidRating(rating) {
		return nil, &domain.ValidationError{Field: "rating", Msg: "rating must be between 1 and 5"}
	}
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}
	rv := domain.Review{
		ID:     utils.NewID(),
		BookID: bookID,
		UserID: ident.UserID,
		Rating: rating,
		Text:   text,
	}
	if err := s.reviews.Create(ctx, &rv); err != nil {
		return nil, err
	}
	s.log.Info("review added",
		zap.String("book", bookID),
		zap.String("user", ident.UserID),
		zap.Int("rating", rating),
	)
	return &rv, nil
}

// Edit 仅本人可编辑，员工也不行。创建时间和归属不动
func (s *ReviewService) Edit(ctx context.Context, ident domain.Identity, reviewID string, rating int, text string) (*domain.Review, error) {
	rv, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !ident.Owns(rv) {
		return nil, &domain.ForbiddenError{Msg: "you can only edit your own reviews"}
	}
	if !domain.ValidRating(rating) {
		return nil, &domain.ValidationError{Field: "rating", Msg: "rating must be between 1 and 5"}
	}
	rv.Rating = rating
	rv.Text = text
	if err := s.reviews.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// DeleteResult Moderated 为真表示员工删了别人的评价，提示语不同
type DeleteResult struct {
	BookID    string
	Moderated bool
}

func (s *ReviewService) Delete(ctx context.Context, ident domain.Identity, reviewID string) (*DeleteResult, error) {
	rv, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	owner := ident.Owns(rv)
	if !owner && !ident.IsStaff {
		return nil, &domain.ForbiddenError{Msg: "you can only delete your own reviews"}
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return nil, err
	}
	res := &DeleteResult{BookID: rv.BookID, Moderated: !owner}
	if res.Moderated {
		s.log.Info("review moderated",
			zap.String("review", reviewID),
			zap.String("owner", rv.UserID),
			zap.String("staff", ident.UserID),
		)
	}
	return res, nil
}
