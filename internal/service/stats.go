package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"silent-library/internal/core/cache"
	"silent-library/internal/domain"
	"silent-library/internal/repo"
)

// StatsService 首页与员工后台的统计读。只有这些读走 redis；
// 单本书的评分聚合永远现算，不进缓存
type StatsService struct {
	books   *repo.BookRepo
	reviews *repo.ReviewRepo
	users   *repo.UserRepo
	cache   *cache.Cache // 可为 nil（测试 / 未配 redis）
	log     *zap.Logger
}

func NewStatsService(books *repo.BookRepo, reviews *repo.ReviewRepo, users *repo.UserRepo, c *cache.Cache, l *zap.Logger) *StatsService {
	return &StatsService{books: books, reviews: reviews, users: users, cache: c, log: l}
}

const (
	keyCatalogStats   = "stats:catalog"
	keyStaffDashboard = "stats:dashboard"

	catalogStatsTTL   = time.Minute
	staffDashboardTTL = 30 * time.Second
)

type CatalogStats struct {
	TotalBooks      int64         `json:"totalBooks"`
	TotalCategories int64         `json:"totalCategories"`
	TotalAuthors    int64         `json:"totalAuthors"`
	AvailableBooks  int64         `json:"availableBooks"`
	RecentBooks     []domain.Book `json:"recentBooks"`
}

func (s *StatsService) Catalog(ctx context.Context) (*CatalogStats, error) {
	if s.cache == nil {
		return s.loadCatalog(ctx)
	}
	return cache.GetOrLoadJSON[CatalogStats](s.cache, ctx, keyCatalogStats, catalogStatsTTL, s.loadCatalog)
}

func (s *StatsService) loadCatalog(ctx context.Context) (*CatalogStats, error) {
	var (
		out CatalogStats
		err error
	)
	if out.TotalBooks, err = s.books.Count(ctx); err != nil {
		return nil, err
	}
	if out.TotalCategories, err = s.books.CountDistinctCategories(ctx); err != nil {
		return nil, err
	}
	if out.TotalAuthors, err = s.books.CountDistinctAuthors(ctx); err != nil {
		return nil, err
	}
	if out.AvailableBooks, err = s.books.CountAvailable(ctx); err != nil {
		return nil, err
	}
	if out.RecentBooks, err = s.books.Recent(ctx, 8); err != nil {
		return nil, err
	}
	return &out, nil
}

type StaffDashboard struct {
	TotalBooks    int64            `json:"totalBooks"`
	TotalUsers    int64            `json:"totalUsers"`
	TotalReviews  int64            `json:"totalReviews"`
	RecentReviews []domain.Review  `json:"recentReviews"`
	TopRatedBooks []repo.RatedBook `json:"topRatedBooks"`
}

func (s *StatsService) Dashboard(ctx context.Context, ident domain.Identity) (*StaffDashboard, error) {
	if !ident.IsStaff {
		return nil, &domain.ForbiddenError{Msg: "you do not have permission to access the staff dashboard"}
	}
	if s.cache == nil {
		return s.loadDashboard(ctx)
	}
	return cache.GetOrLoadJSON[StaffDashboard](s.cache, ctx, keyStaffDashboard, staffDashboardTTL, s.loadDashboard)
}

func (s *StatsService) loadDashboard(ctx context.Context) (*StaffDashboard, error) {
	var (
		out StaffDashboard
		err error
	)
	if out.TotalBooks, err = s.books.Count(ctx); err != nil {
		return nil, err
	}
	if out.TotalUsers, err = s.users.CountProfiles(ctx); err != nil {
		return nil, err
	}
	if out.TotalReviews, err = s.reviews.Count(ctx); err != nil {
		return nil, err
	}
	if out.RecentReviews, err = s.reviews.Recent(ctx, 10); err != nil {
		return nil, err
	}
	if out.TopRatedBooks, err = s.books.TopRated(ctx, 5); err != nil {
		return nil, err
	}
	return &out, nil
}
