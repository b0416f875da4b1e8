package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"silent-library/internal/domain"
	"silent-library/internal/repo"
	"silent-library/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接各自为政，收紧到单连接
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Profile{},
		&domain.Book{}, &domain.Review{},
	))
	return db
}

type testEnv struct {
	db      *gorm.DB
	books   *repo.BookRepo
	reviews *repo.ReviewRepo
	users   *repo.UserRepo

	catalog   *CatalogService
	reviewSvc *ReviewService
	userSvc   *UserService
	stats     *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	books := repo.NewBookRepo(db)
	reviews := repo.NewReviewRepo(db)
	users := repo.NewUserRepo(db)
	log := zap.NewNop()
	return &testEnv{
		db:        db,
		books:     books,
		reviews:   reviews,
		users:     users,
		catalog:   NewCatalogService(books, reviews, log),
		reviewSvc: NewReviewService(reviews, books, log),
		userSvc:   NewUserService(users, nil, log),
		stats:     NewStatsService(books, reviews, users, nil, log),
	}
}

func (e *testEnv) seedUser(t *testing.T, username string, staff bool) domain.Identity {
	t.Helper()
	u := domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: utils.HashPassword("s3cret-pass"),
		IsStaff:      staff,
	}
	require.NoError(t, e.users.Create(context.Background(), &u))
	return domain.Identity{UserID: u.ID, IsStaff: staff}
}

func (e *testEnv) seedBook(t *testing.T, title, author, category string) *domain.Book {
	t.Helper()
	b := domain.Book{
		ID:              utils.NewID(),
		Title:           title,
		Author:          author,
		ISBN:            utils.NewID()[:13],
		Description:     "about " + title,
		Category:        category,
		PublishedDate:   time.Date(1960, 7, 11, 0, 0, 0, 0, time.UTC),
		AvailableCopies: 1,
	}
	require.NoError(t, e.books.Create(context.Background(), &b))
	return &b
}
