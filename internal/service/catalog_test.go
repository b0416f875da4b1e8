package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silent-library/internal/domain"
	"silent-library/internal/repo"
)

func bookInput(title, author, isbn string) BookInput {
	return BookInput{
		Title:         title,
		Author:        author,
		ISBN:          isbn,
		Category:      "Fiction",
		PublishedDate: time.Date(1960, 7, 11, 0, 0, 0, 0, time.UTC),
	}
}

func TestZeroReviewBookAggregates(t *testing.T) {
	e := newTestEnv(t)
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")

	sum, err := e.catalog.Rating(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sum.Average)
	assert.EqualValues(t, 0, sum.Count)
}

func TestBookWriteRequiresStaff(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.seedUser(t, "alice", false)
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")

	_, err := e.catalog.Create(ctx, alice, bookInput("X", "Y", "9780441013593"))
	assert.True(t, domain.IsForbidden(err))
	_, err = e.catalog.Update(ctx, alice, b.ID, bookInput("X", "Y", "9780441013593"))
	assert.True(t, domain.IsForbidden(err))
	err = e.catalog.Delete(ctx, alice, b.ID)
	assert.True(t, domain.IsForbidden(err))

	// 被拒后书还在
	_, err = e.books.FindByID(ctx, b.ID)
	assert.NoError(t, err)
}

func TestBookCreateDefaultsAndValidation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	staff := e.seedUser(t, "librarian", true)

	b, err := e.catalog.Create(ctx, staff, bookInput("Dune", "Frank Herbert", "9780441013593"))
	require.NoError(t, err)
	assert.Equal(t, 1, b.AvailableCopies) // 缺省一本

	_, err = e.catalog.Create(ctx, staff, bookInput("Short", "ISBN", "123"))
	assert.True(t, domain.IsValidation(err))

	neg := -2
	in := bookInput("Neg", "Copies", "9780441013594")
	in.AvailableCopies = &neg
	_, err = e.catalog.Create(ctx, staff, in)
	assert.True(t, domain.IsValidation(err))
}

func TestBookCreateDuplicateISBN(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	staff := e.seedUser(t, "librarian", true)

	_, err := e.catalog.Create(ctx, staff, bookInput("Dune", "Frank Herbert", "9780441013593"))
	require.NoError(t, err)
	_, err = e.catalog.Create(ctx, staff, bookInput("Dune reissue", "Frank Herbert", "9780441013593"))
	assert.True(t, domain.IsValidation(err))
}

func TestBookUpdate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	staff := e.seedUser(t, "librarian", true)
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")

	five := 5
	in := bookInput("Dune (Deluxe)", "Frank Herbert", b.ISBN)
	in.AvailableCopies = &five
	got, err := e.catalog.Update(ctx, staff, b.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Dune (Deluxe)", got.Title)
	assert.Equal(t, 5, got.AvailableCopies)

	_, err = e.catalog.Update(ctx, staff, "nope", in)
	assert.True(t, domain.IsNotFound(err))
}

// 删书连同评价一起清掉
func TestBookDeleteCascadesReviews(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	staff := e.seedUser(t, "librarian", true)
	alice := e.seedUser(t, "alice", false)
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	keep := e.seedBook(t, "Emma", "Jane Austen", "Classic")

	_, err := e.reviewSvc.Submit(ctx, alice, b.ID, 5, "")
	require.NoError(t, err)
	kept, err := e.reviewSvc.Submit(ctx, alice, keep.ID, 4, "")
	require.NoError(t, err)

	require.NoError(t, e.catalog.Delete(ctx, staff, b.ID))

	_, err = e.books.FindByID(ctx, b.ID)
	assert.True(t, domain.IsNotFound(err))
	n, err := e.reviews.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = e.reviews.FindByID(ctx, kept.ID)
	assert.NoError(t, err)
}

func TestListOrdersByTitle(t *testing.T) {
	e := newTestEnv(t)
	e.seedBook(t, "To Kill a Mockingbird", "Harper Lee", "Classic")
	e.seedBook(t, "1984", "George Orwell", "Dystopia")
	e.seedBook(t, "Emma", "Jane Austen", "Classic")

	books, err := e.catalog.List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "1984", books[0].Title)
	assert.Equal(t, "Emma", books[1].Title)
	assert.Equal(t, "To Kill a Mockingbird", books[2].Title)
}

func TestSearchScopes(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.seedBook(t, "To Kill a Mockingbird", "Harper Lee", "Classic")
	e.seedBook(t, "1984", "George Orwell", "Dystopia")

	// 大小写不敏感的子串匹配
	got, err := e.catalog.Search(ctx, "MOCKINGBIRD", repo.SearchTitle)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "To Kill a Mockingbird", got[0].Title)

	got, err = e.catalog.Search(ctx, "orwell", repo.SearchAuthor)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1984", got[0].Title)

	got, err = e.catalog.Search(ctx, "dysto", repo.SearchGenre)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// all 范围还包含简介
	got, err = e.catalog.Search(ctx, "about 1984", repo.SearchAll)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1984", got[0].Title)

	// 作用域不匹配就搜不到
	got, err = e.catalog.Search(ctx, "orwell", repo.SearchTitle)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchEmptyQueryReturnsCatalog(t *testing.T) {
	e := newTestEnv(t)
	e.seedBook(t, "To Kill a Mockingbird", "Harper Lee", "Classic")
	e.seedBook(t, "1984", "George Orwell", "Dystopia")

	got, err := e.catalog.Search(context.Background(), "   ", repo.SearchAll)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1984", got[0].Title) // 仍按书名排序
}

func TestSearchNoMatches(t *testing.T) {
	e := newTestEnv(t)
	e.seedBook(t, "1984", "George Orwell", "Dystopia")

	got, err := e.catalog.Search(context.Background(), "zzzz", repo.SearchAll)
	require.NoError(t, err)
	assert.Empty(t, got)
}
