package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silent-library/internal/domain"
)

func TestCatalogStats(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	e.seedBook(t, "Dune Messiah", "Frank Herbert", "Sci-Fi")
	out := e.seedBook(t, "Emma", "Jane Austen", "Classic")
	require.NoError(t, e.db.Model(&domain.Book{}).
		Where("id = ?", out.ID).
		Update("available_copies", 0).Error)

	s, err := e.stats.Catalog(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, s.TotalBooks)
	assert.EqualValues(t, 2, s.TotalCategories)
	assert.EqualValues(t, 2, s.TotalAuthors)
	assert.EqualValues(t, 2, s.AvailableBooks)
	assert.Len(t, s.RecentBooks, 3)
}

func TestDashboardStaffOnly(t *testing.T) {
	e := newTestEnv(t)
	alice := e.seedUser(t, "alice", false)

	_, err := e.stats.Dashboard(context.Background(), alice)
	assert.True(t, domain.IsForbidden(err))
	_, err = e.stats.Dashboard(context.Background(), domain.Anonymous)
	assert.True(t, domain.IsForbidden(err))
}

func TestDashboardTotalsAndTopRated(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	staff := e.seedUser(t, "librarian", true)
	alice := e.seedUser(t, "alice", false)
	bob := e.seedUser(t, "bob", false)

	good := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	meh := e.seedBook(t, "Filler", "Nobody", "Misc")
	e.seedBook(t, "Unrated", "Nobody", "Misc")

	for _, r := range []struct {
		who    domain.Identity
		book   string
		rating int
	}{
		{alice, good.ID, 5},
		{bob, good.ID, 4},
		{alice, meh.ID, 2},
	} {
		_, err := e.reviewSvc.Submit(ctx, r.who, r.book, r.rating, "")
		require.NoError(t, err)
	}

	d, err := e.stats.Dashboard(ctx, staff)
	require.NoError(t, err)
	assert.EqualValues(t, 3, d.TotalBooks)
	assert.EqualValues(t, 3, d.TotalUsers)
	assert.EqualValues(t, 3, d.TotalReviews)
	assert.Len(t, d.RecentReviews, 3)

	// 没有评价的书不参与排行
	require.Len(t, d.TopRatedBooks, 2)
	assert.Equal(t, good.ID, d.TopRatedBooks[0].ID)
	assert.Equal(t, 4.5, d.TopRatedBooks[0].AvgRating)
	assert.Equal(t, meh.ID, d.TopRatedBooks[1].ID)
}
