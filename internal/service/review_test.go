package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silent-library/internal/domain"
)

func TestSubmitReviewRequiresLogin(t *testing.T) {
	e := newTestEnv(t)
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")

	_, err := e.reviewSvc.Submit(context.Background(), domain.Anonymous, b.ID, 5, "great")
	assert.True(t, domain.IsForbidden(err))
}

func TestSubmitReviewValidatesRating(t *testing.T) {
	e := newTestEnv(t)
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	alice := e.seedUser(t, "alice", false)

	for _, bad := range []int{0, 6, -1} {
		_, err := e.reviewSvc.Submit(context.Background(), alice, b.ID, bad, "")
		assert.True(t, domain.IsValidation(err), "rating %d should be rejected", bad)
	}
}

func TestSubmitReviewUnknownBook(t *testing.T) {
	e := newTestEnv(t)
	alice := e.seedUser(t, "alice", false)

	_, err := e.reviewSvc.Submit(context.Background(), alice, "nope", 4, "")
	assert.True(t, domain.IsNotFound(err))
}

// 同一人对同一本书只能有一条评价，重复提交拿回已有评价的 id
func TestSubmitReviewDuplicate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	alice := e.seedUser(t, "alice", false)

	first, err := e.reviewSvc.Submit(ctx, alice, b.ID, 5, "loved it")
	require.NoError(t, err)

	_, err = e.reviewSvc.Submit(ctx, alice, b.ID, 3, "changed my mind")
	conflict, ok := domain.AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, first.ID, conflict.ReviewID)

	// 没有第二条
	n, err := e.reviews.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// 原评价原封不动
	got, err := e.reviews.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "loved it", got.Text)
}

func TestAggregateFollowsEdits(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	alice := e.seedUser(t, "alice", false)
	bob := e.seedUser(t, "bob", false)

	rvA, err := e.reviewSvc.Submit(ctx, alice, b.ID, 5, "")
	require.NoError(t, err)

	sum, err := e.catalog.Rating(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, sum.Average)
	assert.EqualValues(t, 1, sum.Count)

	_, err = e.reviewSvc.Submit(ctx, bob, b.ID, 3, "")
	require.NoError(t, err)

	sum, err = e.catalog.Rating(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, sum.Average)
	assert.EqualValues(t, 2, sum.Count)

	// alice 改成 1 星，平均分立刻跟着变
	_, err = e.reviewSvc.Edit(ctx, alice, rvA.ID, 1, "rereading soured it")
	require.NoError(t, err)

	sum, err = e.catalog.Rating(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, sum.Average)
	assert.EqualValues(t, 2, sum.Count)
}

func TestAggregateRoundsToOneDecimal(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")

	for i, rating := range []int{5, 4, 4} { // 13/3 = 4.333...
		u := e.seedUser(t, "reader"+string(rune('a'+i)), false)
		_, err := e.reviewSvc.Submit(ctx, u, b.ID, rating, "")
		require.NoError(t, err)
	}

	sum, err := e.catalog.Rating(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, sum.Average)
	assert.EqualValues(t, 3, sum.Count)
}

func TestEditReviewOwnerOnly(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	alice := e.seedUser(t, "alice", false)
	bob := e.seedUser(t, "bob", false)
	staff := e.seedUser(t, "librarian", true)

	rv, err := e.reviewSvc.Submit(ctx, alice, b.ID, 5, "original")
	require.NoError(t, err)

	// 其他用户不行，员工也不行
	_, err = e.reviewSvc.Edit(ctx, bob, rv.ID, 1, "hijack")
	assert.True(t, domain.IsForbidden(err))
	_, err = e.reviewSvc.Edit(ctx, staff, rv.ID, 1, "hijack")
	assert.True(t, domain.IsForbidden(err))

	got, err := e.reviews.FindByID(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)
}

func TestEditReviewKeepsCreationAndOwner(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	alice := e.seedUser(t, "alice", false)

	rv, err := e.reviewSvc.Submit(ctx, alice, b.ID, 2, "first pass")
	require.NoError(t, err)
	createdAt := rv.CreatedAt

	edited, err := e.reviewSvc.Edit(ctx, alice, rv.ID, 4, "grew on me")
	require.NoError(t, err)
	assert.Equal(t, 4, edited.Rating)
	assert.Equal(t, "grew on me", edited.Text)
	assert.Equal(t, alice.UserID, edited.UserID)
	assert.True(t, edited.CreatedAt.Equal(createdAt))
}

func TestEditReviewValidatesRating(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	alice := e.seedUser(t, "alice", false)

	rv, err := e.reviewSvc.Submit(ctx, alice, b.ID, 3, "")
	require.NoError(t, err)

	_, err = e.reviewSvc.Edit(ctx, alice, rv.ID, 6, "")
	assert.True(t, domain.IsValidation(err))
}

func TestDeleteReviewOwnerAndStaff(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	alice := e.seedUser(t, "alice", false)
	bob := e.seedUser(t, "bob", false)
	staff := e.seedUser(t, "librarian", true)

	// 本人删自己的
	rv, err := e.reviewSvc.Submit(ctx, alice, b.ID, 5, "")
	require.NoError(t, err)
	res, err := e.reviewSvc.Delete(ctx, alice, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, res.BookID)
	assert.False(t, res.Moderated)

	// 无关用户不能删别人的
	rv, err = e.reviewSvc.Submit(ctx, alice, b.ID, 5, "")
	require.NoError(t, err)
	_, err = e.reviewSvc.Delete(ctx, bob, rv.ID)
	assert.True(t, domain.IsForbidden(err))

	// 员工可以删，标记为管理操作
	res, err = e.reviewSvc.Delete(ctx, staff, rv.ID)
	require.NoError(t, err)
	assert.True(t, res.Moderated)

	n, err := e.reviews.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestDeleteReviewUnknown(t *testing.T) {
	e := newTestEnv(t)
	alice := e.seedUser(t, "alice", false)

	_, err := e.reviewSvc.Delete(context.Background(), alice, "nope")
	assert.True(t, domain.IsNotFound(err))
}

// 删除后可以再次评价同一本书
func TestResubmitAfterDelete(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	alice := e.seedUser(t, "alice", false)

	rv, err := e.reviewSvc.Submit(ctx, alice, b.ID, 2, "")
	require.NoError(t, err)
	_, err = e.reviewSvc.Delete(ctx, alice, rv.ID)
	require.NoError(t, err)

	again, err := e.reviewSvc.Submit(ctx, alice, b.ID, 4, "second chance")
	require.NoError(t, err)
	assert.NotEqual(t, rv.ID, again.ID)
}

func TestBookDetailListsReviewsNewestFirst(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.seedBook(t, "Dune", "Frank Herbert", "Sci-Fi")
	alice := e.seedUser(t, "alice", false)
	bob := e.seedUser(t, "bob", false)

	old, err := e.reviewSvc.Submit(ctx, alice, b.ID, 5, "older")
	require.NoError(t, err)
	// 拉开时间差，排序才可判定
	require.NoError(t, e.db.Model(&domain.Review{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer, err := e.reviewSvc.Submit(ctx, bob, b.ID, 3, "newer")
	require.NoError(t, err)

	d, err := e.catalog.Detail(ctx, alice, b.ID)
	require.NoError(t, err)
	require.Len(t, d.Reviews, 2)
	assert.Equal(t, newer.ID, d.Reviews[0].ID)
	assert.Equal(t, old.ID, d.Reviews[1].ID)

	// 登录用户能看到自己的那条
	require.NotNil(t, d.UserReview)
	assert.Equal(t, old.ID, d.UserReview.ID)

	// 匿名访客没有 userReview
	d, err = e.catalog.Detail(ctx, domain.Anonymous, b.ID)
	require.NoError(t, err)
	assert.Nil(t, d.UserReview)
}
