package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscribedFeedFollowsGraph(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")

	f.post(t, alice, "alice writes")
	bobPost := f.post(t, bob, "bob writes")
	f.post(t, carol, "carol writes")

	posts, total, err := f.feed.SubscribedFeed(ctx, alice.UserID, Page{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, posts)

	_, err = f.graph.Subscribe(ctx, alice, bob.UserID)
	require.NoError(t, err)

	posts, total, err = f.feed.SubscribedFeed(ctx, alice.UserID, Page{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, bobPost.ID, posts[0].ID)
	require.Equal(t, "bob", posts[0].User.Username)

	detail, err := f.feed.SubscribedPost(ctx, alice.UserID, bobPost.ID)
	require.NoError(t, err)
	require.Equal(t, bobPost.ID, detail.Post.ID)

	require.NoError(t, f.graph.Unsubscribe(ctx, alice, bob.UserID))

	posts, total, err = f.feed.SubscribedFeed(ctx, alice.UserID, Page{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, posts)

	_, err = f.feed.SubscribedPost(ctx, alice.UserID, bobPost.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLikedAndDislikedPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p1 := f.post(t, bob, "one")
	p2 := f.post(t, bob, "two")
	f.post(t, bob, "three")

	_, err := f.reactions.AddLike(ctx, alice, p1.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddLike(ctx, alice, p2.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddDislike(ctx, alice, p2.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddDislike(ctx, bob, p1.ID)
	require.NoError(t, err)

	liked, total, err := f.feed.LikedPosts(ctx, alice.UserID, Page{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, p2.ID, liked[0].ID)
	require.Equal(t, p1.ID, liked[1].ID)

	disliked, total, err := f.feed.DislikedPosts(ctx, alice.UserID, Page{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, p2.ID, disliked[0].ID)

	liked, total, err = f.feed.LikedPosts(ctx, bob.UserID, Page{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, liked)
}

func TestDetailAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	p := f.post(t, alice, "counted")

	bobLike, err := f.reactions.AddLike(ctx, bob, p.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddLike(ctx, carol, p.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddDislike(ctx, carol, p.ID)
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, bob, p.ID, "first")
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, carol, p.ID, "second")
	require.NoError(t, err)

	loaded, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	detail, err := f.feed.Detail(ctx, *loaded)
	require.NoError(t, err)
	require.EqualValues(t, 2, detail.LikesCount)
	require.EqualValues(t, 1, detail.DislikesCount)
	require.Len(t, detail.Comments, 2)
	require.Equal(t, "carol", detail.Comments[0].User.Username)

	stats, err := f.feed.Stats(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, PostStats{Likes: 2, Dislikes: 1, Comments: 2}, *stats)

	// Counts are derived on every read.
	require.NoError(t, f.reactions.RemoveLike(ctx, bob, bobLike.ID))
	stats, err = f.feed.Stats(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Likes)

	_, err = f.feed.Stats(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)

	totals, err := f.feed.Totals(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, totals.Users)
	require.EqualValues(t, 1, totals.Posts)
	require.EqualValues(t, 2, totals.Comments)
	require.EqualValues(t, 1, totals.Likes)
	require.EqualValues(t, 1, totals.Dislikes)
	require.Zero(t, totals.Subscriptions)
}
