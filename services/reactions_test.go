package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/socialhub/socialhub/models"
)

func TestLikeAndDislikeAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.post(t, bob, "opinions")

	_, err := f.reactions.AddLike(ctx, alice, p.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddDislike(ctx, alice, p.ID)
	require.NoError(t, err)

	likes, err := f.reactions.LikesCount(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, likes)
	dislikes, err := f.reactions.DislikesCount(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, dislikes)
}

func TestDuplicateReaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	p := f.post(t, alice, "self love")

	_, err := f.reactions.AddLike(ctx, alice, p.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddLike(ctx, alice, p.ID)
	require.ErrorIs(t, err, ErrDuplicateReaction)

	_, err = f.reactions.AddDislike(ctx, alice, p.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddDislike(ctx, alice, p.ID)
	require.ErrorIs(t, err, ErrDuplicateReaction)

	require.EqualValues(t, 1, f.count(t, &models.Like{}, "post_id = ?", p.ID))
}

func TestReactionRequiresExistingPost(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.reactions.AddLike(context.Background(), alice, 999)
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.reactions.AddDislike(context.Background(), Actor{}, 999)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestConcurrentLikesYieldOneRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.post(t, bob, "popular")

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.reactions.AddLike(ctx, alice, p.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case err == ErrDuplicateReaction:
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, dup)
	require.EqualValues(t, 1, f.count(t, &models.Like{}, "user_id = ? AND post_id = ?", alice.UserID, p.ID))
}

func TestRemoveReactionOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.post(t, bob, "target")

	like, err := f.reactions.AddLike(ctx, alice, p.ID)
	require.NoError(t, err)
	dislike, err := f.reactions.AddDislike(ctx, alice, p.ID)
	require.NoError(t, err)

	require.ErrorIs(t, f.reactions.RemoveLike(ctx, bob, like.ID), ErrForbidden)
	require.ErrorIs(t, f.reactions.RemoveDislike(ctx, bob, dislike.ID), ErrForbidden)
	require.EqualValues(t, 1, f.count(t, &models.Like{}, "id = ?", like.ID))
	require.EqualValues(t, 1, f.count(t, &models.Dislike{}, "id = ?", dislike.ID))

	require.NoError(t, f.reactions.RemoveLike(ctx, alice, like.ID))
	require.ErrorIs(t, f.reactions.RemoveLike(ctx, alice, like.ID), ErrNotFound)
	require.NoError(t, f.reactions.RemoveDislike(ctx, alice, dislike.ID))

	// A removed like can be placed again.
	_, err = f.reactions.AddLike(ctx, alice, p.ID)
	require.NoError(t, err)
}

func TestGetAndListReactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	golang := f.hashtag(t, alice, "golang")
	p1 := f.post(t, bob, "Go generics", golang.ID)
	p2 := f.post(t, alice, "Cooking")

	l1, err := f.reactions.AddLike(ctx, alice, p1.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddLike(ctx, bob, p2.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddDislike(ctx, bob, p1.ID)
	require.NoError(t, err)

	got, err := f.reactions.GetLike(ctx, l1.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.User.Username)
	require.Equal(t, "Go generics", got.Post.Title)
	require.Len(t, got.Post.Hashtags, 1)

	_, err = f.reactions.GetDislike(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)

	likes, total, err := f.reactions.ListLikes(ctx, ReactionFilter{}, Page{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, likes, 2)

	likes, total, err = f.reactions.ListLikes(ctx, ReactionFilter{Username: "ALI"}, Page{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, l1.ID, likes[0].ID)
	require.Equal(t, "Go generics", likes[0].Post.Title)

	_, total, err = f.reactions.ListLikes(ctx, ReactionFilter{Username: "bob", PostTitle: "generics"}, Page{})
	require.NoError(t, err)
	require.Zero(t, total)

	dislikes, total, err := f.reactions.ListDislikes(ctx, ReactionFilter{PostTitle: "GO"}, Page{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "bob", dislikes[0].User.Username)
}
