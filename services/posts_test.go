package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/socialhub/socialhub/models"
)

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	tag := f.hashtag(t, alice, "golang")

	p := f.post(t, alice, "first", tag.ID, tag.ID)
	require.Equal(t, alice.UserID, p.UserID)
	require.Equal(t, "alice", p.User.Username)
	require.Len(t, p.Hashtags, 1)
	require.Equal(t, "golang", p.Hashtags[0].Name)

	_, err := f.posts.Create(ctx, Actor{}, PostInput{Title: "x", Content: "y"})
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.posts.Create(ctx, alice, PostInput{Title: "   ", Content: "y"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.posts.Create(ctx, alice, PostInput{Title: "x", Content: ""})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.posts.Create(ctx, alice, PostInput{Title: "x", Content: "y", HashtagIDs: []uint{tag.ID + 100}})
	require.ErrorIs(t, err, ErrValidation)
	require.EqualValues(t, 1, f.count(t, &models.Post{}, "1 = 1"))

	marked, err := f.posts.Create(ctx, alice, PostInput{Title: "<b>bold</b> title", Content: "<p>kept</p><script>x()</script>"})
	require.NoError(t, err)
	require.Equal(t, "bold title", marked.Title)
	require.Equal(t, "<p>kept</p>", marked.Content)
}

func TestUpdatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	golang := f.hashtag(t, alice, "golang")
	rust := f.hashtag(t, alice, "rust")
	p := f.post(t, alice, "draft", golang.ID)

	title := "stolen"
	_, err := f.posts.Update(ctx, bob, p.ID, PostUpdate{Title: &title})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.posts.Update(ctx, alice, p.ID+100, PostUpdate{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)

	title = "final"
	tags := []uint{rust.ID}
	updated, err := f.posts.Update(ctx, alice, p.ID, PostUpdate{Title: &title, HashtagIDs: &tags})
	require.NoError(t, err)
	require.Equal(t, "final", updated.Title)
	require.Equal(t, p.Content, updated.Content)
	require.Len(t, updated.Hashtags, 1)
	require.Equal(t, rust.ID, updated.Hashtags[0].ID)

	empty := []uint{}
	updated, err = f.posts.Update(ctx, alice, p.ID, PostUpdate{HashtagIDs: &empty})
	require.NoError(t, err)
	require.Empty(t, updated.Hashtags)
}

func TestDeletePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.post(t, alice, "doomed")

	_, err := f.reactions.AddLike(ctx, bob, p.ID)
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, bob, p.ID, "first")
	require.NoError(t, err)

	_, err = f.posts.Delete(ctx, bob, p.ID)
	require.ErrorIs(t, err, ErrForbidden)
	require.EqualValues(t, 1, f.count(t, &models.Post{}, "id = ?", p.ID))

	_, err = f.posts.Delete(ctx, alice, p.ID)
	require.NoError(t, err)
	require.Zero(t, f.count(t, &models.Post{}, "id = ?", p.ID))
	require.Zero(t, f.count(t, &models.Like{}, "post_id = ?", p.ID))
	require.Zero(t, f.count(t, &models.Comment{}, "post_id = ?", p.ID))

	_, err = f.posts.Delete(ctx, alice, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetPhotoReturnsPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.post(t, alice, "with photo")

	prev, err := f.posts.SetPhoto(ctx, alice, p.ID, "post_photos/one.png")
	require.NoError(t, err)
	require.Empty(t, prev)

	prev, err = f.posts.SetPhoto(ctx, alice, p.ID, "post_photos/two.png")
	require.NoError(t, err)
	require.Equal(t, "post_photos/one.png", prev)

	_, err = f.posts.SetPhoto(ctx, bob, p.ID, "post_photos/three.png")
	require.ErrorIs(t, err, ErrForbidden)

	got, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "post_photos/two.png", got.Photo)
}

func TestListPostsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bobby")
	golang := f.hashtag(t, alice, "golang")
	rust := f.hashtag(t, alice, "rust")

	p1 := f.post(t, alice, "Learning Go", golang.ID)
	p2 := f.post(t, bob, "Go channels", golang.ID, rust.ID)
	p3 := f.post(t, bob, "Rust lifetimes", rust.ID)

	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 23, 30, 0, 0, time.UTC)
	require.NoError(t, f.db.Model(&models.Post{}).Where("id = ?", p1.ID).UpdateColumn("created_at", day1).Error)
	require.NoError(t, f.db.Model(&models.Post{}).Where("id = ?", p2.ID).UpdateColumn("created_at", day2).Error)
	require.NoError(t, f.db.Model(&models.Post{}).Where("id = ?", p3.ID).UpdateColumn("created_at", day2.Add(-time.Hour)).Error)

	ids := func(filter PostFilter) []uint {
		posts, total, err := f.posts.List(ctx, filter, Page{Number: 1, Size: 50})
		require.NoError(t, err)
		require.EqualValues(t, len(posts), total)
		out := make([]uint, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	require.Equal(t, []uint{p2.ID, p3.ID, p1.ID}, ids(PostFilter{}))
	require.Equal(t, []uint{p2.ID, p3.ID}, ids(PostFilter{AuthorUsername: "BOB"}))
	require.Equal(t, []uint{p2.ID, p1.ID}, ids(PostFilter{Title: "go"}))
	require.Equal(t, []uint{p1.ID}, ids(PostFilter{DatePosted: &day1}))
	require.Equal(t, []uint{p2.ID, p3.ID}, ids(PostFilter{DatePosted: &day2}))
	require.Equal(t, []uint{p2.ID, p3.ID}, ids(PostFilter{Hashtags: []string{"rust"}}))
	require.Equal(t, []uint{p2.ID, p3.ID, p1.ID}, ids(PostFilter{Hashtags: []string{"rust", "golang"}}))

	// Every supplied criterion must hold.
	require.Equal(t, []uint{p2.ID}, ids(PostFilter{AuthorUsername: "bob", Title: "go", Hashtags: []string{"golang"}}))
	require.Empty(t, ids(PostFilter{AuthorUsername: "alice", DatePosted: &day2}))
	require.Empty(t, ids(PostFilter{Title: "%"}))
}

func TestListPostsPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	for _, title := range []string{"one", "two", "three", "four", "five"} {
		f.post(t, alice, title)
	}

	posts, total, err := f.posts.List(ctx, PostFilter{}, Page{Number: 2, Size: 2})
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, posts, 2)
	require.Equal(t, "three", posts[0].Title)
	require.Equal(t, "two", posts[1].Title)

	mine, total, err := f.posts.ListByAuthor(ctx, alice.UserID, Page{Number: 3, Size: 2})
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, mine, 1)
	require.Equal(t, "one", mine[0].Title)
}

func TestGetByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.post(t, alice, "mine")

	got, err := f.posts.GetByAuthor(ctx, alice.UserID, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	_, err = f.posts.GetByAuthor(ctx, bob.UserID, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
