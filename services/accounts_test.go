package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/socialhub/socialhub/models"
	"github.com/socialhub/socialhub/utils"
)

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"short username":  {Username: "ab", Email: "ab@example.com", Password: "password123"},
		"bad characters":  {Username: "bad name", Email: "bad@example.com", Password: "password123"},
		"invalid email":   {Username: "carol", Email: "not-an-email", Password: "password123"},
		"missing email":   {Username: "carol", Password: "password123"},
		"short password":  {Username: "carol", Email: "carol@example.com", Password: "short"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.accounts.Register(ctx, in)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterStoresHashAndNormalizedEmail(t *testing.T) {
	f := newFixture(t)

	u, err := f.accounts.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "  Alice@Example.COM ",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.NotEqual(t, "password123", u.PasswordHash)
	require.True(t, utils.CheckPassword(u.PasswordHash, "password123"))
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "alice")

	_, err := f.accounts.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrDuplicateAccount)

	_, err = f.accounts.Register(ctx, RegisterInput{Username: "alice2", Email: "ALICE@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	u, err := f.accounts.Authenticate(ctx, "alice", "password123")
	require.NoError(t, err)
	require.Equal(t, alice.UserID, u.ID)

	_, err = f.accounts.Authenticate(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.accounts.Authenticate(ctx, "nobody", "password123")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "AliceSmith")
	f.user(t, "malice")
	f.user(t, "bob")

	users, total, err := f.accounts.Search(ctx, "ALIC", Page{Number: 1, Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, users, 2)

	_, total, err = f.accounts.Search(ctx, "%", Page{})
	require.NoError(t, err)
	require.Zero(t, total)

	_, total, err = f.accounts.Search(ctx, "", Page{})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	f.user(t, "bob")

	first, about := "Alice", "likes <b>go</b><script>alert(1)</script>"
	u, err := f.accounts.UpdateProfile(ctx, alice, ProfileInput{FirstName: &first, AboutMe: &about})
	require.NoError(t, err)
	require.Equal(t, "Alice", u.FirstName)
	require.Equal(t, "alice@example.com", u.Email)
	require.NotContains(t, u.AboutMe, "script")

	taken := "bob@example.com"
	_, err = f.accounts.UpdateProfile(ctx, alice, ProfileInput{Email: &taken})
	require.ErrorIs(t, err, ErrDuplicateAccount)

	password := "new-password"
	_, err = f.accounts.UpdateProfile(ctx, alice, ProfileInput{Password: &password})
	require.NoError(t, err)
	_, err = f.accounts.Authenticate(ctx, "alice", "new-password")
	require.NoError(t, err)

	_, err = f.accounts.UpdateProfile(ctx, Actor{}, ProfileInput{FirstName: &first})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRenameAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	f.user(t, "bob")

	for _, bad := range []string{"ab", "has space", ""} {
		name := bad
		_, err := f.accounts.UpdateProfile(ctx, alice, ProfileInput{Username: &name})
		require.ErrorIs(t, err, ErrValidation, bad)
	}

	taken := "bob"
	_, err := f.accounts.UpdateProfile(ctx, alice, ProfileInput{Username: &taken})
	require.ErrorIs(t, err, ErrDuplicateAccount)

	renamed := " alicia "
	u, err := f.accounts.UpdateProfile(ctx, alice, ProfileInput{Username: &renamed})
	require.NoError(t, err)
	require.Equal(t, "alicia", u.Username)

	name, found, err := f.accounts.ActiveUsername(ctx, alice.UserID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "alicia", name)
}

func TestActiveUsernameAfterDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	_, err := f.accounts.Delete(ctx, alice)
	require.NoError(t, err)

	name, found, err := f.accounts.ActiveUsername(ctx, alice.UserID)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, name)
}

func TestDeleteAccountCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	tag := f.hashtag(t, alice, "golang")

	alicePost := f.post(t, alice, "alice post", tag.ID)
	bobPost := f.post(t, bob, "bob post")
	require.NoError(t, f.db.Model(alicePost).Update("photo", "post_photos/a.jpg").Error)

	_, err := f.graph.Subscribe(ctx, bob, alice.UserID)
	require.NoError(t, err)
	_, err = f.graph.Subscribe(ctx, alice, bob.UserID)
	require.NoError(t, err)
	_, err = f.reactions.AddLike(ctx, alice, bobPost.ID)
	require.NoError(t, err)
	_, err = f.reactions.AddDislike(ctx, bob, alicePost.ID)
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, alice, bobPost.ID, "nice")
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, bob, alicePost.ID, "hello")
	require.NoError(t, err)

	photos, err := f.accounts.Delete(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, []string{"post_photos/a.jpg"}, photos)

	require.Zero(t, f.count(t, &models.User{}, "id = ?", alice.UserID))
	require.Zero(t, f.count(t, &models.Post{}, "user_id = ?", alice.UserID))
	require.Zero(t, f.count(t, &models.Comment{}, "user_id = ? OR post_id = ?", alice.UserID, alicePost.ID))
	require.Zero(t, f.count(t, &models.Like{}, "user_id = ?", alice.UserID))
	require.Zero(t, f.count(t, &models.Dislike{}, "post_id = ?", alicePost.ID))
	require.Zero(t, f.count(t, &models.Subscription{}, "subscriber_id = ? OR subscribed_id = ?", alice.UserID, alice.UserID))

	var links int64
	require.NoError(t, f.db.Table("post_hashtags").Where("post_id = ?", alicePost.ID).Count(&links).Error)
	require.Zero(t, links)

	// Bob's feed no longer shows anything from the removed account.
	feed, total, err := f.feed.SubscribedFeed(ctx, bob.UserID, Page{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, feed)

	// Bob's own content survives.
	require.EqualValues(t, 1, f.count(t, &models.Post{}, "id = ?", bobPost.ID))
	require.EqualValues(t, 1, f.count(t, &models.Hashtag{}, "id = ?", tag.ID))
}
