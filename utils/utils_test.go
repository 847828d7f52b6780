package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/socialhub/socialhub/config"
)

func TestMain(m *testing.M) {
	config.Set(config.AppConfig{JWTSecret: "test-secret", TokenTTLHours: 1})
	PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "alice")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	_, err = ParseToken(token + "x")
	require.Error(t, err)
	_, err = ParseToken("garbage")
	require.Error(t, err)
}

func TestTokensAreDistinct(t *testing.T) {
	a, err := GenerateToken(1, "alice")
	require.NoError(t, err)
	b, err := GenerateToken(1, "alice")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)
	require.True(t, CheckPassword(hash, "password123"))
	require.False(t, CheckPassword(hash, "password124"))
}

func TestBlacklistInMemory(t *testing.T) {
	require.False(t, IsTokenBlacklisted("tok-1"))
	BlacklistToken("tok-1", time.Now().Add(time.Minute))
	require.True(t, IsTokenBlacklisted("tok-1"))

	// Already expired tokens need no entry.
	BlacklistToken("tok-2", time.Now().Add(-time.Minute))
	require.False(t, IsTokenBlacklisted("tok-2"))
}

func TestSanitize(t *testing.T) {
	out := Sanitize(`<p onclick="x()">hi</p><script>alert(1)</script>`)
	require.Equal(t, "<p>hi</p>", out)

	require.Equal(t, "Go tips", SanitizeText(`<b>Go</b> tips<script>alert(1)</script>`))
}

func TestSavePhoto(t *testing.T) {
	root := t.TempDir()

	rel, err := SavePhoto(root, "Holiday.JPG", strings.NewReader("image-bytes"), 1024)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rel, PhotoSubdir+"/"))
	require.True(t, strings.HasSuffix(rel, ".jpg"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(data))

	other, err := SavePhoto(root, "Holiday.JPG", strings.NewReader("image-bytes"), 1024)
	require.NoError(t, err)
	require.NotEqual(t, rel, other)

	RemovePhoto(root, rel)
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	require.True(t, os.IsNotExist(err))

	// Removing twice or with an empty path is harmless.
	RemovePhoto(root, rel)
	RemovePhoto(root, "")
}

func TestSavePhotoRejects(t *testing.T) {
	root := t.TempDir()

	_, err := SavePhoto(root, "notes.txt", strings.NewReader("x"), 1024)
	require.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = SavePhoto(root, "big.png", bytes.NewReader(make([]byte, 2048)), 1024)
	require.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(filepath.Join(root, PhotoSubdir))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRemovePhotoStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "media")
	require.NoError(t, os.MkdirAll(root, 0o755))
	outside := filepath.Join(parent, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	RemovePhoto(root, "../keep.txt")
	_, err := os.Stat(outside)
	require.NoError(t, err)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 21)
	require.Equal(t, 3, p.TotalPages)
	require.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
}
