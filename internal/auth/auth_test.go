package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookfeed/cookfeed-server/internal/domain"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=4$"))

	ok, err := VerifyPassword(hash, "correct horse battery")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong horse battery")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("password123")
	require.NoError(t, err)
	b, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("x", maxPasswordLength+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, hash := range []string{"", "plain", "$bcrypt$v=1$x$y$z", "$argon2id$v=19$m=1,t=1,p=1$!!!$abc"} {
		ok, err := VerifyPassword(hash, "password123")
		assert.NoError(t, err, hash)
		assert.False(t, ok, hash)
	}
}

func newTestTokenService(t *testing.T, access time.Duration) *TokenService {
	t.Helper()
	key, err := LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	ts, err := NewTokenService(key, access, 24*time.Hour)
	require.NoError(t, err)
	return ts
}

func TestAccessToken_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t, 15*time.Minute)
	user := &domain.User{ID: "user-1", Email: "ada@example.com"}

	token, err := ts.GenerateAccessToken(user, "sess-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := ts.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.TokenID)
}

func TestAccessToken_Expired(t *testing.T) {
	ts := newTestTokenService(t, time.Minute)
	issued := time.Now().Add(-time.Hour)
	ts.now = func() time.Time { return issued }

	token, err := ts.GenerateAccessToken(&domain.User{ID: "user-1"}, "sess-1")
	require.NoError(t, err)

	ts.now = time.Now
	_, err = ts.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestAccessToken_WrongKey(t *testing.T) {
	issuer := newTestTokenService(t, time.Minute)
	other := newTestTokenService(t, time.Minute)

	token, err := issuer.GenerateAccessToken(&domain.User{ID: "user-1"}, "sess-1")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)

	_, err = issuer.VerifyAccessToken("v4.local.garbage")
	assert.Error(t, err)
}

func TestNewTokenService_KeyLength(t *testing.T) {
	_, err := NewTokenService(make([]byte, 16), time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(make([]byte, 32), time.Minute, time.Hour)
	assert.NoError(t, err)
}

func TestRefreshToken(t *testing.T) {
	ts := newTestTokenService(t, time.Minute)

	a, err := ts.GenerateRefreshToken()
	require.NoError(t, err)
	b, err := ts.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	assert.Equal(t, HashRefreshToken(a), HashRefreshToken(a))
	assert.NotEqual(t, HashRefreshToken(a), HashRefreshToken(b))
	assert.Len(t, HashRefreshToken(a), 64)
}

func TestLoadOrGenerateKey_Persists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrGenerateKey_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
