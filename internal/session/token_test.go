package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k3J9xQ2mVb7Lp0Zs4Tn8Wc1Ry6Hd5Fg-_aE"

func TestTokenService_IssueVerify(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour)
	id := uuid.New()

	token, issued, err := s.Issue(id, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenService_UniqueIDPerLogin(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour)
	id := uuid.New()

	_, a, err := s.Issue(id, "alice")
	require.NoError(t, err)
	_, b, err := s.Issue(id, "alice")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenService_Expired(t *testing.T) {
	s := NewTokenService(testSecret, time.Hour)
	token, _, err := s.Issue(uuid.New(), "alice")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, _, err := NewTokenService(testSecret, time.Hour).Issue(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = NewTokenService("another-secret-of-sufficient-length!", time.Hour).Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestTokenService_Garbage(t *testing.T) {
	_, err := NewTokenService(testSecret, time.Hour).Verify("not-a-token")
	assert.Error(t, err)
}
