package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("test-secret"), 15*time.Minute, 7*24*time.Hour)
}

func TestCodec_AccessRoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	token, err := codec.IssueAccess("alice@x.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestCodec_RefreshRoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	token, err := codec.IssueRefresh("alice@x.com")
	require.NoError(t, err)

	claims, err := codec.ParseRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestCodec_RefreshTokensAreUnique(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	a, err := codec.IssueRefresh("alice@x.com")
	require.NoError(t, err)
	b, err := codec.IssueRefresh("alice@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCodec_ExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	issued := time.Now()
	codec := newTestCodec()
	codec.Now = func() time.Time { return issued }

	token, err := codec.IssueAccess("alice@x.com", "user")
	require.NoError(t, err)

	// Still valid one minute before expiry.
	codec.Now = func() time.Time { return issued.Add(14 * time.Minute) }
	_, err = codec.ParseAccess(token)
	require.NoError(t, err)

	// Invalid at and after expiry.
	codec.Now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = codec.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_WrongSecretRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	token, err := codec.IssueAccess("alice@x.com", "user")
	require.NoError(t, err)

	other := NewCodec([]byte("different-secret"), 15*time.Minute, 7*24*time.Hour)
	_, err = other.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_MalformedTokenRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.ParseAccess(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = codec.ParseRefresh(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestCodec_TamperedPayloadRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	token, err := codec.IssueAccess("alice@x.com", "user")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "xxxx"
	_, err = codec.ParseAccess(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
