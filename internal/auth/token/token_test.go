package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth/domain"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), 24*time.Hour)

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerify_Expired(t *testing.T) {
	// negative TTL issues an already-expired token
	issuer := NewIssuer([]byte("test-secret"), -time.Minute)

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewIssuer([]byte("secret-a"), time.Hour)
	other := NewIssuer([]byte("secret-b"), time.Hour)

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := issuer.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "token %q", tok)
	}
}

func TestVerify_Tampered(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	tampered := tok[:len(tok)-2] + "xx"
	_, err = issuer.Verify(tampered)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_UniformFailure(t *testing.T) {
	// all failure modes collapse to the same error so handlers cannot
	// leak the cause
	issuer := NewIssuer([]byte("test-secret"), -time.Minute)
	expired, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, errExpired := issuer.Verify(expired)
	_, errGarbage := issuer.Verify("garbage")

	assert.Equal(t, errExpired, errGarbage)
}
