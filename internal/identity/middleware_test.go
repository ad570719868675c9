package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_MintsCookieForAnonymousVisitor(t *testing.T) {
	provider := NewJWTProvider("test-secret", time.Hour)

	var gotSessionID string
	handler := Session(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSessionID, _ = SessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.NotEmpty(t, gotSessionID)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, gotSessionID, cookie.Value)
}

func TestSession_ReusesExistingCookie(t *testing.T) {
	provider := NewJWTProvider("test-secret", time.Hour)

	var gotSessionID string
	handler := Session(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSessionID, _ = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "sess-existing"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "sess-existing", gotSessionID)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSession_ResolvesUserFromTokenCookie(t *testing.T) {
	provider := NewJWTProvider("test-secret", time.Hour)

	token, err := provider.issueToken(42)
	require.NoError(t, err)

	var gotUserID uint64
	var userOK bool
	handler := Session(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, userOK = UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: token})

	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, userOK)
	assert.Equal(t, uint64(42), gotUserID)
}

func TestSession_InvalidTokenStaysAnonymous(t *testing.T) {
	provider := NewJWTProvider("test-secret", time.Hour)

	var userOK bool
	var sessionOK bool
	handler := Session(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, userOK = UserID(r.Context())
		_, sessionOK = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: "not-a-token"})

	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, userOK)
	assert.True(t, sessionOK)
}
