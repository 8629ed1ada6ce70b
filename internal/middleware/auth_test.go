package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func invoke(token string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := RequireUser(testSecret)(next)(c)
	return rec, err
}

func TestRequireUser_ValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "guest-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, err := invoke(token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireUser_MissingToken(t *testing.T) {
	_, err := invoke("")

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireUser_InvalidSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "guest-42"})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	_, mwErr := invoke(signed)

	he, ok := mwErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireUser_AnonymousRejected(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":          "anon-session",
		"is_anonymous": true,
		"exp":          time.Now().Add(time.Hour).Unix(),
	})

	_, err := invoke(token)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireUser_SetsUserID(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "guest-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	next := func(c echo.Context) error {
		seen = UserID(c)
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, RequireUser(testSecret)(next)(c))
	assert.Equal(t, "guest-42", seen)
}
