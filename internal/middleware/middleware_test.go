package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	// must be set before the config singleton loads
	os.Setenv("JWT_SECRET", testSecret)
	os.Exit(m.Run())
}

func newProbe() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var seen string
	router.GET("/probe", DeviceAuth(), func(c *gin.Context) {
		seen = DeviceID(c)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestDeviceAuthHeader(t *testing.T) {
	router, seen := newProbe()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderDeviceID, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", *seen)
}

func TestDeviceAuthMissingHeader(t *testing.T) {
	router, _ := newProbe()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Device ID missing"}`, rec.Body.String())
}

func TestDeviceAuthSignedToken(t *testing.T) {
	router, seen := newProbe()

	claims := jwt.RegisteredClaims{
		Subject:   "signed-device",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed-device", *seen)
}

func TestDeviceAuthBadToken(t *testing.T) {
	router, _ := newProbe()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
