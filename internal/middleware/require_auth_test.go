package middleware

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/shivpratapmithapalli/jobassist/internal/auth"
	"github.com/shivpratapmithapalli/jobassist/internal/database"
	"github.com/shivpratapmithapalli/jobassist/internal/testutil"
	"github.com/shivpratapmithapalli/jobassist/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var teardown func(context.Context, ...testcontainers.TerminateOption) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
}

func protectedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/protected", RequireAuth(testDB, auth.NewTestTokenService(t)), func(c *gin.Context) {
		user, err := utilities.ExtractUser(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return r
}

func TestRequireAuth_missingHeader(t *testing.T) {
	r := protectedRouter(t)

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/protected", http.MethodGet)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_garbageToken(t *testing.T) {
	r := protectedRouter(t)

	rec, resp := testutil.MakeJSONRequest(nil, "not-a-token", r, "/protected", http.MethodGet)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid access token", resp["message"])
}

func TestRequireAuth_expiredToken(t *testing.T) {
	expiredIssuer, err := auth.NewTokenService(auth.TokenConfig{
		Secret:     auth.TestTokenConfig.Secret,
		AccessTTL:  -time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)

	token, err := expiredIssuer.Generate(database.TestUserAlice.Email)
	require.NoError(t, err)

	r := protectedRouter(t)
	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/protected", http.MethodGet)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token expired", resp["message"])
}

func TestRequireAuth_unknownSubject(t *testing.T) {
	ts := auth.NewTestTokenService(t)
	token, err := ts.Generate("ghost@example.com")
	require.NoError(t, err)

	r := protectedRouter(t)
	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/protected", http.MethodGet)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not exist", resp["message"])
}

func TestRequireAuth_validToken(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserAlice.Email, database.TestSeedPassword)
	require.NoError(t, err)

	r := protectedRouter(t)
	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/protected", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestUserAlice.Email, resp["email"])
}
