package auth

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shivpratapmithapalli/jobassist/internal/database"
	"github.com/shivpratapmithapalli/jobassist/internal/utilities"
)

// TestTokenConfig is a valid token configuration for tests. The secret is 84
// bytes, comfortably over the HS512 floor.
var TestTokenConfig = TokenConfig{
	Secret:     strings.Repeat("jobassist-test-secret", 4),
	AccessTTL:  time.Hour,
	RefreshTTL: 24 * time.Hour,
}

// NewTestTokenService builds a token service from TestTokenConfig, failing
// the test on configuration errors.
func NewTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(TestTokenConfig)
	if err != nil {
		t.Fatalf("failed to build test token service: %v", err)
	}
	return ts
}

// GetAccessToken is a helper function to obtain an access token for a user by simulating a login API call.
// It takes the testing object, database connection, email, and password as parameters.
// It returns the access token as a string and any error encountered during the process.
func GetAccessToken(
	t *testing.T,
	db *database.DBinstanceStruct,
	email string,
	password string,
) (string, error) {
	t.Helper()
	handler := NewLocalAuthHandler(db, NewTestTokenService(t))
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/user/login", http.MethodPost, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login Failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	if resp["token"] == nil {
		return "", fmt.Errorf("login Failed: no token in response: %s", rec.Body.String())
	}
	return resp["token"].(string), nil
}
