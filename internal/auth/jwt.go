package auth

import (
	"encoding/base64"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/shivpratapmithapalli/jobassist/internal/apperror"
)

// JwtIssuer is the issuer claim stamped into every token.
const JwtIssuer = "JobAssist"

const (
	base64Prefix = "base64:"
	// HS512 requires a key of at least 512 bits.
	minKeyBytes = 64

	refreshTokenType = "refresh"
)

// TokenConfig is the process configuration of the token service. Secret is
// either raw UTF-8 bytes or, with a "base64:" prefix, a Base64 value.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenConfigFromEnv reads JWT_SECRET, JWT_EXPIRATION_MS and
// JWT_REFRESH_EXPIRATION_MS.
func TokenConfigFromEnv() TokenConfig {
	return TokenConfig{
		Secret:     os.Getenv("JWT_SECRET"),
		AccessTTL:  msEnv("JWT_EXPIRATION_MS", time.Hour),
		RefreshTTL: msEnv("JWT_REFRESH_EXPIRATION_MS", 7*24*time.Hour),
	}
}

func msEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// TokenService issues and verifies HS512-signed bearer tokens.
type TokenService struct {
	cfg TokenConfig
}

// NewTokenService validates the signing key eagerly so a misconfigured
// deployment fails at startup rather than mid-request.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	ts := &TokenService{cfg: cfg}
	if err := ts.CheckSigningKey(); err != nil {
		return nil, err
	}
	return ts, nil
}

// CheckSigningKey re-resolves the configured secret and returns a
// configuration error when it cannot produce a usable HS512 key. Callers run
// this before state-mutating operations that end with token issuance.
func (ts *TokenService) CheckSigningKey() error {
	_, err := ts.signingKey()
	return err
}

func (ts *TokenService) signingKey() ([]byte, error) {
	secret := strings.TrimSpace(ts.cfg.Secret)
	if secret == "" {
		return nil, apperror.Configuration(
			"JWT secret is not configured. Set a 512-bit key (64 bytes), optionally Base64 with a 'base64:' prefix", nil)
	}

	var key []byte
	if strings.HasPrefix(secret, base64Prefix) {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, base64Prefix))
		if err != nil {
			return nil, apperror.Configuration("JWT secret is not valid Base64", err)
		}
		key = decoded
	} else {
		key = []byte(secret)
	}

	if len(key) < minKeyBytes {
		return nil, apperror.Configuration(
			"JWT secret too short for HS512. Provide >= 64 bytes (512 bits), optionally Base64 with a 'base64:' prefix", nil)
	}
	return key, nil
}

func (ts *TokenService) generate(subject string, ttl time.Duration, extra map[string]interface{}) (string, error) {
	key, err := ts.signingKey()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": JwtIssuer,
		"sub": subject,
		"jti": uuid.NewString(),
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(ttl)),
	}
	for k, v := range extra {
		claims[k] = v
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(key)
	if err != nil {
		return "", apperror.Internal("Failed to sign token", err)
	}
	return signed, nil
}

// Generate issues an access token for the given subject (the user's email).
func (ts *TokenService) Generate(subject string) (string, error) {
	return ts.generate(subject, ts.cfg.AccessTTL, nil)
}

// GenerateWithClaims issues an access token carrying additional claims.
func (ts *TokenService) GenerateWithClaims(subject string, extra map[string]interface{}) (string, error) {
	return ts.generate(subject, ts.cfg.AccessTTL, extra)
}

// GenerateRefreshToken issues a token with the refresh TTL and a
// type=refresh claim.
func (ts *TokenService) GenerateRefreshToken(subject string) (string, error) {
	return ts.generate(subject, ts.cfg.RefreshTTL, map[string]interface{}{"type": refreshTokenType})
}

// Parse verifies the signature and structure of a token and returns its
// claims. Expiry is not checked here; Validate and the auth middleware do
// that on top of Parse.
func (ts *TokenService) Parse(encoded string) (jwt.MapClaims, error) {
	key, err := ts.signingKey()
	if err != nil {
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.Parse(encoded, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return nil, apperror.Authentication("Invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperror.Authentication("Invalid token", nil)
	}
	return claims, nil
}

// Expired reports whether the claims carry an exp in the past. Missing exp
// counts as expired.
func Expired(claims jwt.MapClaims) bool {
	return !claims.VerifyExpiresAt(time.Now().Unix(), true)
}

// Validate reports whether the token parses and is not expired. It never
// returns an error; any failure is false.
func (ts *TokenService) Validate(encoded string) bool {
	claims, err := ts.Parse(encoded)
	if err != nil {
		return false
	}
	return !Expired(claims)
}

// ValidateFor additionally requires the subject claim to equal subject.
func (ts *TokenService) ValidateFor(encoded, subject string) bool {
	claims, err := ts.Parse(encoded)
	if err != nil {
		return false
	}
	sub, _ := claims["sub"].(string)
	return sub == subject && !Expired(claims)
}

// IsRefreshToken reports whether the token carries a type=refresh claim.
// Unparseable tokens are simply not refresh tokens.
func (ts *TokenService) IsRefreshToken(encoded string) bool {
	claims, err := ts.Parse(encoded)
	if err != nil {
		return false
	}
	tokenType, _ := claims["type"].(string)
	return tokenType == refreshTokenType
}
