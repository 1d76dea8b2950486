package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

const (
	// IDTokenTTL bounds the short-lived identity token handed out at login.
	IDTokenTTL = time.Hour
	// SessionTTL matches the session cookie max age.
	SessionTTL = 5 * 24 * time.Hour
	// APIKeyTTL bounds the service token gating known frontends.
	APIKeyTTL = 15 * time.Minute
)

const (
	tokenTypeID      = "id"
	tokenTypeSession = "session"
)

// Claims is the caller identity decoded from a verified token.
type Claims struct {
	UID            string
	Email          string
	Roles          []string
	SignInProvider string
	IssuedAt       time.Time
}

// TokenManager mints and verifies the three token kinds the platform uses:
// user ID tokens, session tokens and service API keys. All are HS256 JWTs;
// user tokens and API keys are signed with separate secrets.
type TokenManager struct {
	authSecret   []byte
	accessSecret []byte
	appName      string
	issuer       string
}

func NewTokenManager(authSecret, accessSecret, appName, issuer string) *TokenManager {
	return &TokenManager{
		authSecret:   []byte(authSecret),
		accessSecret: []byte(accessSecret),
		appName:      appName,
		issuer:       issuer,
	}
}

// IssueIDToken mints the short-lived identity token returned by login.
func (m *TokenManager) IssueIDToken(uid, email string, roles []string, provider string) (string, error) {
	return m.issueUserToken(uid, email, roles, provider, tokenTypeID, IDTokenTTL)
}

// IssueSessionToken exchanges verified ID-token claims for a 5-day session
// token. The session carries the same identity; only the lifetime and the
// token type differ, so a session value cannot be replayed as a bearer token.
func (m *TokenManager) IssueSessionToken(c *Claims) (string, error) {
	return m.issueUserToken(c.UID, c.Email, c.Roles, c.SignInProvider, tokenTypeSession, SessionTTL)
}

func (m *TokenManager) issueUserToken(uid, email string, roles []string, provider, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   uid,
		"email": email,
		"typ":   typ,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	if roles != nil {
		claims["roles"] = roles
	}
	if provider != "" {
		claims["sign_in_provider"] = provider
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.authSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

// VerifyIDToken validates a bearer token and returns its claims.
func (m *TokenManager) VerifyIDToken(tokenStr string) (*Claims, error) {
	return m.verifyUserToken(tokenStr, tokenTypeID)
}

// VerifySessionToken validates a session cookie value. An expired session
// yields ErrTokenExpired so callers can tell it apart from tampering.
func (m *TokenManager) VerifySessionToken(tokenStr string) (*Claims, error) {
	return m.verifyUserToken(tokenStr, tokenTypeSession)
}

func (m *TokenManager) verifyUserToken(tokenStr, wantType string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.authSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if typ, _ := mapClaims["typ"].(string); typ != wantType {
		return nil, ErrTokenInvalid
	}

	uid, _ := mapClaims["sub"].(string)
	if uid == "" {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{UID: uid}
	claims.Email, _ = mapClaims["email"].(string)
	claims.SignInProvider, _ = mapClaims["sign_in_provider"].(string)

	if raw, ok := mapClaims["roles"].([]interface{}); ok {
		roles := make([]string, 0, len(raw))
		for _, r := range raw {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
		claims.Roles = roles
	}

	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}

	return claims, nil
}

// IssueAPIKey mints the short-lived service token trusted frontends attach
// as x-api-key. It asserts the application name and issuer, not a user.
func (m *TokenManager) IssueAPIKey() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"name": m.appName,
		"iss":  m.issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(APIKeyTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign api key: %w", err)
	}
	return signed, nil
}

// VerifyAPIKey validates a service token: signature, expiry, and the two
// expected claims. Every failure collapses to ErrTokenInvalid; the guard
// does not distinguish why a key was rejected.
func (m *TokenManager) VerifyAPIKey(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.accessSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrTokenInvalid
	}

	name, _ := mapClaims["name"].(string)
	iss, _ := mapClaims["iss"].(string)
	if name != m.appName || iss != m.issuer {
		return ErrTokenInvalid
	}

	return nil
}
