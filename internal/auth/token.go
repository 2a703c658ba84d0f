// Package auth is the token authority: it turns a raw Authorization header
// into a TenantContext, and issues the access tokens the login endpoint
// hands out. It holds no state beyond the shared HS256 secret.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

var (
	ErrTokenMissing   = errors.New("missing or invalid authorization header")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("invalid token")
)

type AccessClaims struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	ClientID    string `json:"client_id"`
	Role        string `json:"role"`
	AccountCode string `json:"accountcode,omitempty"`
	jwt.RegisteredClaims
}

// TenantContext is the per-request scope every downstream operation filters
// by. It is derived fresh from the token on each request and never persisted.
type TenantContext struct {
	ClientID    string
	Username    string
	UserID      string
	Role        string
	AccountCode string
	ExpiresAt   time.Time
}

func (t TenantContext) IsAdmin() bool {
	return strings.EqualFold(t.Role, RoleAdmin)
}

type Authority struct {
	secret []byte
}

func NewAuthority(secret string) *Authority {
	return &Authority{secret: []byte(secret)}
}

// Authenticate verifies the raw Authorization header value and returns the
// decoded tenant scope. It performs no I/O and is safe for concurrent use.
func (a *Authority) Authenticate(rawHeader string) (TenantContext, error) {
	parts := strings.SplitN(rawHeader, " ", 2)
	if rawHeader == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return TenantContext{}, ErrTokenMissing
	}

	token, err := jwt.ParseWithClaims(parts[1], &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TenantContext{}, ErrTokenExpired
		}
		return TenantContext{}, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return TenantContext{}, ErrTokenMalformed
	}
	if claims.ClientID == "" {
		return TenantContext{}, ErrTokenMalformed
	}

	tc := TenantContext{
		ClientID:    claims.ClientID,
		Username:    claims.Username,
		UserID:      claims.UserID,
		Role:        claims.Role,
		AccountCode: claims.AccountCode,
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	return tc, nil
}

// GenerateAccessToken issues a signed HS256 token for a legacy acc_users row.
func (a *Authority) GenerateAccessToken(userID, clientID, role, accountCode string, hours int) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:      userID,
		Username:    userID,
		ClientID:    clientID,
		Role:        role,
		AccountCode: accountCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(hours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}
