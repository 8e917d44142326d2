package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the dashboard shows about the bearer token.
type TokenInfo struct {
	Subject   string
	ExpiresAt *time.Time
}

// InspectToken decodes the token's registered claims without verifying the
// signature. Tokens that are not JWTs yield an empty TokenInfo.
func InspectToken(token string) TokenInfo {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		info.ExpiresAt = &exp
	}
	return info
}

// Expired reports whether the token carries an expiry that is before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
