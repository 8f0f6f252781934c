package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"  // sentinel errors and errors.Is matching
	"strconv" // string-to-int conversion for string subjects
	"time"    // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrTokenExpired is returned by ParseToken when the token's signature is
// valid but its expiry has elapsed. Handlers and middleware treat this the
// same as any other invalid token (401) but the distinction is kept for
// logging and tests.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned when a token is malformed, signed with the
// wrong key or algorithm, or missing the subject claim.
var ErrTokenInvalid = errors.New("token invalid")

// Token represents a signed JWT along with its expiry. The Token field
// contains the serialized JWT string; Exp stores the UTC expiration
// timestamp. Tokens are stateless: nothing is persisted server-side and
// there is no revocation — a token stays valid until Exp passes.
type Token struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims holds the values recovered from a verified token. UserID comes
// from the `sub` claim and is the only value the rest of the system
// trusts; Username is carried along for convenience.
type Claims struct {
	UserID   uint64
	Username string
}

// NewToken builds and signs an HS256 JWT for a user. It takes the signing
// secret, the user ID, the username and the validity window. The JWT
// includes standard claims: subject (sub), username, expiration (exp) and
// issued at (iat). The expiry is absolute: issued-at plus ttl.
func NewToken(secret string, userID uint64, username string, ttl time.Duration) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Token: signed, Exp: exp}, nil
}

// ParseToken verifies the signature and expiry of a serialized JWT and
// returns its claims. The signature is validated before any embedded
// claim is trusted; only HMAC-signed tokens are accepted. Expired tokens
// yield ErrTokenExpired, everything else that fails yields ErrTokenInvalid.
func ParseToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with any algorithm other than HMAC; without
		// this check a forged token could name its own verification scheme.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	var out Claims
	// Numeric JSON values decode as float64; sub may also arrive as a
	// string depending on the issuer.
	switch sub := mc["sub"].(type) {
	case float64:
		out.UserID = uint64(sub)
	case string:
		n, perr := strconv.ParseUint(sub, 10, 64)
		if perr != nil {
			return Claims{}, ErrTokenInvalid
		}
		out.UserID = n
	default:
		return Claims{}, ErrTokenInvalid
	}
	if out.UserID == 0 {
		return Claims{}, ErrTokenInvalid
	}
	if v, ok := mc["username"].(string); ok {
		out.Username = v
	}
	return out, nil
}
