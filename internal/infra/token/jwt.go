package token

import (
	"strconv"
	"time"

	"shopease/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// CookieName is the HTTP-only cookie that carries the session token.
const CookieName = "token"

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by a session token. IsAdmin mirrors Role for clients only.
type Claims struct {
	Role    model.Role `json:"role"`
	IsAdmin bool       `json:"isAdmin"`
	jwt.RegisteredClaims
}

// UserID parses the subject.
func (c Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// JWTIssuer signs and verifies HS256 session tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *JWTIssuer) TTL() time.Duration {
	return i.ttl
}

func (i *JWTIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Role:    role,
		IsAdmin: role == model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token failed")
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry.
func (i *JWTIssuer) Verify(raw string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
