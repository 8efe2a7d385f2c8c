package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies the access/refresh token pair. Tokens are
// self-contained: verification needs only the secret, no storage lookup.
type Codec struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is injectable for expiry tests. Defaults to time.Now.
	Now func() time.Time
}

func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		Secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

func (c *Codec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Codec) IssueAccess(email, role string) (string, error) {
	now := c.now()
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.AccessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
}

func (c *Codec) IssueRefresh(email string) (string, error) {
	now := c.now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.RefreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
}

func (c *Codec) ParseAccess(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := c.parse(tokenStr, &claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (c *Codec) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := c.parse(tokenStr, &claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (c *Codec) parse(tokenStr string, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.Secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return ErrInvalidToken
	}
	return nil
}
