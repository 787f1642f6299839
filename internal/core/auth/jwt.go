package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// DefaultLeeway 校验 exp/iat 时允许的时钟偏差
const DefaultLeeway = 60 * time.Second

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Leeway time.Duration // 0 表示 DefaultLeeway，负数表示不留偏差
}

func (j *JWTer) leeway() time.Duration {
	switch {
	case j.Leeway < 0:
		return 0
	case j.Leeway == 0:
		return DefaultLeeway
	}
	return j.Leeway
}

// AcceptedUntil token 被 Parse 接受的最后时刻，注销记录至少保留到这里
func (j *JWTer) AcceptedUntil(c *Claims) time.Time {
	return c.ExpiresAt.Time.Add(j.leeway())
}

// Issue 签发 access token，每个 token 带唯一 jti 便于注销
func (j *JWTer) Issue(uid string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uid,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(j.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return s, claims, nil
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithExpirationRequired(), jwt.WithLeeway(j.leeway()))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.ExpiresAt != nil {
		return c, nil
	}
	return nil, errors.New("invalid token")
}
