package auth

import (
	"net/http"
	"strings"
)

// ClaimsKey 守卫通过后 claims 在 gin.Context 中的 key
const ClaimsKey = "claims"

// Decision 鉴权结果；Allowed 为 false 时 Reason 说明原因
type Decision struct {
	Allowed bool
	Reason  string
	Claims  *Claims
}

func Allow(c *Claims) Decision    { return Decision{Allowed: true, Claims: c} }
func Deny(reason string) Decision { return Decision{Reason: reason} }

// Guard 在受保护的 handler 之前执行，不产生副作用
type Guard interface {
	Check(r *http.Request) Decision
}

type GuardFunc func(r *http.Request) Decision

func (f GuardFunc) Check(r *http.Request) Decision { return f(r) }

var (
	AllowAll Guard = GuardFunc(func(*http.Request) Decision { return Allow(nil) })
	DenyAll  Guard = GuardFunc(func(*http.Request) Decision { return Deny("access denied") })
)

// Gate 校验 Bearer token 且未被注销
type Gate struct {
	JWT     *JWTer
	Revoked Revoker
}

func NewGate(j *JWTer, rv Revoker) *Gate { return &Gate{JWT: j, Revoked: rv} }

func (g *Gate) Check(r *http.Request) Decision {
	tok, ok := BearerToken(r)
	if !ok {
		return Deny("missing token")
	}
	claims, err := g.JWT.Parse(tok)
	if err != nil {
		return Deny("invalid token")
	}
	if g.Revoked != nil {
		revoked, err := g.Revoked.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			return Deny("token status unavailable")
		}
		if revoked {
			return Deny("token revoked")
		}
	}
	return Allow(claims)
}

func BearerToken(r *http.Request) (string, bool) {
	ah := r.Header.Get("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
	return tok, tok != ""
}
